package handler

import (
	"net/http"

	"taccuino-server/internal/websocket"
	"taccuino-server/pkg/jwt"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

type WebSocketHandler struct {
	manager   *websocket.Manager
	jwtSecret string
	upgrader  ws.Upgrader
	logger    zerolog.Logger
}

func NewWebSocketHandler(manager *websocket.Manager, jwtSecret string, readBufferSize, writeBufferSize int, logger zerolog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		manager:   manager,
		jwtSecret: jwtSecret,
		upgrader: ws.Upgrader{
			ReadBufferSize:  readBufferSize,
			WriteBufferSize: writeBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}
}

// HandleConnection authenticates via query token or Authorization header.
// Browsers cannot set headers on WebSocket upgrades, hence the query form.
func (h *WebSocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = r.Header.Get("Authorization")
		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}
	}

	if token == "" {
		http.Error(w, "missing authorization token", http.StatusUnauthorized)
		return
	}

	claims, err := jwt.ValidateToken(token, h.jwtSecret)
	if err != nil {
		h.logger.Debug().Err(err).Msg("websocket token validation failed")
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to upgrade connection")
		return
	}

	client := websocket.NewClient(uuid.New().String(), claims.UserID, conn, h.manager)
	h.manager.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
