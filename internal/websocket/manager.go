package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"taccuino-server/internal/events"

	"github.com/rs/zerolog"
)

type ClientMessage struct {
	Client  *Client
	Message []byte
}

// Manager tracks connected clients per user and pushes the change feed to
// them. It consumes the event bus rather than being called by services
// directly, so a slow socket can never hold up a mutation.
type Manager struct {
	clients        map[string]*Client
	userIndex      map[string]map[string]bool
	clientsMutex   sync.RWMutex
	Register       chan *Client
	Unregister     chan *Client
	HandleMessage  chan *ClientMessage
	maxConnPerUser int
	writeWait      time.Duration
	pongWait       time.Duration
	pingPeriod     time.Duration
	logger         zerolog.Logger
}

func NewManager(maxConnPerUser int, writeWait, pongWait, pingPeriod time.Duration, logger zerolog.Logger) *Manager {
	return &Manager{
		clients:        make(map[string]*Client),
		userIndex:      make(map[string]map[string]bool),
		Register:       make(chan *Client),
		Unregister:     make(chan *Client),
		HandleMessage:  make(chan *ClientMessage),
		maxConnPerUser: maxConnPerUser,
		writeWait:      writeWait,
		pongWait:       pongWait,
		pingPeriod:     pingPeriod,
		logger:         logger,
	}
}

func (m *Manager) Run() {
	for {
		select {
		case client := <-m.Register:
			m.registerClient(client)

		case client := <-m.Unregister:
			m.unregisterClient(client)

		case clientMsg := <-m.HandleMessage:
			m.processMessage(clientMsg)
		}
	}
}

// Consume forwards bus events to the owning user's clients until the
// subscription channel is closed.
func (m *Manager) Consume(bus *events.Bus) {
	ch, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	for event := range ch {
		if err := m.broadcastEvent(event); err != nil {
			m.logger.Error().Err(err).
				Str("record", string(event.Record)).
				Str("record_id", event.RecordID).
				Msg("failed to broadcast change")
		}
	}
}

func (m *Manager) broadcastEvent(event events.Event) error {
	msgType := TypeRecordChanged
	if event.Operation == events.OpDeleted {
		msgType = TypeRecordDeleted
	}

	var data json.RawMessage
	if event.Data != nil {
		bytes, err := json.Marshal(event.Data)
		if err != nil {
			return err
		}
		data = bytes
	}

	msg, err := NewMessage(msgType, &ChangePayload{
		Record:     string(event.Record),
		RecordID:   event.RecordID,
		ParentID:   event.ParentID,
		OccurredAt: event.OccurredAt,
		Data:       data,
	})
	if err != nil {
		return err
	}

	return m.BroadcastToUser(event.UserID, msg)
}

func (m *Manager) registerClient(client *Client) {
	m.clientsMutex.Lock()
	defer m.clientsMutex.Unlock()

	if m.userIndex[client.UserID] == nil {
		m.userIndex[client.UserID] = make(map[string]bool)
	}

	if len(m.userIndex[client.UserID]) >= m.maxConnPerUser {
		m.logger.Warn().Str("user_id", client.UserID).Msg("max connections reached")
		close(client.Send)
		return
	}

	m.clients[client.ID] = client
	m.userIndex[client.UserID][client.ID] = true

	m.logger.Debug().Str("client_id", client.ID).Str("user_id", client.UserID).Msg("client registered")
}

func (m *Manager) unregisterClient(client *Client) {
	m.clientsMutex.Lock()
	defer m.clientsMutex.Unlock()

	if _, ok := m.clients[client.ID]; ok {
		delete(m.clients, client.ID)
		delete(m.userIndex[client.UserID], client.ID)

		if len(m.userIndex[client.UserID]) == 0 {
			delete(m.userIndex, client.UserID)
		}

		close(client.Send)
		m.logger.Debug().Str("client_id", client.ID).Msg("client unregistered")
	}
}

// The feed is one-way. The only inbound message clients send is an
// application-level ping, answered with a pong on the same socket.
func (m *Manager) processMessage(clientMsg *ClientMessage) {
	var msg Message
	if err := json.Unmarshal(clientMsg.Message, &msg); err != nil {
		m.logger.Error().Err(err).Msg("error unmarshaling message")
		return
	}

	if msg.Type != TypePing {
		m.logger.Debug().Str("type", string(msg.Type)).Msg("ignoring unexpected client message")
		return
	}

	pong, err := NewMessage(TypePong, nil)
	if err != nil {
		return
	}
	if err := m.SendToClient(clientMsg.Client.ID, pong); err != nil {
		m.logger.Error().Err(err).Msg("error sending pong")
	}
}

func (m *Manager) BroadcastToUser(userID string, message *Message) error {
	m.clientsMutex.RLock()
	defer m.clientsMutex.RUnlock()

	messageBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	clientIDs, exists := m.userIndex[userID]
	if !exists {
		return nil
	}

	for clientID := range clientIDs {
		client := m.clients[clientID]
		select {
		case client.Send <- messageBytes:
		default:
			m.logger.Warn().Str("client_id", clientID).Msg("send buffer full, closing connection")
			go func(c *Client) { m.Unregister <- c }(client)
		}
	}

	return nil
}

func (m *Manager) SendToClient(clientID string, message *Message) error {
	m.clientsMutex.RLock()
	defer m.clientsMutex.RUnlock()

	client, exists := m.clients[clientID]
	if !exists {
		return nil
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	select {
	case client.Send <- messageBytes:
	default:
		m.logger.Warn().Str("client_id", clientID).Msg("send buffer full")
	}

	return nil
}

func (m *Manager) GetUserConnections(userID string) int {
	m.clientsMutex.RLock()
	defer m.clientsMutex.RUnlock()

	if clients, exists := m.userIndex[userID]; exists {
		return len(clients)
	}
	return 0
}
