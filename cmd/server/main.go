package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taccuino-server/internal/config"
	"taccuino-server/internal/events"
	"taccuino-server/internal/handler"
	"taccuino-server/internal/middleware"
	"taccuino-server/internal/repository"
	"taccuino-server/internal/service"
	"taccuino-server/internal/websocket"

	_ "github.com/go-kivik/kivik/v4/couchdb"

	"github.com/go-kivik/kivik/v4"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)

	couchURL := fmt.Sprintf("http://%s:%s@%s:%s",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
	)

	client, err := kivik.New("couch", couchURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to CouchDB")
	}

	exists, err := client.DBExists(context.Background(), cfg.Database.Name)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to check database existence")
	}

	if !exists {
		if err := client.CreateDB(context.Background(), cfg.Database.Name); err != nil {
			logger.Fatal().Err(err).Msg("failed to create database")
		}
		logger.Info().Str("database", cfg.Database.Name).Msg("created database")
	}

	if err := ensureIndexes(client, cfg.Database.Name); err != nil {
		logger.Fatal().Err(err).Msg("failed to create indexes")
	}

	pathologyRepo := repository.NewPathologyRepository(client, cfg.Database.Name)
	noteRepo := repository.NewNoteRepository(client, cfg.Database.Name)
	procedureRepo := repository.NewProcedureRepository(client, cfg.Database.Name)
	techniqueRepo := repository.NewTechniqueRepository(client, cfg.Database.Name)
	patientRepo := repository.NewPatientRepository(client, cfg.Database.Name)
	userRepo := repository.NewUserRepository(client, cfg.Database.Name)

	bus := events.NewBus(256)

	wsManager := websocket.NewManager(
		cfg.WebSocket.MaxConnPerUser,
		time.Duration(cfg.WebSocket.WriteWaitSec)*time.Second,
		time.Duration(cfg.WebSocket.PongWaitSec)*time.Second,
		time.Duration(cfg.WebSocket.PingPeriodSec)*time.Second,
		logger.With().Str("component", "websocket").Logger(),
	)
	go wsManager.Run()
	go wsManager.Consume(bus)

	aggregateService := service.NewAggregateService(noteRepo, pathologyRepo, logger.With().Str("component", "aggregates").Logger())
	pathologyService := service.NewPathologyService(pathologyRepo, noteRepo, aggregateService, bus, logger.With().Str("component", "pathologies").Logger())
	procedureService := service.NewProcedureService(procedureRepo, techniqueRepo, bus)
	patientService := service.NewPatientService(patientRepo, bus)
	userService := service.NewUserService(userRepo)

	pathologyHandler := handler.NewPathologyHandler(pathologyService, cfg.Pagination.DefaultPageSize, cfg.Pagination.MaxPageSize)
	procedureHandler := handler.NewProcedureHandler(procedureService, cfg.Pagination.DefaultPageSize, cfg.Pagination.MaxPageSize)
	patientHandler := handler.NewPatientHandler(patientService, cfg.Pagination.DefaultPageSize, cfg.Pagination.MaxPageSize)
	userHandler := handler.NewUserHandler(userService)
	wsHandler := handler.NewWebSocketHandler(wsManager, cfg.JWT.Secret, cfg.WebSocket.ReadBufferSize, cfg.WebSocket.WriteBufferSize, logger.With().Str("component", "websocket").Logger())

	r := mux.NewRouter()

	r.Use(middleware.LoggerMiddleware(logger))
	r.Use(middleware.CORSMiddleware(
		cfg.CORS.AllowedOrigins,
		cfg.CORS.AllowedMethods,
		cfg.CORS.AllowedHeaders,
	))

	api := r.PathPrefix("/api/v1").Subrouter()

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret))

	protected.HandleFunc("/users/me", userHandler.GetMe).Methods("GET", "OPTIONS")
	protected.HandleFunc("/users/me", userHandler.UpdateMe).Methods("PUT", "OPTIONS")

	protected.HandleFunc("/pathologies", pathologyHandler.Create).Methods("POST", "OPTIONS")
	protected.HandleFunc("/pathologies", pathologyHandler.List).Methods("GET", "OPTIONS")
	protected.HandleFunc("/pathologies/{id}", pathologyHandler.Get).Methods("GET", "OPTIONS")
	protected.HandleFunc("/pathologies/{id}", pathologyHandler.Update).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/pathologies/{id}", pathologyHandler.Delete).Methods("DELETE", "OPTIONS")
	protected.HandleFunc("/pathologies/{id}/notes", pathologyHandler.CreateNote).Methods("POST", "OPTIONS")
	protected.HandleFunc("/pathologies/{id}/notes", pathologyHandler.ListNotes).Methods("GET", "OPTIONS")
	protected.HandleFunc("/pathologies/{id}/notes/{noteId}", pathologyHandler.UpdateNote).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/pathologies/{id}/notes/{noteId}", pathologyHandler.DeleteNote).Methods("DELETE", "OPTIONS")

	protected.HandleFunc("/procedures", procedureHandler.Create).Methods("POST", "OPTIONS")
	protected.HandleFunc("/procedures", procedureHandler.List).Methods("GET", "OPTIONS")
	protected.HandleFunc("/procedures/{id}", procedureHandler.Get).Methods("GET", "OPTIONS")
	protected.HandleFunc("/procedures/{id}", procedureHandler.Update).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/procedures/{id}", procedureHandler.Delete).Methods("DELETE", "OPTIONS")
	protected.HandleFunc("/procedures/{id}/techniques", procedureHandler.CreateTechnique).Methods("POST", "OPTIONS")
	protected.HandleFunc("/procedures/{id}/techniques", procedureHandler.ListTechniques).Methods("GET", "OPTIONS")
	protected.HandleFunc("/procedures/{id}/techniques/{techniqueId}", procedureHandler.UpdateTechnique).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/procedures/{id}/techniques/{techniqueId}", procedureHandler.DeleteTechnique).Methods("DELETE", "OPTIONS")

	protected.HandleFunc("/patients", patientHandler.Create).Methods("POST", "OPTIONS")
	protected.HandleFunc("/patients", patientHandler.List).Methods("GET", "OPTIONS")
	protected.HandleFunc("/patients/{id}", patientHandler.Get).Methods("GET", "OPTIONS")
	protected.HandleFunc("/patients/{id}", patientHandler.Update).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/patients/{id}", patientHandler.Delete).Methods("DELETE", "OPTIONS")

	r.HandleFunc("/ws", wsHandler.HandleConnection)

	r.HandleFunc("/health", healthHandler).Methods("GET")

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", addr).Str("env", cfg.Server.Env).Msg("starting taccuino server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	bus.Close()

	logger.Info().Msg("server stopped gracefully")
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Server.Env == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}

	return logger.Level(level).With().Timestamp().Logger()
}

// ensureIndexes creates the Mango index backing the top-1-by-updated_at query
// the aggregate maintainer issues. CreateIndex is idempotent.
func ensureIndexes(client *kivik.Client, dbName string) error {
	db := client.DB(dbName)

	index := map[string]interface{}{
		"fields": []string{"kind", "pathology_id", "updated_at"},
	}
	if err := db.CreateIndex(context.Background(), "notes-by-pathology-updated", "notes-by-pathology-updated-idx", index); err != nil {
		return fmt.Errorf("failed to create note index: %w", err)
	}

	return nil
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","service":"taccuino-server"}`))
}
