package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/guesswho/guesswho-go/internal/api/handler"
	"github.com/guesswho/guesswho-go/internal/middleware"
	"github.com/guesswho/guesswho-go/internal/services/game"
	"github.com/guesswho/guesswho-go/internal/services/user"
	"github.com/guesswho/guesswho-go/internal/ws"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	UserService *user.Service
	GameManager *game.Manager
	Gateway     *ws.Gateway
}

// NewRouter creates a new router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	userHandler := handler.NewUserHandler(cfg.UserService)
	gameHandler := handler.NewGameHandler(cfg.GameManager)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger, middleware.DefaultPanicHandler)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// User routes
	api.HandleFunc("/users", userHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/users", userHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}", userHandler.Get).Methods(http.MethodGet)

	// Game routes
	api.HandleFunc("/games", gameHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}", gameHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}/winner", gameHandler.RecordWinner).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/messages", gameHandler.ListMessages).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Websocket endpoint; the upgrade path skips the logging wrapper so the
	// hijacked connection is handed to the gateway untouched
	r.HandleFunc("/ws", cfg.Gateway.ServeWS)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
