package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"numduel/internal/api/apierr"
	"numduel/internal/middleware"
	"numduel/internal/services/party"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	PartyController *party.Controller
	// WSHandler serves the WebSocket upgrade endpoint
	WSHandler http.Handler
}

// NewRouter creates a new router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	partyHandler := NewPartyHandler(cfg.PartyController)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger, apiPanicHandler)

	// The WebSocket endpoint sits behind recovery only; the logging
	// wrapper would hold its log line until the socket closes
	wsRoute := r.PathPrefix("/ws").Subrouter()
	wsRoute.Use(recoveryMiddleware)
	wsRoute.Handle("", cfg.WSHandler)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/parties/{code}", partyHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/stats", partyHandler.Stats).Methods(http.MethodGet)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
