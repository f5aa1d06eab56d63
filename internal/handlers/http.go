package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Chatbot answers a user query within a session.
type Chatbot interface {
	ProcessQuery(ctx context.Context, query, sessionID string) string
	IsConnected(ctx context.Context) bool
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse is the body returned by POST /chat.
type ChatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

// HealthResponse reports service liveness and upstream reachability.
type HealthResponse struct {
	Status       string `json:"status"`
	Service      string `json:"service"`
	APIConnected bool   `json:"api_connected"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// API wires the chat engine into the HTTP surface.
type API struct {
	bot              Chatbot
	defaultSessionID string
	logger           *slog.Logger
}

func NewAPI(bot Chatbot, defaultSessionID string, logger *slog.Logger) *API {
	return &API{
		bot:              bot,
		defaultSessionID: defaultSessionID,
		logger:           logger.With("component", "http_api"),
	}
}

// Mount attaches the chat routes and the Prometheus endpoint to the router.
func (a *API) Mount(r chi.Router) {
	r.Post("/chat", a.handleChat)
	r.Get("/health", a.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
}

func (a *API) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		a.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message is required"})
		return
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = a.defaultSessionID
		if sessionID == "" {
			sessionID = uuid.NewString()
		}
	}

	response := a.bot.ProcessQuery(r.Context(), req.Message, sessionID)
	a.writeJSON(w, http.StatusOK, ChatResponse{Response: response, SessionID: sessionID})
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, HealthResponse{
		Status:       "healthy",
		Service:      "ChatBet Sports Assistant",
		APIConnected: a.bot.IsConnected(r.Context()),
	})
}

func (a *API) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.logger.Warn("failed writing response", "error", err)
	}
}
