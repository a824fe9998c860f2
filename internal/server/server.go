// Package server wires the HTTP surface: the /ask endpoint, the embedded
// chat page and the per-session history listing.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/minhtn/ragchat/internal/answerer"
	"github.com/minhtn/ragchat/internal/history"
	"github.com/minhtn/ragchat/internal/logger"
	"github.com/minhtn/ragchat/web"
)

// Asker answers questions. *answerer.Answerer satisfies it.
type Asker interface {
	Ask(ctx context.Context, question string) (*answerer.Result, error)
}

// QueryRequest is the /ask request body.
type QueryRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id,omitempty"`
}

// QueryResponse is the /ask response body. The field set matches what chat
// clients expect; only answer drives their display today. SessionID names
// the session the exchange was persisted under so clients can resend it
// and read /history back.
type QueryResponse struct {
	Question    string   `json:"question"`
	Answer      string   `json:"answer"`
	Context     []string `json:"context"`
	Confidence  float64  `json:"confidence"`
	LLMProvider string   `json:"llm_provider"`
	SessionID   string   `json:"session_id"`
}

// Server holds the handler dependencies.
type Server struct {
	asker   Asker
	history *history.Store
}

// New creates a server.
func New(asker Asker, hist *history.Store) *Server {
	return &Server{asker: asker, history: hist}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /ask", s.handleAsk)
	mux.HandleFunc("GET /history", s.handleHistory)
	mux.Handle("GET /static/", http.FileServerFS(web.Static))
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, web.Static, "static/index.html")
	})
	return mux
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		http.Error(w, "question is required", http.StatusBadRequest)
		return
	}

	result, err := s.asker.Ask(r.Context(), question)
	if err != nil {
		logger.L.Error("process error", "err", err, "question", question)
		http.Error(w, "failed to process request", http.StatusInternalServerError)
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	if s.history != nil {
		s.history.Save(history.Message{SessionID: sessionID, Role: "user", Content: question})
		s.history.Save(history.Message{SessionID: sessionID, Role: "bot", Content: result.Answer})
	}

	resp := QueryResponse{
		Question:    result.Question,
		Answer:      result.Answer,
		Context:     result.Context,
		Confidence:  result.Confidence,
		LLMProvider: result.Provider,
		SessionID:   sessionID,
	}
	if resp.Context == nil {
		resp.Context = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.L.Error("encode response", "err", err)
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session is required", http.StatusBadRequest)
		return
	}

	msgs := s.history.List(sessionID)
	if msgs == nil {
		msgs = []history.Message{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(msgs); err != nil {
		logger.L.Error("encode history", "err", err)
	}
}
