package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/gross-labs/supportbot/internal/chat"
	"github.com/gross-labs/supportbot/internal/conversation"
)

// DefaultConversationID is used when a chat request omits conversation_id.
const DefaultConversationID = "default"

const banner = "GROSS Support Chatbot API (with RAG)"

type Server struct {
	router *chi.Mux
	port   int
	chat   *chat.Service
	store  *conversation.Store
	logger *slog.Logger
}

func NewServer(port int, chatSvc *chat.Service, store *conversation.Store, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}))

	s := &Server{
		router: router,
		port:   port,
		chat:   chatSvc,
		store:  store,
		logger: logger,
	}

	router.Get("/", s.index)
	router.Get("/health", s.health)
	router.Post("/chat", s.createTurn)
	router.Get("/conversations/{id}", s.showConversation)
	router.Delete("/conversations/{id}", s.deleteConversation)

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

type chatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id"`
}

type chatResponse struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id"`
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{"message": banner})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) createTurn(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respond(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Message == "" {
		s.respond(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
		return
	}
	if req.ConversationID == "" {
		req.ConversationID = DefaultConversationID
	}

	reply, err := s.chat.Respond(r.Context(), req.ConversationID, req.Message)
	if err != nil {
		s.logger.Error("turn failed", "conversation_id", req.ConversationID, "error", err)
		s.respond(w, http.StatusBadGateway, map[string]string{"error": "failed to process message"})
		return
	}

	s.respond(w, http.StatusOK, chatResponse{Message: reply, ConversationID: req.ConversationID})
}

func (s *Server) showConversation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	conv, err := s.store.Get(id)
	if err != nil {
		if errors.Is(err, conversation.ErrNotFound) {
			s.respond(w, http.StatusNotFound, map[string]string{"error": "Conversation not found"})
			return
		}
		s.respond(w, http.StatusInternalServerError, map[string]string{"error": "failed to load conversation"})
		return
	}

	conv.Lock()
	history := conv.History()
	conv.Unlock()

	s.respond(w, http.StatusOK, map[string]any{
		"conversation_id": id,
		"history":         history,
	})
}

func (s *Server) deleteConversation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.store.Delete(id); err != nil {
		s.respond(w, http.StatusNotFound, map[string]string{"error": "Conversation not found"})
		return
	}
	s.respond(w, http.StatusOK, map[string]string{"message": "Conversation deleted"})
}

func (s *Server) respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}
