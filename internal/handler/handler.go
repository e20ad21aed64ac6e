package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/RikitaRoy3/Chatly/internal/domain"
	"github.com/RikitaRoy3/Chatly/internal/hub"
	"github.com/RikitaRoy3/Chatly/internal/service"
	"github.com/RikitaRoy3/Chatly/internal/token"
)

type contextKey string

const userIDKey contextKey = "userID"

// Handler wires the HTTP and websocket surface of the server.
type Handler struct {
	userService    service.IUserService
	messageService service.IMessageService
	notifier       service.INotifier
	registry       *hub.Registry
	tokens         *token.Manager
	logger         *zap.Logger
}

// NewHandler creates the HTTP handler.
func NewHandler(userService service.IUserService, messageService service.IMessageService, notifier service.INotifier, registry *hub.Registry, tokens *token.Manager, logger *zap.Logger) *Handler {
	return &Handler{
		userService:    userService,
		messageService: messageService,
		notifier:       notifier,
		registry:       registry,
		tokens:         tokens,
		logger:         logger,
	}
}

// Router builds the route table.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()

	auth := r.PathPrefix("/api/auth").Subrouter()
	auth.HandleFunc("/signup", h.Signup).Methods("POST")
	auth.HandleFunc("/login", h.Login).Methods("POST")
	auth.HandleFunc("/logout", h.Logout).Methods("POST")
	auth.Handle("/check", h.requireAuth(h.Check)).Methods("GET")
	auth.Handle("/update", h.requireAuth(h.UpdateProfile)).Methods("PUT")

	messages := r.PathPrefix("/api/messages").Subrouter()
	messages.Handle("/chats", h.requireAuth(h.ChatPartners)).Methods("GET")
	messages.Handle("/send/{userId}", h.requireAuth(h.SendMessage)).Methods("POST")
	messages.Handle("/user/{userId}", h.requireAuth(h.GetUserByID)).Methods("GET")
	messages.Handle("/{userId}", h.requireAuth(h.GetHistory)).Methods("GET")

	r.HandleFunc("/ws", h.ServeWS).Methods("GET")

	return r
}

// requireAuth authenticates the request and stores the verified user ID in
// the request context.
func (h *Handler) requireAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := h.authenticate(r)
		if err != nil {
			h.writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	})
}

// authenticate extracts the session token from the jwt cookie, the
// Authorization header or (for websocket dials) the token query parameter.
func (h *Handler) authenticate(r *http.Request) (uuid.UUID, error) {
	var raw string
	if cookie, err := r.Cookie("jwt"); err == nil {
		raw = cookie.Value
	}
	if raw == "" {
		if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
			raw = strings.TrimPrefix(header, "Bearer ")
		}
	}
	if raw == "" {
		raw = r.URL.Query().Get("token")
	}
	if raw == "" {
		return uuid.Nil, token.ErrInvalidToken
	}
	return h.tokens.Verify(raw)
}

func requestUserID(r *http.Request) uuid.UUID {
	id, _ := r.Context().Value(userIDKey).(uuid.UUID)
	return id
}

func pathUserID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)["userId"])
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encoding response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"message": message})
}

// writeDomainError maps the domain error kinds onto HTTP statuses.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyMessage),
		errors.Is(err, domain.ErrSelfMessage),
		errors.Is(err, domain.ErrMissingFields),
		errors.Is(err, domain.ErrPasswordTooShort),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrEmailTaken):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		h.writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrMessageNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Error("internal error", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
