package handler

import (
	"encoding/json"
	"net/http"

	"github.com/RikitaRoy3/Chatly/internal/domain"
)

// SendMessage handles POST /api/messages/send/{userId}. The response echoes
// the persisted record; a failed send has no side effects the caller needs
// to undo.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	receiverID, err := pathUserID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req domain.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	message, err := h.messageService.Send(r.Context(), requestUserID(r), receiverID, req)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, message)
}

// GetHistory handles GET /api/messages/{userId}: the full two-way history
// with that partner, oldest first.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	partnerID, err := pathUserID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	messages, err := h.messageService.History(r.Context(), requestUserID(r), partnerID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if messages == nil {
		messages = []*domain.Message{}
	}
	h.writeJSON(w, http.StatusOK, messages)
}

// ChatPartners handles GET /api/messages/chats: the viewer's ranked
// conversation list.
func (h *Handler) ChatPartners(w http.ResponseWriter, r *http.Request) {
	entries, err := h.messageService.ChatPartners(r.Context(), requestUserID(r))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if entries == nil {
		entries = []domain.ChatPartnerEntry{}
	}
	h.writeJSON(w, http.StatusOK, entries)
}

// GetUserByID handles GET /api/messages/user/{userId}: direct lookup of a
// user for starting a first-ever conversation.
func (h *Handler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, user)
}
