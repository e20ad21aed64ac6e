package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/RikitaRoy3/Chatly/internal/domain"
	"github.com/RikitaRoy3/Chatly/internal/token"
)

// Signup handles POST /api/auth/signup.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.Signup(req.FullName, req.Email, req.Password)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	if err := h.issueSession(w, user); err != nil {
		h.writeDomainError(w, err)
		return
	}

	// Welcome email is a post-commit side effect; its failure never reaches
	// the caller.
	go func(u domain.User) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := h.notifier.SendWelcomeEmail(ctx, &u); err != nil {
			h.logger.Warn("welcome email failed", zap.String("email", u.Email), zap.Error(err))
		}
	}(*user)

	h.writeJSON(w, http.StatusCreated, map[string]interface{}{"user": user})
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.Login(req.Email, req.Password)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	if err := h.issueSession(w, user); err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// Logout handles POST /api/auth/logout by expiring the session cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "jwt",
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Check handles GET /api/auth/check and returns the authenticated user.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.GetUserByID(requestUserID(r))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// UpdateProfile handles PUT /api/auth/update.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(requestUserID(r), req)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// issueSession signs a token for the user and sets it both as an HttpOnly
// cookie (browser clients) and in the response body (CLI clients).
func (h *Handler) issueSession(w http.ResponseWriter, user *domain.User) error {
	signed, err := h.tokens.Issue(user.ID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "jwt",
		Value:    signed,
		MaxAge:   int(token.TTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
	w.Header().Set("X-Auth-Token", signed)
	return nil
}
