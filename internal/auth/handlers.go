package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"workorders/internal/api"
	"workorders/internal/apperr"
	"workorders/internal/user"
	"workorders/pkg/config"
)

type Handlers struct {
	Cfg   config.Config
	Users *user.Repository
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

func (h Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || len(req.Password) < 8 {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "name, email and a password of at least 8 characters are required")
		return
	}

	// Self-service registration always produces a plain user. Elevated roles
	// are assigned by an existing superadmin.
	role := user.RoleUser
	if req.Role != "" {
		caller := api.UserFromContext(r.Context())
		if caller == nil || caller.Role != user.RoleSuperadmin {
			api.WriteError(w, http.StatusForbidden, "FORBIDDEN", "only a superadmin can assign roles")
			return
		}
		role = user.Role(req.Role)
		if !role.Valid() {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid role")
			return
		}
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	u, err := h.Users.Create(r.Context(), req.Name, req.Email, hash, role)
	if err != nil {
		api.WriteAppError(w, err)
		return
	}

	tok, err := IssueToken(h.Cfg.JWTSecret, u, time.Now(), DefaultTokenTTL)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	api.WriteJSON(w, http.StatusCreated, TokenResponse{Token: tok, User: u})
}

func (h Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}

	u, err := h.Users.GetByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials")
			return
		}
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if !CheckPassword(u.PasswordHash, req.Password) {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials")
		return
	}

	tok, err := IssueToken(h.Cfg.JWTSecret, u, time.Now(), DefaultTokenTTL)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	api.WriteJSON(w, http.StatusOK, TokenResponse{Token: tok, User: u})
}

func (h Handlers) Me(w http.ResponseWriter, r *http.Request) {
	u := api.UserFromContext(r.Context())
	if u == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
		return
	}
	api.WriteJSON(w, http.StatusOK, u)
}
