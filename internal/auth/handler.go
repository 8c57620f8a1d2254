package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
)

const (
	minPasswordLen = 8
	maxBodyBytes   = 1 << 16
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type credentials struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName,omitempty"`
}

// decodeCredentials reads the body and normalizes the email. Register
// additionally requires a display name and a long enough password.
func decodeCredentials(w http.ResponseWriter, r *http.Request, register bool) (credentials, error) {
	var c credentials
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&c); err != nil {
		return c, errors.New("invalid request body")
	}
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.DisplayName = strings.TrimSpace(c.DisplayName)

	if c.Email == "" || c.Password == "" {
		return c, errors.New("email and password are required")
	}
	if !register {
		return c, nil
	}
	if c.DisplayName == "" {
		return c, errors.New("displayName is required")
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return c, fmt.Errorf("invalid email %q", c.Email)
	}
	if len(c.Password) < minPasswordLen {
		return c, fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}
	return c, nil
}

// Register handles POST /auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	c, err := decodeCredentials(w, r, true)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	result, err := h.service.Register(r.Context(), c.Email, c.Password, c.DisplayName)
	if err != nil {
		handleServiceError(w, "register", err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	c, err := decodeCredentials(w, r, false)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	result, err := h.service.Login(r.Context(), c.Email, c.Password)
	if err != nil {
		handleServiceError(w, "login", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Me handles GET /api/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, "get user", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func handleServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrEmailTaken):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "email already registered"})
	case errors.Is(err, ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	case errors.Is(err, ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
	default:
		slog.Error(op+" failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
