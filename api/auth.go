package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/garnizeh/uzman/internal/session"
	"github.com/garnizeh/uzman/internal/validate"
	"github.com/garnizeh/uzman/pkg/models"
)

type AuthHandler struct {
	sess      *session.Manager
	validator *validate.Validator
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(sess *session.Manager, validator *validate.Validator) *AuthHandler {
	return &AuthHandler{sess: sess, validator: validator}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, fmt.Errorf("read body: %w", models.ErrValidation))
		return
	}
	if err := h.validator.Validate(r.Context(), "login", body); err != nil {
		writeError(w, err)
		return
	}

	var req loginRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, fmt.Errorf("invalid request: %w", models.ErrValidation))
		return
	}

	resp, err := h.sess.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, resp, http.StatusOK)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, fmt.Errorf("read body: %w", models.ErrValidation))
		return
	}
	if err := h.validator.Validate(r.Context(), "register", body); err != nil {
		writeError(w, err)
		return
	}

	var in session.RegisterInput
	if err := json.Unmarshal(body, &in); err != nil {
		writeError(w, fmt.Errorf("invalid request: %w", models.ErrValidation))
		return
	}

	resp, err := h.sess.Register(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, resp, http.StatusCreated)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sess.Logout(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, map[string]string{"message": "signed out"}, http.StatusOK)
}
