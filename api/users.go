package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/garnizeh/uzman/internal/session"
	"github.com/garnizeh/uzman/internal/validate"
	"github.com/garnizeh/uzman/pkg/models"
	"github.com/garnizeh/uzman/pkg/repository"
	"github.com/gorilla/mux"
)

type UsersHandler struct {
	users     repository.UserRepo
	sess      *session.Manager
	validator *validate.Validator
}

func NewUsersHandler(users repository.UserRepo, sess *session.Manager, validator *validate.Validator) *UsersHandler {
	return &UsersHandler{users: users, sess: sess, validator: validator}
}

type profileResponse struct {
	User models.User `json:"user"`
}

func (h *UsersHandler) Profile(w http.ResponseWriter, r *http.Request) {
	u := UserFrom(r.Context())
	if u == nil {
		writeError(w, models.ErrUnauthorized)
		return
	}

	writeJSON(w, profileResponse{User: u.Sanitized()}, http.StatusOK)
}

func (h *UsersHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	acting := UserFrom(r.Context())
	if acting == nil {
		writeError(w, models.ErrUnauthorized)
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeError(w, fmt.Errorf("invalid user id: %w", models.ErrValidation))
		return
	}
	if acting.ID != id {
		writeError(w, fmt.Errorf("cannot edit another user's profile: %w", models.ErrForbidden))
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, fmt.Errorf("read body: %w", models.ErrValidation))
		return
	}
	if err := h.validator.Validate(r.Context(), "profile", body); err != nil {
		writeError(w, err)
		return
	}

	var patch session.ProfilePatch
	if err := json.Unmarshal(body, &patch); err != nil {
		writeError(w, fmt.Errorf("invalid request: %w", models.ErrValidation))
		return
	}

	updated, err := h.sess.UpdateProfile(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, updated.Sanitized(), http.StatusOK)
}

// ListExperts answers the expert search: free-text query over name and skill
// names, optional hourly rate ceiling and availability filter.
func (h *UsersHandler) ListExperts(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.GetAllUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	q := r.URL.Query()
	query := strings.ToLower(strings.TrimSpace(q.Get("q")))

	var maxRate float64
	hasMaxRate := false
	if raw := q.Get("max_rate"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			writeError(w, fmt.Errorf("invalid max_rate: %w", models.ErrValidation))
			return
		}
		maxRate = v
		hasMaxRate = true
	}
	availability := models.AvailabilityStatus(q.Get("availability"))

	experts := make([]models.User, 0)
	for _, u := range users {
		if u.Role != models.RoleExpert || u.Expert == nil {
			continue
		}
		if query != "" && !matchesQuery(u, query) {
			continue
		}
		if hasMaxRate && u.Expert.HourlyRate > maxRate {
			continue
		}
		if availability != "" && u.Expert.Availability.Status != availability {
			continue
		}

		experts = append(experts, u.Sanitized())
	}

	writeJSON(w, map[string]any{"total": len(experts), "items": experts}, http.StatusOK)
}

func matchesQuery(u models.User, query string) bool {
	if strings.Contains(strings.ToLower(u.FirstName), query) ||
		strings.Contains(strings.ToLower(u.LastName), query) {
		return true
	}
	for _, s := range u.Expert.Skills {
		if strings.Contains(strings.ToLower(s.Name), query) {
			return true
		}
	}

	return false
}
