package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/garnizeh/uzman/api"
	"github.com/garnizeh/uzman/internal/config"
	"github.com/garnizeh/uzman/internal/kv"
	"github.com/garnizeh/uzman/pkg/models"
	"github.com/gorilla/mux"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	// verify no goroutine leaks across tests in this package
	goleak.VerifyTestMain(m)
}

const testSecret = "testsecret"

func newServer(t *testing.T) *mux.Router {
	t.Helper()

	cfg := &config.Config{
		Addr:          ":0",
		JWTSecret:     testSecret,
		APITimeout:    5 * time.Second,
		TokenDuration: time.Hour,
	}
	r, err := api.SetupRoutes(cfg, "test", "unknown", kv.NewMemory())
	if err != nil {
		t.Fatalf("SetupRoutes returned error: %v", err)
	}

	return r
}

// do runs one request through the router. A non-empty token is sent as a
// bearer Authorization header.
func do(t *testing.T, r *mux.Router, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewReader([]byte(b))
		default:
			raw, err := json.Marshal(body)
			if err != nil {
				t.Fatalf("marshal body: %v", err)
			}
			reader = bytes.NewReader(raw)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("unmarshal response %q: %v", w.Body.String(), err)
	}
	return v
}

func register(t *testing.T, r *mux.Router, email string, role models.Role) models.AuthResponse {
	t.Helper()

	payload := map[string]any{
		"email":     email,
		"password":  "password123",
		"firstName": "Test",
		"lastName":  "User",
		"role":      string(role),
	}
	w := do(t, r, http.MethodPost, "/v1/auth/register", "", payload)
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d body=%s", email, w.Code, w.Body.String())
	}

	return decode[models.AuthResponse](t, w)
}

func registerExpert(t *testing.T, r *mux.Router, email string) models.AuthResponse {
	t.Helper()
	return register(t, r, email, models.RoleExpert)
}

func registerCustomer(t *testing.T, r *mux.Router, email string) models.AuthResponse {
	t.Helper()
	return register(t, r, email, models.RoleCustomer)
}

func createProject(t *testing.T, r *mux.Router, token string) models.Project {
	t.Helper()

	payload := map[string]any{
		"title":          "Data pipeline",
		"description":    "Build an ingest pipeline",
		"budget":         map[string]any{"min": 1000, "max": 5000, "currency": "TRY"},
		"requiredSkills": []string{"Go"},
		"duration":       map[string]any{"estimate": 6, "unit": "WEEKS"},
	}
	w := do(t, r, http.MethodPost, "/v1/projects", token, payload)
	if w.Code != http.StatusCreated {
		t.Fatalf("create project: expected 201, got %d body=%s", w.Code, w.Body.String())
	}

	return decode[models.Project](t, w)
}

func createQuestion(t *testing.T, r *mux.Router, token string) models.Question {
	t.Helper()

	payload := map[string]any{
		"title":   "How do I scope a first project?",
		"content": "Looking for advice on budget and duration.",
		"tags":    []string{"getting-started"},
	}
	w := do(t, r, http.MethodPost, "/v1/questions", token, payload)
	if w.Code != http.StatusCreated {
		t.Fatalf("create question: expected 201, got %d body=%s", w.Code, w.Body.String())
	}

	return decode[models.Question](t, w)
}

func createAnswer(t *testing.T, r *mux.Router, token string, questionID int64) models.Answer {
	t.Helper()

	path := fmt.Sprintf("/v1/questions/%d/answers", questionID)
	w := do(t, r, http.MethodPost, path, token, map[string]any{"content": "Start small."})
	if w.Code != http.StatusCreated {
		t.Fatalf("create answer: expected 201, got %d body=%s", w.Code, w.Body.String())
	}

	return decode[models.Answer](t, w)
}
