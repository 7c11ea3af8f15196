// Package session tracks the acting user. The manager is the only writer of
// the persisted auth_token and user_profile slots; everything else derives the
// current identity from it.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"log/slog"

	"github.com/garnizeh/uzman/internal/kv"
	"github.com/garnizeh/uzman/pkg/models"
	"github.com/garnizeh/uzman/pkg/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Persisted slots for the current identity.
const (
	KeyAuthToken   = "auth_token"
	KeyUserProfile = "user_profile"
)

type Manager struct {
	users         repository.UserRepo
	store         kv.Store
	jwtSecret     string
	tokenDuration time.Duration
	logger        *slog.Logger

	mu      sync.RWMutex
	current *models.User
}

// NewManager builds a Manager and restores the current user from the store.
// A missing or unparsable persisted profile means an unauthenticated session.
func NewManager(users repository.UserRepo, store kv.Store, jwtSecret string, tokenDuration time.Duration, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	m := &Manager{
		users:         users,
		store:         store,
		jwtSecret:     jwtSecret,
		tokenDuration: tokenDuration,
		logger:        logger,
	}
	m.restore(context.Background())

	return m
}

func (m *Manager) restore(ctx context.Context) {
	token, ok, err := m.store.Get(ctx, KeyAuthToken)
	if err != nil || !ok || token == "" {
		return
	}
	raw, ok, err := m.store.Get(ctx, KeyUserProfile)
	if err != nil || !ok {
		return
	}

	var u models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		m.logger.Error("corrupt persisted profile, starting unauthenticated", slog.Any("err", err))
		return
	}

	m.current = &u
}

// Current returns the in-memory acting user, or nil when unauthenticated.
func (m *Manager) Current() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.current
}

// RegisterInput carries the fields required to create an account, plus the
// role-specific profile section matching Role.
type RegisterInput struct {
	Email     string                  `json:"email"`
	Password  string                  `json:"password"`
	FirstName string                  `json:"firstName"`
	LastName  string                  `json:"lastName"`
	Role      models.Role             `json:"role"`
	Expert    *models.ExpertProfile   `json:"expert,omitempty"`
	Customer  *models.CustomerProfile `json:"customer,omitempty"`
}

func (m *Manager) Register(ctx context.Context, in RegisterInput) (*models.AuthResponse, error) {
	if in.Email == "" || in.Password == "" || in.FirstName == "" || in.LastName == "" || in.Role == "" {
		return nil, fmt.Errorf("email, password, firstName, lastName and role are required: %w", models.ErrValidation)
	}
	if in.Role != models.RoleExpert && in.Role != models.RoleCustomer {
		return nil, fmt.Errorf("unknown role %q: %w", in.Role, models.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := models.User{
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         in.Role,
		PasswordHash: string(hash),
	}
	switch in.Role {
	case models.RoleExpert:
		if in.Expert != nil {
			u.Expert = in.Expert
		} else {
			u.Expert = &models.ExpertProfile{
				Skills:       []models.Skill{},
				Availability: models.Availability{Status: models.Available},
			}
		}
	case models.RoleCustomer:
		if in.Customer != nil {
			u.Customer = in.Customer
		} else {
			u.Customer = &models.CustomerProfile{}
		}
	}

	if _, err := m.users.CreateUser(ctx, &u); err != nil {
		return nil, err
	}

	return m.establish(ctx, &u)
}

func (m *Manager) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", models.ErrValidation)
	}

	u, err := m.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, models.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, models.ErrInvalidCredentials
	}

	return m.establish(ctx, u)
}

// establish mints a token, persists the identity slots and swaps the
// in-memory current user.
func (m *Manager) establish(ctx context.Context, u *models.User) (*models.AuthResponse, error) {
	token, err := m.IssueToken(u)
	if err != nil {
		return nil, err
	}

	sanitized := u.Sanitized()
	raw, err := json.Marshal(sanitized)
	if err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}
	if err := m.store.Set(ctx, KeyAuthToken, token); err != nil {
		return nil, fmt.Errorf("persist token: %w", err)
	}
	if err := m.store.Set(ctx, KeyUserProfile, string(raw)); err != nil {
		return nil, fmt.Errorf("persist profile: %w", err)
	}

	m.mu.Lock()
	m.current = u
	m.mu.Unlock()

	return &models.AuthResponse{User: sanitized, Token: token}, nil
}

func (m *Manager) Logout(ctx context.Context) error {
	if err := m.store.Delete(ctx, KeyAuthToken); err != nil {
		return err
	}
	if err := m.store.Delete(ctx, KeyUserProfile); err != nil {
		return err
	}

	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()

	return nil
}

// ProfilePatch is applied on top of the stored user record. Nil fields are
// left untouched. Role is immutable and has no patch field.
type ProfilePatch struct {
	FirstName *string                 `json:"firstName,omitempty"`
	LastName  *string                 `json:"lastName,omitempty"`
	Expert    *models.ExpertProfile   `json:"expert,omitempty"`
	Customer  *models.CustomerProfile `json:"customer,omitempty"`
}

func (m *Manager) UpdateProfile(ctx context.Context, userID int64, patch ProfilePatch) (*models.User, error) {
	u, err := m.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user %d: %w", userID, models.ErrNotFound)
	}

	if patch.FirstName != nil {
		u.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		u.LastName = *patch.LastName
	}
	if patch.Expert != nil {
		if u.Role != models.RoleExpert {
			return nil, fmt.Errorf("expert fields on a %s account: %w", u.Role, models.ErrValidation)
		}
		u.Expert = patch.Expert
	}
	if patch.Customer != nil {
		if u.Role != models.RoleCustomer {
			return nil, fmt.Errorf("customer fields on a %s account: %w", u.Role, models.ErrValidation)
		}
		u.Customer = patch.Customer
	}

	if err := m.users.UpdateUser(ctx, u); err != nil {
		return nil, err
	}

	// keep the persisted session copy in sync when the acting user edited
	// their own profile
	m.mu.Lock()
	if m.current != nil && m.current.ID == userID {
		m.current = u
		if raw, err := json.Marshal(u.Sanitized()); err == nil {
			if err := m.store.Set(ctx, KeyUserProfile, string(raw)); err != nil {
				m.logger.Error("persist updated profile", slog.Any("err", err))
			}
		}
	}
	m.mu.Unlock()

	return u, nil
}

// IssueToken mints a signed token carrying just enough to recover the acting
// user. It is not a security boundary in this system.
func (m *Manager) IssueToken(u *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": u.ID,
		"role":    string(u.Role),
		"jti":     uuid.NewString(),
		"exp":     time.Now().Add(m.tokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(m.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// UserFromToken resolves the acting user from a bearer token string.
func (m *Manager) UserFromToken(ctx context.Context, tokenStr string) (*models.User, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return []byte(m.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, models.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, models.ErrUnauthorized
	}
	idF, ok := claims["user_id"].(float64)
	if !ok {
		return nil, models.ErrUnauthorized
	}

	u, err := m.users.GetUserByID(ctx, int64(idF))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, models.ErrUnauthorized
	}

	return u, nil
}
