package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"log/slog"

	"github.com/garnizeh/uzman/internal/kv"
	"github.com/garnizeh/uzman/pkg/repository"
)

// Repo implements the repository interfaces over a kv.Store. Each collection
// is one JSON array under a fixed key; reads are linear scans, writes rewrite
// the whole blob. Fine at prototype data volumes.
type Repo struct {
	store  kv.Store
	logger *slog.Logger

	// serializes read-modify-write cycles so id allocation stays unique
	mu sync.Mutex
}

// Collection keys in the underlying store.
const (
	keyUsers     = "users"
	keyProjects  = "projects"
	keyQuestions = "questions"
)

// Ensure Repo implements the public interfaces.
var _ repository.UserRepo = (*Repo)(nil)
var _ repository.ProjectRepo = (*Repo)(nil)
var _ repository.QuestionRepo = (*Repo)(nil)

func New(store kv.Store, logger *slog.Logger) *Repo {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Repo{store: store, logger: logger}
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}

// loadCollection deserializes the stored array under key. Absence and corrupt
// blobs both come back as an empty collection; corruption is logged, never
// surfaced to the caller.
func loadCollection[T any](ctx context.Context, r *Repo, key string) ([]T, error) {
	raw, ok, err := r.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok || raw == "" {
		return nil, nil
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		r.logger.Error("corrupt collection, treating as empty",
			slog.String("key", key),
			slog.Any("err", err),
		)
		return nil, nil
	}

	return items, nil
}

func saveCollection[T any](ctx context.Context, r *Repo, key string, items []T) error {
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := r.store.Set(ctx, key, string(b)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}

	return nil
}
