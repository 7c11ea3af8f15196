package kvstore_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/garnizeh/uzman/internal/kv"
	"github.com/garnizeh/uzman/internal/repository/kvstore"
	"github.com/garnizeh/uzman/pkg/models"
)

func newRepo() (*kvstore.Repo, *kv.Memory) {
	store := kv.NewMemory()
	return kvstore.New(store, nil), store
}

func TestUsers_CreateAssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo()

	id1, err := repo.CreateUser(ctx, &models.User{Email: "a@example.com", Role: models.RoleCustomer})
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	id2, err := repo.CreateUser(ctx, &models.User{Email: "b@example.com", Role: models.RoleExpert})
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}

	if id1 != 1 || id2 != 2 {
		t.Fatalf("expected ids 1 and 2, got %d and %d", id1, id2)
	}
}

func TestUsers_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo()

	if _, err := repo.CreateUser(ctx, &models.User{Email: "dup@example.com", Role: models.RoleCustomer}); err != nil {
		t.Fatalf("first CreateUser returned error: %v", err)
	}
	_, err := repo.CreateUser(ctx, &models.User{Email: "dup@example.com", Role: models.RoleExpert})
	if !errors.Is(err, models.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	users, err := repo.GetAllUsers(ctx)
	if err != nil {
		t.Fatalf("GetAllUsers returned error: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected exactly one stored user, got %d", len(users))
	}
}

func TestUsers_GetByEmailAndID(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo()

	id, err := repo.CreateUser(ctx, &models.User{
		Email:     "ayse@example.com",
		FirstName: "Ayşe",
		LastName:  "Demir",
		Role:      models.RoleExpert,
		Expert: &models.ExpertProfile{
			HourlyRate:   120,
			Availability: models.Availability{Status: models.Available},
		},
	})
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}

	byID, err := repo.GetUserByID(ctx, id)
	if err != nil || byID == nil {
		t.Fatalf("GetUserByID: user=%v err=%v", byID, err)
	}
	byEmail, err := repo.GetUserByEmail(ctx, "ayse@example.com")
	if err != nil || byEmail == nil {
		t.Fatalf("GetUserByEmail: user=%v err=%v", byEmail, err)
	}
	if !reflect.DeepEqual(byID, byEmail) {
		t.Fatalf("lookups disagree: %+v vs %+v", byID, byEmail)
	}
	if byID.Expert == nil || byID.Expert.HourlyRate != 120 {
		t.Fatalf("expert profile lost in round-trip: %+v", byID)
	}

	missing, err := repo.GetUserByID(ctx, 999)
	if err != nil || missing != nil {
		t.Fatalf("expected (nil, nil) for unknown id, got %v, %v", missing, err)
	}
}

func TestUsers_UpdateMissingIsNotFound(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo()

	err := repo.UpdateUser(ctx, &models.User{ID: 42, Email: "ghost@example.com"})
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProjects_CreateRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo()

	p := &models.Project{
		CustomerID:     1,
		Title:          "Data pipeline",
		Description:    "Build an ingest pipeline",
		Status:         models.ProjectOpen,
		Budget:         models.Budget{Min: 1000, Max: 5000, Currency: "TRY"},
		RequiredSkills: []string{"Go", "SQL"},
		Duration:       models.Duration{Estimate: 6, Unit: models.UnitWeeks},
	}
	id, err := repo.CreateProject(ctx, p)
	if err != nil {
		t.Fatalf("CreateProject returned error: %v", err)
	}

	got, err := repo.GetProjectByID(ctx, id)
	if err != nil || got == nil {
		t.Fatalf("GetProjectByID: project=%v err=%v", got, err)
	}
	if !reflect.DeepEqual(*got, *p) {
		t.Fatalf("round-trip mismatch:\n got %+v\nwant %+v", *got, *p)
	}
	if got.Applications == nil {
		t.Fatalf("expected applications initialized to empty slice")
	}
}

func TestProjects_UpdateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo, store := newRepo()

	p := &models.Project{CustomerID: 1, Title: "One", Status: models.ProjectOpen}
	if _, err := repo.CreateProject(ctx, p); err != nil {
		t.Fatalf("CreateProject returned error: %v", err)
	}

	p.Title = "Renamed"
	if err := repo.UpdateProject(ctx, p); err != nil {
		t.Fatalf("first UpdateProject returned error: %v", err)
	}
	first, _, _ := store.Get(ctx, "projects")

	if err := repo.UpdateProject(ctx, p); err != nil {
		t.Fatalf("second UpdateProject returned error: %v", err)
	}

	got, err := repo.GetProjectByID(ctx, p.ID)
	if err != nil || got == nil {
		t.Fatalf("GetProjectByID: project=%v err=%v", got, err)
	}
	if got.Title != "Renamed" {
		t.Fatalf("expected updated title, got %q", got.Title)
	}
	if first == "" {
		t.Fatalf("expected persisted blob after update")
	}
}

func TestQuestions_CreateAndUpdateAnswers(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo()

	q := &models.Question{AuthorID: 1, Title: "How to test?", Content: "...", Tags: []string{"testing"}}
	id, err := repo.CreateQuestion(ctx, q)
	if err != nil {
		t.Fatalf("CreateQuestion returned error: %v", err)
	}

	got, err := repo.GetQuestionByID(ctx, id)
	if err != nil || got == nil {
		t.Fatalf("GetQuestionByID: question=%v err=%v", got, err)
	}

	got.Answers = append(got.Answers, models.Answer{
		ID:         1,
		QuestionID: id,
		AuthorID:   2,
		Content:    "Like this.",
		Votes:      []models.Vote{},
	})
	if err := repo.UpdateQuestion(ctx, got); err != nil {
		t.Fatalf("UpdateQuestion returned error: %v", err)
	}

	again, err := repo.GetQuestionByID(ctx, id)
	if err != nil || again == nil {
		t.Fatalf("GetQuestionByID after update: question=%v err=%v", again, err)
	}
	if len(again.Answers) != 1 || again.Answers[0].Content != "Like this." {
		t.Fatalf("answer not persisted: %+v", again.Answers)
	}
}

func TestCorruptCollectionReadsAsEmpty(t *testing.T) {
	ctx := context.Background()
	repo, store := newRepo()

	if err := store.Set(ctx, "users", "{not json"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	users, err := repo.GetAllUsers(ctx)
	if err != nil {
		t.Fatalf("expected corruption to be swallowed, got error: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("expected empty collection, got %d items", len(users))
	}

	// the store recovers on the next write
	if _, err := repo.CreateUser(ctx, &models.User{Email: "fresh@example.com", Role: models.RoleCustomer}); err != nil {
		t.Fatalf("CreateUser after corruption returned error: %v", err)
	}
	users, _ = repo.GetAllUsers(ctx)
	if len(users) != 1 {
		t.Fatalf("expected one user after recovery, got %d", len(users))
	}
}
