package kvstore

import (
	"context"
	"fmt"

	"github.com/garnizeh/uzman/pkg/models"
)

func (r *Repo) GetAllQuestions(ctx context.Context) ([]models.Question, error) {
	return loadCollection[models.Question](ctx, r, keyQuestions)
}

func (r *Repo) GetQuestionByID(ctx context.Context, id int64) (*models.Question, error) {
	questions, err := loadCollection[models.Question](ctx, r, keyQuestions)
	if err != nil {
		return nil, err
	}

	for i := range questions {
		if questions[i].ID == id {
			return &questions[i], nil
		}
	}

	return nil, nil
}

func (r *Repo) CreateQuestion(ctx context.Context, q *models.Question) (int64, error) {
	if q == nil {
		return 0, fmt.Errorf("question is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	questions, err := loadCollection[models.Question](ctx, r, keyQuestions)
	if err != nil {
		return 0, err
	}

	var maxID int64
	for i := range questions {
		if questions[i].ID > maxID {
			maxID = questions[i].ID
		}
	}

	q.ID = maxID + 1
	q.CreatedAt = now()
	q.UpdatedAt = q.CreatedAt
	if q.Answers == nil {
		q.Answers = []models.Answer{}
	}

	questions = append(questions, *q)
	if err := saveCollection(ctx, r, keyQuestions, questions); err != nil {
		return 0, err
	}

	return q.ID, nil
}

func (r *Repo) UpdateQuestion(ctx context.Context, q *models.Question) error {
	if q == nil {
		return fmt.Errorf("question is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	questions, err := loadCollection[models.Question](ctx, r, keyQuestions)
	if err != nil {
		return err
	}

	for i := range questions {
		if questions[i].ID == q.ID {
			q.UpdatedAt = now()
			questions[i] = *q
			return saveCollection(ctx, r, keyQuestions, questions)
		}
	}

	return fmt.Errorf("question %d: %w", q.ID, models.ErrNotFound)
}
