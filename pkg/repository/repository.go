package repository

import (
	"context"

	"github.com/garnizeh/uzman/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.
//
// Get-by-id lookups return (nil, nil) when no entity has the given id. Create
// assigns the new id and returns it. Update of an unknown id returns
// models.ErrNotFound.

type UserRepo interface {
	GetAllUsers(ctx context.Context) ([]models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) (int64, error)
	UpdateUser(ctx context.Context, u *models.User) error
}

type ProjectRepo interface {
	GetAllProjects(ctx context.Context) ([]models.Project, error)
	GetProjectByID(ctx context.Context, id int64) (*models.Project, error)
	CreateProject(ctx context.Context, p *models.Project) (int64, error)
	UpdateProject(ctx context.Context, p *models.Project) error
}

type QuestionRepo interface {
	GetAllQuestions(ctx context.Context) ([]models.Question, error)
	GetQuestionByID(ctx context.Context, id int64) (*models.Question, error)
	CreateQuestion(ctx context.Context, q *models.Question) (int64, error)
	UpdateQuestion(ctx context.Context, q *models.Question) error
}
