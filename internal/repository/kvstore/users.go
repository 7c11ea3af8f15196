package kvstore

import (
	"context"
	"fmt"

	"github.com/garnizeh/uzman/pkg/models"
)

func (r *Repo) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return loadCollection[models.User](ctx, r, keyUsers)
}

func (r *Repo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	users, err := loadCollection[models.User](ctx, r, keyUsers)
	if err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}

	return nil, nil
}

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	users, err := loadCollection[models.User](ctx, r, keyUsers)
	if err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].Email == email {
			return &users[i], nil
		}
	}

	return nil, nil
}

func (r *Repo) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	if u == nil {
		return 0, fmt.Errorf("user is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := loadCollection[models.User](ctx, r, keyUsers)
	if err != nil {
		return 0, err
	}

	var maxID int64
	for i := range users {
		if users[i].Email == u.Email {
			return 0, models.ErrDuplicateEmail
		}
		if users[i].ID > maxID {
			maxID = users[i].ID
		}
	}

	u.ID = maxID + 1
	u.CreatedAt = now()
	u.UpdatedAt = u.CreatedAt

	users = append(users, *u)
	if err := saveCollection(ctx, r, keyUsers, users); err != nil {
		return 0, err
	}

	return u.ID, nil
}

func (r *Repo) UpdateUser(ctx context.Context, u *models.User) error {
	if u == nil {
		return fmt.Errorf("user is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := loadCollection[models.User](ctx, r, keyUsers)
	if err != nil {
		return err
	}

	for i := range users {
		if users[i].ID == u.ID {
			u.UpdatedAt = now()
			users[i] = *u
			return saveCollection(ctx, r, keyUsers, users)
		}
	}

	return fmt.Errorf("user %d: %w", u.ID, models.ErrNotFound)
}
