package kvstore

import (
	"context"
	"fmt"

	"github.com/garnizeh/uzman/pkg/models"
)

func (r *Repo) GetAllProjects(ctx context.Context) ([]models.Project, error) {
	return loadCollection[models.Project](ctx, r, keyProjects)
}

func (r *Repo) GetProjectByID(ctx context.Context, id int64) (*models.Project, error) {
	projects, err := loadCollection[models.Project](ctx, r, keyProjects)
	if err != nil {
		return nil, err
	}

	for i := range projects {
		if projects[i].ID == id {
			return &projects[i], nil
		}
	}

	return nil, nil
}

func (r *Repo) CreateProject(ctx context.Context, p *models.Project) (int64, error) {
	if p == nil {
		return 0, fmt.Errorf("project is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	projects, err := loadCollection[models.Project](ctx, r, keyProjects)
	if err != nil {
		return 0, err
	}

	var maxID int64
	for i := range projects {
		if projects[i].ID > maxID {
			maxID = projects[i].ID
		}
	}

	p.ID = maxID + 1
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt
	if p.Applications == nil {
		p.Applications = []models.ProjectApplication{}
	}

	projects = append(projects, *p)
	if err := saveCollection(ctx, r, keyProjects, projects); err != nil {
		return 0, err
	}

	return p.ID, nil
}

func (r *Repo) UpdateProject(ctx context.Context, p *models.Project) error {
	if p == nil {
		return fmt.Errorf("project is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	projects, err := loadCollection[models.Project](ctx, r, keyProjects)
	if err != nil {
		return err
	}

	for i := range projects {
		if projects[i].ID == p.ID {
			p.UpdatedAt = now()
			projects[i] = *p
			return saveCollection(ctx, r, keyProjects, projects)
		}
	}

	return fmt.Errorf("project %d: %w", p.ID, models.ErrNotFound)
}
