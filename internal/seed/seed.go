// Package seed installs the demo dataset on an empty store.
package seed

import (
	"context"
	"fmt"
	"io"

	"log/slog"

	"github.com/garnizeh/uzman/pkg/models"
	"github.com/garnizeh/uzman/pkg/repository"
	"golang.org/x/crypto/bcrypt"
)

const demoPassword = "password123"

// Run creates the demo users, a sample open project and a sample question.
// It is a no-op when the users collection already has records.
func Run(ctx context.Context, users repository.UserRepo, projects repository.ProjectRepo, questions repository.QuestionRepo, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	existing, err := users.GetAllUsers(ctx)
	if err != nil {
		return fmt.Errorf("check users: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("seed skipped, users collection not empty", slog.Int("count", len(existing)))
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	demo := []models.User{
		{
			Email:        "customer@example.com",
			FirstName:    "Ahmet",
			LastName:     "Yılmaz",
			Role:         models.RoleCustomer,
			PasswordHash: string(hash),
			Customer: &models.CustomerProfile{
				Company: models.Company{Name: "ABC Şirketi", Industry: "Retail", Size: models.SizeSMB},
			},
		},
		{
			Email:        "expert@example.com",
			FirstName:    "Ayşe",
			LastName:     "Demir",
			Role:         models.RoleExpert,
			PasswordHash: string(hash),
			Expert: &models.ExpertProfile{
				Skills: []models.Skill{
					{ID: 1, Name: "Yazılım", Level: models.LevelExpert},
					{ID: 2, Name: "Veri Bilimi", Level: models.LevelAdvanced},
				},
				HourlyRate:   150,
				Availability: models.Availability{Status: models.Available},
				Experience:   models.Experience{Years: 8},
			},
		},
		{
			Email:        "customer2@example.com",
			FirstName:    "Mehmet",
			LastName:     "Kaya",
			Role:         models.RoleCustomer,
			PasswordHash: string(hash),
			Customer: &models.CustomerProfile{
				Company: models.Company{Name: "XYZ Holding", Industry: "Finance", Size: models.SizeEnterprise},
			},
		},
		{
			Email:        "expert2@example.com",
			FirstName:    "Zeynep",
			LastName:     "Şahin",
			Role:         models.RoleExpert,
			PasswordHash: string(hash),
			Expert: &models.ExpertProfile{
				Skills: []models.Skill{
					{ID: 3, Name: "UI/UX Tasarım", Level: models.LevelAdvanced},
					{ID: 4, Name: "Mobil Uygulama Geliştirme", Level: models.LevelIntermediate},
				},
				HourlyRate:   120,
				Availability: models.Availability{Status: models.Busy},
				Experience:   models.Experience{Years: 5},
			},
		},
	}

	ids := make([]int64, 0, len(demo))
	for i := range demo {
		id, err := users.CreateUser(ctx, &demo[i])
		if err != nil {
			return fmt.Errorf("seed user %s: %w", demo[i].Email, err)
		}
		ids = append(ids, id)
	}

	project := models.Project{
		CustomerID:     ids[0],
		Title:          "E-ticaret sitesi yenileme",
		Description:    "Mevcut mağaza arayüzünün yeniden tasarlanması ve hızlandırılması.",
		Status:         models.ProjectOpen,
		Budget:         models.Budget{Min: 20000, Max: 50000, Currency: "TRY"},
		RequiredSkills: []string{"Yazılım", "UI/UX Tasarım"},
		Duration:       models.Duration{Estimate: 2, Unit: models.UnitMonths},
	}
	if _, err := projects.CreateProject(ctx, &project); err != nil {
		return fmt.Errorf("seed project: %w", err)
	}

	question := models.Question{
		AuthorID: ids[0],
		Title:    "Proje bütçesi nasıl belirlenir?",
		Content:  "İlk projem için gerçekçi bir bütçe aralığını nasıl seçerim?",
		Tags:     []string{"budget", "getting-started"},
	}
	if _, err := questions.CreateQuestion(ctx, &question); err != nil {
		return fmt.Errorf("seed question: %w", err)
	}

	logger.Info("seeded demo data",
		slog.Int("users", len(ids)),
		slog.Int64("project", project.ID),
		slog.Int64("question", question.ID),
	)

	return nil
}
