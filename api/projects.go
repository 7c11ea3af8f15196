package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/garnizeh/uzman/internal/validate"
	"github.com/garnizeh/uzman/pkg/models"
	"github.com/garnizeh/uzman/pkg/repository"
	"github.com/gorilla/mux"
)

type ProjectsHandler struct {
	projects  repository.ProjectRepo
	validator *validate.Validator
}

func NewProjectsHandler(projects repository.ProjectRepo, validator *validate.Validator) *ProjectsHandler {
	return &ProjectsHandler{projects: projects, validator: validator}
}

// List shows customers their own projects; experts see open projects plus any
// they applied to.
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	acting := UserFrom(r.Context())
	if acting == nil {
		writeError(w, models.ErrUnauthorized)
		return
	}

	all, err := h.projects.GetAllProjects(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	items := make([]models.Project, 0)
	for _, p := range all {
		switch acting.Role {
		case models.RoleCustomer:
			if p.CustomerID == acting.ID {
				items = append(items, p)
			}
		case models.RoleExpert:
			if p.Status == models.ProjectOpen || hasApplication(p, acting.ID) {
				items = append(items, p)
			}
		}
	}

	writeJSON(w, map[string]any{"total": len(items), "items": items}, http.StatusOK)
}

func hasApplication(p models.Project, expertID int64) bool {
	for _, a := range p.Applications {
		if a.ExpertID == expertID {
			return true
		}
	}
	return false
}

type projectRequest struct {
	Title              string               `json:"title"`
	Description        string               `json:"description"`
	Status             models.ProjectStatus `json:"status,omitempty"`
	Budget             models.Budget        `json:"budget"`
	RequiredSkills     []string             `json:"requiredSkills"`
	PreferredLanguages []string             `json:"preferredLanguages,omitempty"`
	Duration           models.Duration      `json:"duration"`
}

func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	acting := UserFrom(r.Context())
	if acting == nil {
		writeError(w, models.ErrUnauthorized)
		return
	}
	if acting.Role != models.RoleCustomer {
		writeError(w, fmt.Errorf("only customers can post projects: %w", models.ErrForbidden))
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, fmt.Errorf("read body: %w", models.ErrValidation))
		return
	}
	if err := h.validator.Validate(r.Context(), "project", body); err != nil {
		writeError(w, err)
		return
	}

	var req projectRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, fmt.Errorf("invalid request: %w", models.ErrValidation))
		return
	}

	status := req.Status
	if status == "" {
		status = models.ProjectOpen
	}

	p := models.Project{
		CustomerID:         acting.ID,
		Title:              req.Title,
		Description:        req.Description,
		Status:             status,
		Budget:             req.Budget,
		RequiredSkills:     req.RequiredSkills,
		PreferredLanguages: req.PreferredLanguages,
		Duration:           req.Duration,
	}
	if _, err := h.projects.CreateProject(r.Context(), &p); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, p, http.StatusCreated)
}

func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := h.fetch(w, r)
	if !ok {
		return
	}

	writeJSON(w, p, http.StatusOK)
}

func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	acting := UserFrom(r.Context())
	if acting == nil {
		writeError(w, models.ErrUnauthorized)
		return
	}

	p, ok := h.fetch(w, r)
	if !ok {
		return
	}
	if p.CustomerID != acting.ID {
		writeError(w, fmt.Errorf("not the project owner: %w", models.ErrForbidden))
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, fmt.Errorf("read body: %w", models.ErrValidation))
		return
	}
	if err := h.validator.Validate(r.Context(), "project", body); err != nil {
		writeError(w, err)
		return
	}

	var req projectRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, fmt.Errorf("invalid request: %w", models.ErrValidation))
		return
	}

	p.Title = req.Title
	p.Description = req.Description
	if req.Status != "" {
		p.Status = req.Status
	}
	p.Budget = req.Budget
	p.RequiredSkills = req.RequiredSkills
	p.PreferredLanguages = req.PreferredLanguages
	p.Duration = req.Duration

	if err := h.projects.UpdateProject(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, p, http.StatusOK)
}

type applicationRequest struct {
	ProposedRate float64 `json:"proposedRate"`
	CoverLetter  string  `json:"coverLetter,omitempty"`
}

// Apply submits an expert's application. Only OPEN projects accept
// applications; one application per expert per project.
func (h *ProjectsHandler) Apply(w http.ResponseWriter, r *http.Request) {
	acting := UserFrom(r.Context())
	if acting == nil {
		writeError(w, models.ErrUnauthorized)
		return
	}
	if acting.Role != models.RoleExpert {
		writeError(w, fmt.Errorf("only experts can apply: %w", models.ErrForbidden))
		return
	}

	p, ok := h.fetch(w, r)
	if !ok {
		return
	}
	if p.Status != models.ProjectOpen {
		writeError(w, fmt.Errorf("project is not open for applications: %w", models.ErrValidation))
		return
	}
	if hasApplication(*p, acting.ID) {
		writeError(w, fmt.Errorf("already applied to this project: %w", models.ErrValidation))
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, fmt.Errorf("read body: %w", models.ErrValidation))
		return
	}
	if err := h.validator.Validate(r.Context(), "application", body); err != nil {
		writeError(w, err)
		return
	}

	var req applicationRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, fmt.Errorf("invalid request: %w", models.ErrValidation))
		return
	}

	var maxID int64
	for _, a := range p.Applications {
		if a.ID > maxID {
			maxID = a.ID
		}
	}

	app := models.ProjectApplication{
		ID:           maxID + 1,
		ExpertID:     acting.ID,
		ProjectID:    p.ID,
		Status:       models.ApplicationPending,
		ProposedRate: req.ProposedRate,
		CoverLetter:  req.CoverLetter,
		CreatedAt:    nowMillis(),
	}
	p.Applications = append(p.Applications, app)

	if err := h.projects.UpdateProject(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, app, http.StatusCreated)
}

type applicationDecision struct {
	Status models.ApplicationStatus `json:"status"`
}

// DecideApplication lets the owning customer accept or reject an application.
// Accepting moves the project to IN_PROGRESS.
func (h *ProjectsHandler) DecideApplication(w http.ResponseWriter, r *http.Request) {
	acting := UserFrom(r.Context())
	if acting == nil {
		writeError(w, models.ErrUnauthorized)
		return
	}

	p, ok := h.fetch(w, r)
	if !ok {
		return
	}
	if p.CustomerID != acting.ID {
		writeError(w, fmt.Errorf("not the project owner: %w", models.ErrForbidden))
		return
	}

	appID, err := strconv.ParseInt(mux.Vars(r)["appID"], 10, 64)
	if err != nil || appID <= 0 {
		writeError(w, fmt.Errorf("invalid application id: %w", models.ErrValidation))
		return
	}

	var req applicationDecision
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("invalid request: %w", models.ErrValidation))
		return
	}
	if req.Status != models.ApplicationAccepted && req.Status != models.ApplicationRejected {
		writeError(w, fmt.Errorf("status must be ACCEPTED or REJECTED: %w", models.ErrValidation))
		return
	}

	idx := -1
	for i := range p.Applications {
		if p.Applications[i].ID == appID {
			idx = i
			break
		}
	}
	if idx < 0 {
		writeError(w, fmt.Errorf("application %d: %w", appID, models.ErrNotFound))
		return
	}

	p.Applications[idx].Status = req.Status
	if req.Status == models.ApplicationAccepted {
		p.Status = models.ProjectInProgress
	}

	if err := h.projects.UpdateProject(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, p.Applications[idx], http.StatusOK)
}

// fetch loads the project addressed by the route, writing the error response
// itself when the id is bad or unknown.
func (h *ProjectsHandler) fetch(w http.ResponseWriter, r *http.Request) (*models.Project, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, fmt.Errorf("invalid project id: %w", models.ErrValidation))
		return nil, false
	}

	p, err := h.projects.GetProjectByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	if p == nil {
		writeError(w, fmt.Errorf("project %d: %w", id, models.ErrNotFound))
		return nil, false
	}

	return p, true
}
