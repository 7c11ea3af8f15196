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

type QuestionsHandler struct {
	questions repository.QuestionRepo
	validator *validate.Validator
}

func NewQuestionsHandler(questions repository.QuestionRepo, validator *validate.Validator) *QuestionsHandler {
	return &QuestionsHandler{questions: questions, validator: validator}
}

func (h *QuestionsHandler) List(w http.ResponseWriter, r *http.Request) {
	questions, err := h.questions.GetAllQuestions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if questions == nil {
		questions = []models.Question{}
	}

	writeJSON(w, map[string]any{"total": len(questions), "items": questions}, http.StatusOK)
}

type questionRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags,omitempty"`
}

func (h *QuestionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	acting := UserFrom(r.Context())
	if acting == nil {
		writeError(w, models.ErrUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, fmt.Errorf("read body: %w", models.ErrValidation))
		return
	}
	if err := h.validator.Validate(r.Context(), "question", body); err != nil {
		writeError(w, err)
		return
	}

	var req questionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, fmt.Errorf("invalid request: %w", models.ErrValidation))
		return
	}

	q := models.Question{
		AuthorID: acting.ID,
		Title:    req.Title,
		Content:  req.Content,
		Tags:     req.Tags,
	}
	if _, err := h.questions.CreateQuestion(r.Context(), &q); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, q, http.StatusCreated)
}

func (h *QuestionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	q, ok := h.fetch(w, r)
	if !ok {
		return
	}

	writeJSON(w, q, http.StatusOK)
}

type answerRequest struct {
	Content string `json:"content"`
}

func (h *QuestionsHandler) CreateAnswer(w http.ResponseWriter, r *http.Request) {
	acting := UserFrom(r.Context())
	if acting == nil {
		writeError(w, models.ErrUnauthorized)
		return
	}

	q, ok := h.fetch(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, fmt.Errorf("read body: %w", models.ErrValidation))
		return
	}
	if err := h.validator.Validate(r.Context(), "answer", body); err != nil {
		writeError(w, err)
		return
	}

	var req answerRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, fmt.Errorf("invalid request: %w", models.ErrValidation))
		return
	}

	var maxID int64
	for _, a := range q.Answers {
		if a.ID > maxID {
			maxID = a.ID
		}
	}

	now := nowMillis()
	answer := models.Answer{
		ID:         maxID + 1,
		QuestionID: q.ID,
		AuthorID:   acting.ID,
		Content:    req.Content,
		Votes:      []models.Vote{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	q.Answers = append(q.Answers, answer)

	if err := h.questions.UpdateQuestion(r.Context(), q); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, answer, http.StatusCreated)
}

type voteRequest struct {
	Type models.VoteType `json:"type"`
}

// Vote records the acting user's vote on an answer. A revote replaces the
// prior vote, so each user holds at most one vote per answer. Authors cannot
// vote on their own answers.
func (h *QuestionsHandler) Vote(w http.ResponseWriter, r *http.Request) {
	acting := UserFrom(r.Context())
	if acting == nil {
		writeError(w, models.ErrUnauthorized)
		return
	}

	q, ok := h.fetch(w, r)
	if !ok {
		return
	}

	answerID, err := strconv.ParseInt(mux.Vars(r)["answerID"], 10, 64)
	if err != nil || answerID <= 0 {
		writeError(w, fmt.Errorf("invalid answer id: %w", models.ErrValidation))
		return
	}

	idx := -1
	for i := range q.Answers {
		if q.Answers[i].ID == answerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		writeError(w, fmt.Errorf("answer %d: %w", answerID, models.ErrNotFound))
		return
	}
	if q.Answers[idx].AuthorID == acting.ID {
		writeError(w, fmt.Errorf("cannot vote on your own answer: %w", models.ErrForbidden))
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, fmt.Errorf("read body: %w", models.ErrValidation))
		return
	}
	if err := h.validator.Validate(r.Context(), "vote", body); err != nil {
		writeError(w, err)
		return
	}

	var req voteRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, fmt.Errorf("invalid request: %w", models.ErrValidation))
		return
	}

	answer := &q.Answers[idx]
	replaced := false
	for i := range answer.Votes {
		if answer.Votes[i].UserID == acting.ID {
			answer.Votes[i].Type = req.Type
			replaced = true
			break
		}
	}
	if !replaced {
		answer.Votes = append(answer.Votes, models.Vote{UserID: acting.ID, Type: req.Type})
	}
	answer.UpdatedAt = nowMillis()

	if err := h.questions.UpdateQuestion(r.Context(), q); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, answer, http.StatusOK)
}

func (h *QuestionsHandler) fetch(w http.ResponseWriter, r *http.Request) (*models.Question, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, fmt.Errorf("invalid question id: %w", models.ErrValidation))
		return nil, false
	}

	q, err := h.questions.GetQuestionByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	if q == nil {
		writeError(w, fmt.Errorf("question %d: %w", id, models.ErrNotFound))
		return nil, false
	}

	return q, true
}
