package api

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/remaimber-it/quizdeck/internal/domain/question"
)

const (
	defaultPageSize = 20
	maxPageSize     = 200
)

// ── Request / Response types ────────────────────────────────────────────────

type SubjectResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type QuestionSummary struct {
	ID        int64         `json:"id"`
	SubjectID int64         `json:"subject_id"`
	Type      string        `json:"type"`
	Kind      question.Kind `json:"kind"`
	Body      string        `json:"body"`
	Answer    string        `json:"answer"`
	Collected bool          `json:"collected"`
}

type QuestionPageResponse struct {
	Page      int               `json:"page"`
	PageSize  int               `json:"page_size"`
	Total     int               `json:"total"`
	Questions []QuestionSummary `json:"questions"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// listSubjects lists all subjects.
// @Summary      List subjects
// @Description  Returns every subject in ascending id order.
// @Tags         Subjects
// @Produce      json
// @Success      200  {array}   SubjectResponse
// @Failure      502  {object}  ErrorResponse
// @Router       /subjects [get]
func (h *Handler) listSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.catalog.ListSubjects(r.Context())
	if h.handleError(w, err) {
		return
	}

	response := make([]SubjectResponse, len(subjects))
	for i, s := range subjects {
		response[i] = SubjectResponse{ID: s.ID, Name: s.Name}
	}
	respondJSON(w, http.StatusOK, response)
}

// listQuestions pages through the whole question table.
// @Summary      Browse questions
// @Description  Returns one zero-based page of objective questions and the total count.
// @Tags         Subjects
// @Produce      json
// @Param        page       query     int  false  "Page, zero-based"
// @Param        page_size  query     int  false  "Page size (default 20, max 200)"
// @Success      200        {object}  QuestionPageResponse
// @Failure      400        {object}  ErrorResponse
// @Failure      502        {object}  ErrorResponse
// @Router       /questions [get]
func (h *Handler) listQuestions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, pageSize, err := parsePaging(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	total, err := h.catalog.CountQuestions(ctx)
	if h.handleError(w, err) {
		return
	}
	questions, err := h.catalog.ListQuestions(ctx, page, pageSize)
	if h.handleError(w, err) {
		return
	}

	response := QuestionPageResponse{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		Questions: make([]QuestionSummary, len(questions)),
	}
	for i, q := range questions {
		response.Questions[i] = QuestionSummary{
			ID:        q.ID,
			SubjectID: q.SubjectID,
			Type:      q.Type,
			Kind:      q.Kind,
			Body:      q.Body,
			Answer:    q.CorrectAnswer(),
			Collected: q.IsCollected(),
		}
	}
	respondJSON(w, http.StatusOK, response)
}

func parsePaging(r *http.Request) (page, pageSize int, err error) {
	pageSize = defaultPageSize

	if v := r.URL.Query().Get("page"); v != "" {
		page, err = strconv.Atoi(v)
		if err != nil || page < 0 {
			return 0, 0, errors.New("page must be a non-negative integer")
		}
	}
	if v := r.URL.Query().Get("page_size"); v != "" {
		pageSize, err = strconv.Atoi(v)
		if err != nil || pageSize < 1 {
			return 0, 0, errors.New("page_size must be a positive integer")
		}
		if pageSize > maxPageSize {
			pageSize = maxPageSize
		}
	}
	// page*pageSize becomes the SQL offset.
	if page > math.MaxInt/pageSize {
		return 0, 0, errors.New("page is out of range")
	}
	return page, pageSize, nil
}
