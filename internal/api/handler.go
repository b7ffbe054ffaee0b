// internal/api/handler.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	practicesession "github.com/remaimber-it/quizdeck/internal/domain/practice_session"
	"github.com/remaimber-it/quizdeck/internal/domain/question"
	"github.com/remaimber-it/quizdeck/internal/domain/subject"
	"github.com/remaimber-it/quizdeck/internal/service"
	"github.com/remaimber-it/quizdeck/internal/store"
)

// Catalog is the read-only browsing side of the store.
type Catalog interface {
	ListSubjects(ctx context.Context) ([]subject.Subject, error)
	ListQuestions(ctx context.Context, page, pageSize int) ([]question.Question, error)
	CountQuestions(ctx context.Context) (int, error)
}

// Handler holds all dependencies needed by HTTP handlers.
// Instead of relying on package-level globals, every handler method
// receives its dependencies through this struct.
type Handler struct {
	catalog  Catalog
	learning *service.LearningService
	logger   *slog.Logger
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(c Catalog, ls *service.LearningService, logger *slog.Logger) *Handler {
	return &Handler{
		catalog:  c,
		learning: ls,
		logger:   logger,
	}
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Retry bool   `json:"retry,omitempty"` // the same request may succeed later
}

// validator is implemented by request bodies that check themselves.
type validator interface {
	Validate() error
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, ErrorResponse{Error: msg})
}

// decodeAndValidate decodes the body into v and runs its Validate method.
// Returns false if a response was already written.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v validator) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if err := v.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// handleError maps service, session and store errors onto HTTP responses.
// Returns true if an error was handled (caller should return).
func (h *Handler) handleError(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}

	var opErr *store.OpError
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrUnavailable):
		h.logger.Error("store unavailable", "error", err)
		respondJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: err.Error(), Retry: true})
	case errors.As(err, &opErr):
		h.logger.Error("store error", "op", opErr.Op, "error", opErr.Err)
		respondJSON(w, http.StatusBadGateway, ErrorResponse{Error: err.Error(), Retry: true})
	case errors.Is(err, practicesession.ErrInvalidConfig),
		errors.Is(err, practicesession.ErrUnknownOption),
		errors.Is(err, practicesession.ErrNotObjective),
		errors.Is(err, practicesession.ErrNotSubjective),
		errors.Is(err, practicesession.ErrFreeForm),
		errors.Is(err, practicesession.ErrNotFreeForm),
		errors.Is(err, practicesession.ErrNoItem),
		errors.Is(err, practicesession.ErrEmptyDeck):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("unhandled error", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
	return true
}
