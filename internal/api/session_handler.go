package api

import (
	"errors"
	"net/http"

	practicesession "github.com/remaimber-it/quizdeck/internal/domain/practice_session"
	"github.com/remaimber-it/quizdeck/internal/domain/question"
	"github.com/remaimber-it/quizdeck/internal/grader"
	"github.com/remaimber-it/quizdeck/internal/service"
)

// ── Request / Response types ────────────────────────────────────────────────

type CreateSessionRequest struct {
	SubjectID   int64                `json:"subject_id,omitempty"`
	SubjectIDs  []int64              `json:"subject_ids,omitempty"`
	Mode        practicesession.Mode `json:"mode"`
	SampleSize  *int                 `json:"sample_size,omitempty"`
	RepeatCount *int                 `json:"repeat_count,omitempty"`
	Collection  bool                 `json:"collection"`
}

func (r *CreateSessionRequest) Validate() error {
	if r.SubjectID == 0 && len(r.SubjectIDs) == 0 {
		return errors.New("subject_id or subject_ids is required")
	}
	return nil
}

type OptionRequest struct {
	Label string `json:"label"`
}

func (r *OptionRequest) Validate() error {
	if len(r.Label) != 1 || r.Label[0] < 'A' || r.Label[0] > 'Z' {
		return errors.New("label must be a single uppercase letter")
	}
	return nil
}

type OptionResponse struct {
	Label        string `json:"label"`
	Content      string `json:"content"`
	Selected     bool   `json:"selected"`
	Struck       bool   `json:"struck"`
	CorrectShown bool   `json:"correct_shown"`
}

type QuestionResponse struct {
	ID        int64            `json:"id"`
	Type      string           `json:"type"`
	Kind      question.Kind    `json:"kind"`
	Body      string           `json:"body"`
	Options   []OptionResponse `json:"options"`
	Answer    string           `json:"answer"`
	Explain   string           `json:"explain"`
	Collected bool             `json:"collected"`
	Submitted bool             `json:"submitted"`
}

type ItemResponse struct {
	Type      string           `json:"type"`
	Kind      question.Kind    `json:"kind"`
	Body      string           `json:"body"`
	Options   []OptionResponse `json:"options"`
	Answer    string           `json:"answer,omitempty"`
	Explain   string           `json:"explain,omitempty"`
	Submitted bool             `json:"submitted"`
	Revealed  bool             `json:"revealed"`
}

type ExamResponse struct {
	ID          int64         `json:"id"`
	Material    string        `json:"material"`
	ItemsLoaded bool          `json:"items_loaded"`
	LoadError   string        `json:"load_error,omitempty"`
	SubIndex    int           `json:"sub_index"`
	SubTotal    int           `json:"sub_total"`
	Item        *ItemResponse `json:"item,omitempty"`
}

type SessionResponse struct {
	ID           string               `json:"id"`
	Mode         practicesession.Mode `json:"mode"`
	Index        int                  `json:"index"`
	Total        int                  `json:"total"`
	Feedback     grader.Feedback      `json:"feedback,omitempty"`
	ReturnToList bool                 `json:"return_to_list"`
	Question     *QuestionResponse    `json:"question,omitempty"`
	Exam         *ExamResponse        `json:"exam,omitempty"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// createSession starts a learning session.
// @Summary      Start a session
// @Description  Builds a deck for one subject (store order) or several subjects (sampled, repeated, shuffled).
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        body  body      CreateSessionRequest  true  "Session config"
// @Success      201   {object}  SessionResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      502   {object}  ErrorResponse  "store failure, retry with the same body"
// @Router       /sessions [post]
func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	cfg := h.learning.DefaultConfig()
	cfg.SubjectID = req.SubjectID
	cfg.SubjectIDs = req.SubjectIDs
	cfg.Collection = req.Collection
	if req.Mode != "" {
		cfg.Mode = req.Mode
	}
	if req.SampleSize != nil {
		cfg.SampleSize = *req.SampleSize
	}
	if req.RepeatCount != nil {
		cfg.RepeatCount = *req.RepeatCount
	}

	view, err := h.learning.Start(r.Context(), cfg)
	if h.handleError(w, err) {
		return
	}
	respondJSON(w, http.StatusCreated, toSessionResponse(view))
}

// getSession returns the current view.
// @Summary      Get a session
// @Description  Retries a failed sub-question load. A repeated failure is reported in exam.load_error.
// @Tags         Sessions
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200        {object}  SessionResponse
// @Failure      404        {object}  ErrorResponse
// @Router       /sessions/{sessionID} [get]
func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.learning.View(r.Context(), r.PathValue("sessionID"))
	h.respondView(w, view, err)
}

// closeSession discards a session.
// @Summary      Close a session
// @Tags         Sessions
// @Param        sessionID  path  string  true  "Session ID"
// @Success      204
// @Router       /sessions/{sessionID} [delete]
func (h *Handler) closeSession(w http.ResponseWriter, r *http.Request) {
	h.learning.Close(r.PathValue("sessionID"))
	w.WriteHeader(http.StatusNoContent)
}

// nextQuestion moves to the next entry.
// @Summary      Next entry
// @Description  The move always happens. A failed sub-question load is reported in exam.load_error.
// @Tags         Sessions
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200        {object}  SessionResponse
// @Failure      404        {object}  ErrorResponse
// @Router       /sessions/{sessionID}/next [post]
func (h *Handler) nextQuestion(w http.ResponseWriter, r *http.Request) {
	view, err := h.learning.Next(r.Context(), r.PathValue("sessionID"))
	h.respondView(w, view, err)
}

// prevQuestion moves to the previous entry.
// @Summary      Previous entry
// @Description  The move always happens. A failed sub-question load is reported in exam.load_error.
// @Tags         Sessions
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200        {object}  SessionResponse
// @Failure      404        {object}  ErrorResponse
// @Router       /sessions/{sessionID}/prev [post]
func (h *Handler) prevQuestion(w http.ResponseWriter, r *http.Request) {
	view, err := h.learning.Prev(r.Context(), r.PathValue("sessionID"))
	h.respondView(w, view, err)
}

// @Summary      Next sub-question
// @Tags         Sessions
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200        {object}  SessionResponse
// @Failure      404        {object}  ErrorResponse
// @Router       /sessions/{sessionID}/sub/next [post]
func (h *Handler) nextSub(w http.ResponseWriter, r *http.Request) {
	view, err := h.learning.NextSub(r.PathValue("sessionID"))
	h.respondView(w, view, err)
}

// @Summary      Previous sub-question
// @Tags         Sessions
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200        {object}  SessionResponse
// @Failure      404        {object}  ErrorResponse
// @Router       /sessions/{sessionID}/sub/prev [post]
func (h *Handler) prevSub(w http.ResponseWriter, r *http.Request) {
	view, err := h.learning.PrevSub(r.PathValue("sessionID"))
	h.respondView(w, view, err)
}

// selectOption picks an option of the current objective question.
// @Summary      Select an option
// @Description  Single-select replaces the pick (picking it again clears it); multi-select toggles. The response carries success/error feedback.
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        sessionID  path      string         true  "Session ID"
// @Param        body       body      OptionRequest  true  "Option label"
// @Success      200        {object}  SessionResponse
// @Failure      400        {object}  ErrorResponse
// @Failure      404        {object}  ErrorResponse
// @Router       /sessions/{sessionID}/select [post]
func (h *Handler) selectOption(w http.ResponseWriter, r *http.Request) {
	var req OptionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	view, err := h.learning.Select(r.PathValue("sessionID"), req.Label)
	h.respondView(w, view, err)
}

// strikeOption crosses out an option.
// @Summary      Strike an option
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        sessionID  path      string         true  "Session ID"
// @Param        body       body      OptionRequest  true  "Option label"
// @Success      200        {object}  SessionResponse
// @Failure      400        {object}  ErrorResponse
// @Failure      404        {object}  ErrorResponse
// @Router       /sessions/{sessionID}/strike [post]
func (h *Handler) strikeOption(w http.ResponseWriter, r *http.Request) {
	var req OptionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	view, err := h.learning.Strike(r.PathValue("sessionID"), req.Label)
	h.respondView(w, view, err)
}

// @Summary      Select a sub-question option
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        sessionID  path      string         true  "Session ID"
// @Param        body       body      OptionRequest  true  "Option label"
// @Success      200        {object}  SessionResponse
// @Failure      400        {object}  ErrorResponse
// @Failure      404        {object}  ErrorResponse
// @Router       /sessions/{sessionID}/sub/select [post]
func (h *Handler) selectSubOption(w http.ResponseWriter, r *http.Request) {
	var req OptionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	view, err := h.learning.SelectSub(r.PathValue("sessionID"), req.Label)
	h.respondView(w, view, err)
}

// @Summary      Strike a sub-question option
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        sessionID  path      string         true  "Session ID"
// @Param        body       body      OptionRequest  true  "Option label"
// @Success      200        {object}  SessionResponse
// @Failure      400        {object}  ErrorResponse
// @Failure      404        {object}  ErrorResponse
// @Router       /sessions/{sessionID}/sub/strike [post]
func (h *Handler) strikeSubOption(w http.ResponseWriter, r *http.Request) {
	var req OptionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	view, err := h.learning.StrikeSub(r.PathValue("sessionID"), req.Label)
	h.respondView(w, view, err)
}

// revealAnswer toggles the answer of a free-form sub-question.
// @Summary      Show or hide a free-form answer
// @Tags         Sessions
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200        {object}  SessionResponse
// @Failure      400        {object}  ErrorResponse
// @Failure      404        {object}  ErrorResponse
// @Router       /sessions/{sessionID}/sub/reveal [post]
func (h *Handler) revealAnswer(w http.ResponseWriter, r *http.Request) {
	view, err := h.learning.Reveal(r.PathValue("sessionID"))
	h.respondView(w, view, err)
}

// toggleCollect flips the collected flag of the current question.
// @Summary      Toggle collected
// @Tags         Sessions
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200        {object}  SessionResponse
// @Failure      400        {object}  ErrorResponse  "not an objective question"
// @Failure      404        {object}  ErrorResponse
// @Failure      502        {object}  ErrorResponse
// @Router       /sessions/{sessionID}/collect [post]
func (h *Handler) toggleCollect(w http.ResponseWriter, r *http.Request) {
	view, err := h.learning.ToggleCollect(r.Context(), r.PathValue("sessionID"))
	h.respondView(w, view, err)
}

// deleteCurrent deletes the current entry. Objective questions are deleted
// from the database; exam questions only from the session.
// @Summary      Delete the current entry
// @Tags         Sessions
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200        {object}  SessionResponse
// @Failure      404        {object}  ErrorResponse
// @Failure      502        {object}  ErrorResponse
// @Router       /sessions/{sessionID}/current [delete]
func (h *Handler) deleteCurrent(w http.ResponseWriter, r *http.Request) {
	view, err := h.learning.DeleteCurrent(r.Context(), r.PathValue("sessionID"))
	h.respondView(w, view, err)
}

// @Summary      Delete the current sub-question
// @Description  Session-local. Removing the last sub-question removes its exam question too.
// @Tags         Sessions
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200        {object}  SessionResponse
// @Failure      400        {object}  ErrorResponse
// @Failure      404        {object}  ErrorResponse
// @Router       /sessions/{sessionID}/current/sub [delete]
func (h *Handler) deleteCurrentSub(w http.ResponseWriter, r *http.Request) {
	view, err := h.learning.DeleteCurrentSub(r.Context(), r.PathValue("sessionID"))
	h.respondView(w, view, err)
}

func (h *Handler) respondView(w http.ResponseWriter, view service.View, err error) {
	if h.handleError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, toSessionResponse(view))
}

func toSessionResponse(v service.View) SessionResponse {
	resp := SessionResponse{
		ID:           v.SessionID,
		Mode:         v.Mode,
		Index:        v.Index,
		Total:        v.Total,
		Feedback:     v.Feedback,
		ReturnToList: v.ReturnToList,
	}

	if q := v.Question; q != nil {
		resp.Question = &QuestionResponse{
			ID:        q.ID,
			Type:      q.Type,
			Kind:      q.Kind,
			Body:      q.Body,
			Options:   toOptionResponses(q.Options),
			Answer:    q.Answer,
			Explain:   q.Explain,
			Collected: q.Collected,
			Submitted: q.Submitted,
		}
	}

	if e := v.Exam; e != nil {
		exam := &ExamResponse{
			ID:          e.ID,
			Material:    e.Material,
			ItemsLoaded: e.ItemsLoaded,
			LoadError:   e.LoadError,
			SubIndex:    e.SubIndex,
			SubTotal:    e.SubTotal,
		}
		if it := e.Item; it != nil {
			exam.Item = &ItemResponse{
				Type:      it.Type,
				Kind:      it.Kind,
				Body:      it.Body,
				Options:   toOptionResponses(it.Options),
				Answer:    it.Answer,
				Explain:   it.Explain,
				Submitted: it.Submitted,
				Revealed:  it.Revealed,
			}
		}
		resp.Exam = exam
	}
	return resp
}

func toOptionResponses(options []practicesession.OptionView) []OptionResponse {
	out := make([]OptionResponse, len(options))
	for i, o := range options {
		out[i] = OptionResponse{
			Label:        o.Label,
			Content:      o.Content,
			Selected:     o.Selected,
			Struck:       o.Struck,
			CorrectShown: o.CorrectShown,
		}
	}
	return out
}
