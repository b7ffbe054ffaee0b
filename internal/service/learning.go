// internal/service/learning.go
package service

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"

	practicesession "github.com/remaimber-it/quizdeck/internal/domain/practice_session"
	"github.com/remaimber-it/quizdeck/internal/grader"
)

var ErrSessionNotFound = errors.New("session not found")

// Defaults are applied to multi-subject configs that leave sampling unset.
type Defaults struct {
	SampleSize  int
	RepeatCount int
}

// View is what every session action returns.
type View struct {
	practicesession.Snapshot
	Feedback     grader.Feedback
	ReturnToList bool // the deck emptied and the session was closed
}

type liveSession struct {
	mu   sync.Mutex // one transition at a time
	sess *practicesession.Session
}

// LearningService owns the live sessions. Sessions are in memory only and
// die with the process.
type LearningService struct {
	store    practicesession.Store
	logger   *slog.Logger
	defaults Defaults
	newRand  func() *rand.Rand

	mu       sync.RWMutex
	sessions map[string]*liveSession // sessionID → session
}

// NewLearningService creates a LearningService. Decks are shuffled with a
// fresh time-seeded generator per session.
func NewLearningService(s practicesession.Store, defaults Defaults, logger *slog.Logger) *LearningService {
	return &LearningService{
		store:    s,
		logger:   logger,
		defaults: defaults,
		newRand:  practicesession.NewRand,
		sessions: make(map[string]*liveSession),
	}
}

// WithRand replaces the random source factory, for reproducible decks.
func (ls *LearningService) WithRand(newRand func() *rand.Rand) *LearningService {
	ls.newRand = newRand
	return ls
}

// DefaultConfig returns an objective config carrying the configured
// sampling defaults.
func (ls *LearningService) DefaultConfig() practicesession.Config {
	cfg := practicesession.DefaultConfig()
	cfg.SampleSize = ls.defaults.SampleSize
	cfg.RepeatCount = ls.defaults.RepeatCount
	return cfg
}

// Start builds a deck for cfg and registers a session over it. Nothing is
// registered when building fails, so the caller can retry with the same
// config.
func (ls *LearningService) Start(ctx context.Context, cfg practicesession.Config) (View, error) {
	sess, err := practicesession.Start(ctx, ls.store, cfg, ls.newRand())
	if err != nil {
		ls.logger.Error("failed to start session",
			"mode", cfg.Mode,
			"subject_id", cfg.SubjectID,
			"subject_ids", cfg.SubjectIDs,
			"error", err,
		)
		return View{}, err
	}

	ls.mu.Lock()
	ls.sessions[sess.ID] = &liveSession{sess: sess}
	ls.mu.Unlock()

	ls.logger.Info("session started",
		"session_id", sess.ID,
		"mode", cfg.Mode,
		"deck_size", sess.Len(),
	)

	view := View{Snapshot: sess.Snapshot()}
	if sess.IsEmpty() {
		ls.Close(sess.ID)
		view.ReturnToList = true
	}
	return view, nil
}

// View returns the current state, retrying a failed sub-question load. A
// load that fails again is reported in the view, not as an error.
func (ls *LearningService) View(ctx context.Context, sessionID string) (View, error) {
	return ls.apply(sessionID, "view", func(s *practicesession.Session) (grader.Feedback, bool, error) {
		_ = s.EnsureItems(ctx)
		return grader.FeedbackNone, false, nil
	})
}

// Close discards a session. Closing an unknown session is a no-op.
func (ls *LearningService) Close(sessionID string) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if _, ok := ls.sessions[sessionID]; ok {
		delete(ls.sessions, sessionID)
		ls.logger.Info("session closed", "session_id", sessionID)
	}
}

// ActiveSessions reports how many sessions are registered.
func (ls *LearningService) ActiveSessions() int {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	return len(ls.sessions)
}

// ── Navigation ──────────────────────────────────────────────────────────────

func (ls *LearningService) Next(ctx context.Context, sessionID string) (View, error) {
	return ls.apply(sessionID, "next", func(s *practicesession.Session) (grader.Feedback, bool, error) {
		s.Next(ctx)
		return grader.FeedbackNone, false, nil
	})
}

func (ls *LearningService) Prev(ctx context.Context, sessionID string) (View, error) {
	return ls.apply(sessionID, "prev", func(s *practicesession.Session) (grader.Feedback, bool, error) {
		s.Prev(ctx)
		return grader.FeedbackNone, false, nil
	})
}

func (ls *LearningService) NextSub(sessionID string) (View, error) {
	return ls.apply(sessionID, "next sub", func(s *practicesession.Session) (grader.Feedback, bool, error) {
		s.NextSub()
		return grader.FeedbackNone, false, nil
	})
}

func (ls *LearningService) PrevSub(sessionID string) (View, error) {
	return ls.apply(sessionID, "prev sub", func(s *practicesession.Session) (grader.Feedback, bool, error) {
		s.PrevSub()
		return grader.FeedbackNone, false, nil
	})
}

// ── Answering ───────────────────────────────────────────────────────────────

func (ls *LearningService) Select(sessionID, label string) (View, error) {
	return ls.apply(sessionID, "select", func(s *practicesession.Session) (grader.Feedback, bool, error) {
		fb, err := s.Select(label)
		return fb, false, err
	})
}

func (ls *LearningService) Strike(sessionID, label string) (View, error) {
	return ls.apply(sessionID, "strike", func(s *practicesession.Session) (grader.Feedback, bool, error) {
		return grader.FeedbackNone, false, s.Strike(label)
	})
}

func (ls *LearningService) SelectSub(sessionID, label string) (View, error) {
	return ls.apply(sessionID, "select sub", func(s *practicesession.Session) (grader.Feedback, bool, error) {
		fb, err := s.SelectSub(label)
		return fb, false, err
	})
}

func (ls *LearningService) StrikeSub(sessionID, label string) (View, error) {
	return ls.apply(sessionID, "strike sub", func(s *practicesession.Session) (grader.Feedback, bool, error) {
		return grader.FeedbackNone, false, s.StrikeSub(label)
	})
}

func (ls *LearningService) Reveal(sessionID string) (View, error) {
	return ls.apply(sessionID, "reveal", func(s *practicesession.Session) (grader.Feedback, bool, error) {
		_, err := s.RevealAnswer()
		return grader.FeedbackNone, false, err
	})
}

// ── Deletion and collection ─────────────────────────────────────────────────

func (ls *LearningService) ToggleCollect(ctx context.Context, sessionID string) (View, error) {
	return ls.apply(sessionID, "collect", func(s *practicesession.Session) (grader.Feedback, bool, error) {
		_, err := s.ToggleCollect(ctx)
		return grader.FeedbackNone, false, err
	})
}

func (ls *LearningService) DeleteCurrent(ctx context.Context, sessionID string) (View, error) {
	return ls.apply(sessionID, "delete", func(s *practicesession.Session) (grader.Feedback, bool, error) {
		empty, err := s.DeleteCurrent(ctx)
		return grader.FeedbackNone, empty, err
	})
}

func (ls *LearningService) DeleteCurrentSub(ctx context.Context, sessionID string) (View, error) {
	return ls.apply(sessionID, "delete sub", func(s *practicesession.Session) (grader.Feedback, bool, error) {
		empty, err := s.DeleteCurrentSub(ctx)
		return grader.FeedbackNone, empty, err
	})
}

// apply runs one transition under the session's lock. A session whose deck
// empties is closed and reported with ReturnToList.
func (ls *LearningService) apply(
	sessionID, op string,
	fn func(*practicesession.Session) (grader.Feedback, bool, error),
) (View, error) {
	ls.mu.RLock()
	live, ok := ls.sessions[sessionID]
	ls.mu.RUnlock()
	if !ok {
		return View{}, ErrSessionNotFound
	}

	live.mu.Lock()
	fb, empty, err := fn(live.sess)
	loadErr := live.sess.ItemsErr()
	view := View{Snapshot: live.sess.Snapshot(), Feedback: fb}
	live.mu.Unlock()

	if loadErr != nil {
		ls.logger.Warn("sub-question load failed",
			"session_id", sessionID,
			"action", op,
			"error", loadErr,
		)
	}

	if err != nil {
		ls.logger.Warn("session action failed",
			"session_id", sessionID,
			"action", op,
			"error", err,
		)
		return view, err
	}

	if mutatesStore[op] {
		ls.logger.Info("session action",
			"session_id", sessionID,
			"action", op,
			"index", view.Index,
			"total", view.Total,
		)
	}
	if empty {
		ls.Close(sessionID)
		view.ReturnToList = true
	}
	return view, nil
}

// mutatesStore marks the actions worth an audit line.
var mutatesStore = map[string]bool{
	"delete":     true,
	"delete sub": true,
	"collect":    true,
}
