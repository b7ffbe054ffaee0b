package practicesession

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/remaimber-it/quizdeck/internal/domain/question"
	"github.com/remaimber-it/quizdeck/internal/grader"
	"github.com/remaimber-it/quizdeck/internal/id"
	"github.com/remaimber-it/quizdeck/internal/parser"
)

var (
	ErrEmptyDeck     = errors.New("deck is empty")
	ErrNotObjective  = errors.New("current entry is not an objective question")
	ErrNotSubjective = errors.New("current entry is not an exam question")
	ErrNoItem        = errors.New("current exam question has no sub-questions")
	ErrUnknownOption = errors.New("unknown option label")
	ErrFreeForm      = errors.New("free-form sub-question takes no option")
	ErrNotFreeForm   = errors.New("answer reveal is for free-form sub-questions only")
)

// Session is one learning run over a deck. It is not safe for concurrent
// use; callers serialise access.
type Session struct {
	ID     string
	Config Config

	store Store
	deck  Deck

	index    int
	subIndex int

	// items caches sub-questions per exam question id for the life of
	// the session.
	items map[int64][]question.ExamItem
	// itemsErr is the last failed load for the current exam question.
	itemsErr error

	objective grader.Selection
	sub       grader.Selection
	revealed  bool
}

// New wraps an already built deck. Call Open before use.
func New(s Store, cfg Config, deck Deck) *Session {
	return &Session{
		ID:     id.GenerateID(),
		Config: cfg,
		store:  s,
		deck:   deck,
		items:  make(map[int64][]question.ExamItem),
	}
}

// Start builds the deck for cfg and opens a session over it.
func Start(ctx context.Context, s Store, cfg Config, rng *rand.Rand) (*Session, error) {
	deck, err := BuildDeck(ctx, s, cfg, rng)
	if err != nil {
		return nil, err
	}
	sess := New(s, cfg, deck)
	if err := sess.Open(ctx); err != nil {
		return nil, err
	}
	return sess, nil
}

// Open moves to the first entry and loads its sub-questions when needed.
func (s *Session) Open(ctx context.Context) error {
	s.index = 0
	s.resetQuestionState()
	return s.EnsureItems(ctx)
}

func (s *Session) Mode() Mode {
	return s.deck.Mode
}

func (s *Session) Len() int {
	return s.deck.Len()
}

func (s *Session) Index() int {
	return s.index
}

func (s *Session) SubIndex() int {
	return s.subIndex
}

// IsEmpty reports whether every entry has been deleted.
func (s *Session) IsEmpty() bool {
	return s.deck.Len() == 0
}

// ============================================================================
// Navigation
// ============================================================================

// Next moves to the following entry. It is a no-op on the last one.
func (s *Session) Next(ctx context.Context) {
	if s.index >= s.deck.Len()-1 {
		return
	}
	s.moveTo(ctx, s.index+1)
}

// Prev moves to the preceding entry. It is a no-op on the first one.
func (s *Session) Prev(ctx context.Context) {
	if s.index <= 0 {
		return
	}
	s.moveTo(ctx, s.index-1)
}

// moveTo commits the move before loading. A failed load stays in ItemsErr
// until EnsureItems succeeds.
func (s *Session) moveTo(ctx context.Context, index int) {
	s.index = index
	s.resetQuestionState()
	_ = s.EnsureItems(ctx)
}

func (s *Session) NextSub() {
	if s.subIndex >= len(s.currentItems())-1 {
		return
	}
	s.subIndex++
	s.resetSubState()
}

func (s *Session) PrevSub() {
	if s.subIndex <= 0 {
		return
	}
	s.subIndex--
	s.resetSubState()
}

// EnsureItems loads the current exam question's sub-questions unless they
// are cached. A failed load caches nothing and is kept in ItemsErr, so the
// next call retries.
func (s *Session) EnsureItems(ctx context.Context) error {
	s.itemsErr = s.loadItems(ctx)
	return s.itemsErr
}

// ItemsErr reports why the current exam question's sub-questions are not
// loaded, or nil.
func (s *Session) ItemsErr() error {
	return s.itemsErr
}

func (s *Session) loadItems(ctx context.Context) error {
	if s.deck.Mode != ModeSubjective || s.deck.Len() == 0 {
		return nil
	}
	exam := s.deck.Exams[s.index]
	if _, ok := s.items[exam.ID]; ok {
		return nil
	}

	items, err := s.store.ListExamItemsByParent(ctx, exam.ID)
	if err != nil {
		return fmt.Errorf("load items of exam question %d: %w", exam.ID, err)
	}
	if len(items) == 0 {
		items = legacyItems(exam)
	}
	for i := range items {
		if items[i].Kind == "" {
			items[i].Classify()
		}
	}
	s.items[exam.ID] = items
	return nil
}

// legacyItems recovers sub-questions embedded in the material of rows that
// predate the exam_items table.
func legacyItems(exam question.ExamQuestion) []question.ExamItem {
	subs := exam.LegacySubQuestions()
	items := make([]question.ExamItem, 0, len(subs))
	for _, sub := range subs {
		it := question.ExamItem{
			ParentID: exam.ID,
			Type:     sub.Type,
			Body:     sub.Material,
			Items:    sub.Options,
			Answer:   sub.Answer,
			Explain:  sub.Explain,
		}
		it.Classify()
		items = append(items, it)
	}
	return items
}

// ItemsLoaded reports whether the current exam question's sub-questions
// are cached.
func (s *Session) ItemsLoaded() bool {
	if s.deck.Mode != ModeSubjective || s.deck.Len() == 0 {
		return false
	}
	_, ok := s.items[s.deck.Exams[s.index].ID]
	return ok
}

func (s *Session) currentItems() []question.ExamItem {
	if s.deck.Mode != ModeSubjective || s.deck.Len() == 0 {
		return nil
	}
	return s.items[s.deck.Exams[s.index].ID]
}

// ============================================================================
// Deletion and collection
// ============================================================================

// DeleteCurrent removes the current entry. Objective questions are deleted
// from the store first and only dropped locally once that succeeds; exam
// questions are dropped from the session only. empty reports that nothing
// is left to study. Once the entry is gone, a failed load of the next one
// is reported through ItemsErr, not err.
func (s *Session) DeleteCurrent(ctx context.Context) (empty bool, err error) {
	if s.deck.Len() == 0 {
		return true, nil
	}

	if s.deck.Mode == ModeSubjective {
		s.deck.Exams = removeAt(s.deck.Exams, s.index)
	} else {
		q := s.deck.Questions[s.index]
		if err := s.store.DeleteQuestion(ctx, q.ID); err != nil {
			return false, fmt.Errorf("delete question %d: %w", q.ID, err)
		}
		s.deck.Questions = removeAt(s.deck.Questions, s.index)
	}

	s.resetQuestionState()
	if s.deck.Len() == 0 {
		s.index = 0
		return true, nil
	}
	if s.index >= s.deck.Len() {
		s.index = s.deck.Len() - 1
	}
	_ = s.EnsureItems(ctx)
	return false, nil
}

// DeleteCurrentSub drops the current sub-question from the session. Removing
// the last one removes the exam question itself.
func (s *Session) DeleteCurrentSub(ctx context.Context) (empty bool, err error) {
	if s.deck.Len() == 0 {
		return true, nil
	}
	if s.deck.Mode != ModeSubjective {
		return false, ErrNotSubjective
	}
	if err := s.EnsureItems(ctx); err != nil {
		return false, err
	}

	parentID := s.deck.Exams[s.index].ID
	items := s.items[parentID]
	if len(items) > 0 {
		items = removeAt(items, s.subIndex)
		s.items[parentID] = items
	}
	if len(items) == 0 {
		return s.DeleteCurrent(ctx)
	}

	if s.subIndex >= len(items) {
		s.subIndex = len(items) - 1
	}
	s.resetSubState()
	return false, nil
}

// ToggleCollect flips the collected flag of the current objective question
// in the store, then in every deck copy of it.
func (s *Session) ToggleCollect(ctx context.Context) (collected bool, err error) {
	q, err := s.currentQuestion()
	if err != nil {
		return false, err
	}

	collected = !q.IsCollected()
	if err := s.store.SetCollected(ctx, q.ID, collected); err != nil {
		return q.IsCollected(), fmt.Errorf("update question %d: %w", q.ID, err)
	}
	for i := range s.deck.Questions {
		if s.deck.Questions[i].ID == q.ID {
			s.deck.Questions[i].SetCollected(collected)
		}
	}
	return collected, nil
}

// ============================================================================
// Answering
// ============================================================================

// Select picks an option of the current objective question.
func (s *Session) Select(label string) (grader.Feedback, error) {
	q, err := s.currentQuestion()
	if err != nil {
		return grader.FeedbackNone, err
	}
	if !parser.HasLabel(q.Options(), label) {
		return grader.FeedbackNone, fmt.Errorf("%w: %q", ErrUnknownOption, label)
	}
	return s.objective.Pick(label, q.Answer, q.Kind.IsSingle()), nil
}

// Strike crosses out an option of the current objective question.
func (s *Session) Strike(label string) error {
	q, err := s.currentQuestion()
	if err != nil {
		return err
	}
	if !parser.HasLabel(q.Options(), label) {
		return fmt.Errorf("%w: %q", ErrUnknownOption, label)
	}
	s.objective.Strike(label)
	return nil
}

// SelectSub picks an option of the current sub-question.
func (s *Session) SelectSub(label string) (grader.Feedback, error) {
	it, err := s.currentChoiceItem(label)
	if err != nil {
		return grader.FeedbackNone, err
	}
	return s.sub.Pick(label, it.Answer, it.Kind.IsSingle()), nil
}

func (s *Session) StrikeSub(label string) error {
	if _, err := s.currentChoiceItem(label); err != nil {
		return err
	}
	s.sub.Strike(label)
	return nil
}

// RevealAnswer toggles the answer of the current free-form sub-question.
func (s *Session) RevealAnswer() (bool, error) {
	it, err := s.currentItem()
	if err != nil {
		return false, err
	}
	if it.Kind != question.KindFreeForm {
		return false, ErrNotFreeForm
	}
	s.revealed = !s.revealed
	return s.revealed, nil
}

func (s *Session) currentQuestion() (*question.Question, error) {
	if s.deck.Len() == 0 {
		return nil, ErrEmptyDeck
	}
	if s.deck.Mode != ModeObjective {
		return nil, ErrNotObjective
	}
	return &s.deck.Questions[s.index], nil
}

func (s *Session) currentItem() (*question.ExamItem, error) {
	if s.deck.Len() == 0 {
		return nil, ErrEmptyDeck
	}
	if s.deck.Mode != ModeSubjective {
		return nil, ErrNotSubjective
	}
	items := s.currentItems()
	if len(items) == 0 {
		return nil, ErrNoItem
	}
	return &items[s.subIndex], nil
}

func (s *Session) currentChoiceItem(label string) (*question.ExamItem, error) {
	it, err := s.currentItem()
	if err != nil {
		return nil, err
	}
	if it.Kind == question.KindFreeForm {
		return nil, ErrFreeForm
	}
	if !parser.HasLabel(it.Options(), label) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOption, label)
	}
	return it, nil
}

func (s *Session) resetQuestionState() {
	s.subIndex = 0
	s.itemsErr = nil
	s.objective.Reset()
	s.resetSubState()
}

func (s *Session) resetSubState() {
	s.sub.Reset()
	s.revealed = false
}

// removeAt returns a new slice without element i.
func removeAt[T any](entries []T, i int) []T {
	out := make([]T, 0, len(entries)-1)
	out = append(out, entries[:i]...)
	return append(out, entries[i+1:]...)
}
