package practicesession_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	practicesession "github.com/remaimber-it/quizdeck/internal/domain/practice_session"
	"github.com/remaimber-it/quizdeck/internal/domain/question"
	"github.com/remaimber-it/quizdeck/internal/grader"
)

// fakeStore is an in-memory practicesession.Store.
type fakeStore struct {
	questions map[int64][]question.Question
	exams     map[int64][]question.ExamQuestion
	items     map[int64][]question.ExamItem

	deleted   []int64
	collected map[int64]bool

	failDelete  error
	failCollect error
	failItems   error
	itemCalls   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		questions: make(map[int64][]question.Question),
		exams:     make(map[int64][]question.ExamQuestion),
		items:     make(map[int64][]question.ExamItem),
		collected: make(map[int64]bool),
	}
}

func (f *fakeStore) ListQuestionsBySubject(_ context.Context, subjectID int64) ([]question.Question, error) {
	return f.questions[subjectID], nil
}

func (f *fakeStore) ListCollectedQuestionsBySubject(_ context.Context, subjectID int64) ([]question.Question, error) {
	var out []question.Question
	for _, q := range f.questions[subjectID] {
		if q.IsCollected() {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeStore) ListExamQuestionsBySubject(_ context.Context, subjectID int64) ([]question.ExamQuestion, error) {
	return f.exams[subjectID], nil
}

func (f *fakeStore) ListExamItemsByParent(_ context.Context, questionID int64) ([]question.ExamItem, error) {
	f.itemCalls++
	if f.failItems != nil {
		return nil, f.failItems
	}
	return f.items[questionID], nil
}

func (f *fakeStore) DeleteQuestion(_ context.Context, id int64) error {
	if f.failDelete != nil {
		return f.failDelete
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStore) SetCollected(_ context.Context, id int64, collected bool) error {
	if f.failCollect != nil {
		return f.failCollect
	}
	f.collected[id] = collected
	return nil
}

func addQuestions(f *fakeStore, subjectID int64, firstID int64, n int) {
	for i := 0; i < n; i++ {
		f.questions[subjectID] = append(f.questions[subjectID], question.Question{
			ID:        firstID + int64(i),
			SubjectID: subjectID,
			Type:      question.TypeSingleChoice,
			Items:     "<p>A.yes</p><p>B.no</p>",
			Answer:    "<p>A</p>",
			Collected: question.CollectedNo,
		})
	}
}

func seeded() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func multiConfig(ids ...int64) practicesession.Config {
	cfg := practicesession.DefaultConfig()
	cfg.SubjectIDs = ids
	cfg.SampleSize = 4
	cfg.RepeatCount = 2
	return cfg
}

// ============================================================================
// Deck building
// ============================================================================

func TestBuildDeck_MultiSubjectSampleAndRepeat(t *testing.T) {
	f := newFakeStore()
	addQuestions(f, 1, 100, 5)
	addQuestions(f, 2, 200, 3)

	deck, err := practicesession.BuildDeck(context.Background(), f, multiConfig(1, 2), seeded())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if deck.Len() != 14 {
		t.Fatalf("expected 14 entries (4x2 + 3x2), got %d", deck.Len())
	}

	counts := make(map[int64]int)
	perSubject := make(map[int64]int)
	for _, q := range deck.Questions {
		counts[q.ID]++
		perSubject[q.SubjectID]++
	}
	for qid, n := range counts {
		if n != 2 {
			t.Errorf("expected question %d twice, got %d", qid, n)
		}
	}
	if perSubject[1] != 8 || perSubject[2] != 6 {
		t.Errorf("expected 8/6 entries per subject, got %d/%d", perSubject[1], perSubject[2])
	}
}

func TestBuildDeck_SeededIsDeterministic(t *testing.T) {
	f := newFakeStore()
	addQuestions(f, 1, 100, 10)
	addQuestions(f, 2, 200, 10)

	a, err := practicesession.BuildDeck(context.Background(), f, multiConfig(1, 2), seeded())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := practicesession.BuildDeck(context.Background(), f, multiConfig(1, 2), seeded())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !sameOrder(a.Questions, b.Questions) {
		t.Error("expected identical decks for the same seed")
	}
}

func TestBuildDeck_SingleSubjectKeepsStoreOrder(t *testing.T) {
	f := newFakeStore()
	addQuestions(f, 1, 100, 6)

	cfg := practicesession.DefaultConfig()
	cfg.SubjectID = 1

	deck, err := practicesession.BuildDeck(context.Background(), f, cfg, seeded())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !sameOrder(f.questions[1], deck.Questions) {
		t.Error("expected store order in single-subject mode")
	}
	if deck.Questions[0].Kind != question.KindSingle {
		t.Errorf("expected kind classified, got %q", deck.Questions[0].Kind)
	}
}

func TestBuildDeck_CollectionMode(t *testing.T) {
	f := newFakeStore()
	addQuestions(f, 1, 100, 4)
	f.questions[1][1].Collected = question.CollectedYes
	f.questions[1][3].Collected = question.CollectedYes

	cfg := practicesession.DefaultConfig()
	cfg.SubjectID = 1
	cfg.Collection = true

	deck, err := practicesession.BuildDeck(context.Background(), f, cfg, seeded())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if deck.Len() != 2 || deck.Questions[0].ID != 101 || deck.Questions[1].ID != 103 {
		t.Errorf("expected collected questions 101 and 103, got %+v", deck.Questions)
	}
}

func TestBuildDeck_SampleLargerThanAvailable(t *testing.T) {
	f := newFakeStore()
	addQuestions(f, 1, 100, 2)

	cfg := multiConfig(1)
	cfg.SampleSize = 20
	cfg.RepeatCount = 1

	deck, err := practicesession.BuildDeck(context.Background(), f, cfg, seeded())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deck.Len() != 2 {
		t.Errorf("expected all 2 questions, got %d", deck.Len())
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*practicesession.Config)
	}{
		{"no subject", func(c *practicesession.Config) {}},
		{"both subject forms", func(c *practicesession.Config) { c.SubjectID = 1; c.SubjectIDs = []int64{2} }},
		{"unknown mode", func(c *practicesession.Config) { c.SubjectID = 1; c.Mode = "essay" }},
		{"subjective collection", func(c *practicesession.Config) {
			c.SubjectID = 1
			c.Mode = practicesession.ModeSubjective
			c.Collection = true
		}},
		{"multi-subject collection", func(c *practicesession.Config) { c.SubjectIDs = []int64{1}; c.Collection = true }},
		{"zero repeat", func(c *practicesession.Config) { c.SubjectIDs = []int64{1}; c.RepeatCount = 0 }},
		{"negative sample", func(c *practicesession.Config) { c.SubjectIDs = []int64{1}; c.SampleSize = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := practicesession.DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, practicesession.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

// ============================================================================
// Navigation
// ============================================================================

func startObjective(t *testing.T, f *fakeStore) *practicesession.Session {
	t.Helper()
	cfg := practicesession.DefaultConfig()
	cfg.SubjectID = 1
	sess, err := practicesession.Start(context.Background(), f, cfg, seeded())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return sess
}

func startSubjective(t *testing.T, f *fakeStore) *practicesession.Session {
	t.Helper()
	cfg := practicesession.DefaultConfig()
	cfg.SubjectID = 1
	cfg.Mode = practicesession.ModeSubjective
	sess, err := practicesession.Start(context.Background(), f, cfg, seeded())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return sess
}

func withExams(f *fakeStore) {
	f.exams[1] = []question.ExamQuestion{
		{ID: 10, SubjectID: 1, Body: "材料一"},
		{ID: 20, SubjectID: 1, Body: "材料二"},
	}
	f.items[10] = []question.ExamItem{
		{ID: 1, ParentID: 10, Type: question.TypeChoice, Items: "<p>A.x</p><p>B.y</p>", Answer: "A", Kind: question.KindSingle},
		{ID: 2, ParentID: 10, Type: question.TypeFreeForm, Answer: "自由作答", Explain: "解析", Kind: question.KindFreeForm},
	}
	f.items[20] = []question.ExamItem{
		{ID: 3, ParentID: 20, Type: question.TypeTrueFalse, Items: "<p>A.对</p><p>B.错</p>", Answer: "B", Kind: question.KindTrueFalse},
	}
}

func TestNavigation_Boundaries(t *testing.T) {
	ctx := context.Background()
	f := newFakeStore()
	addQuestions(f, 1, 100, 3)
	sess := startObjective(t, f)

	sess.Prev(ctx)
	if sess.Index() != 0 {
		t.Errorf("expected prev at start to stay at 0, got %d", sess.Index())
	}

	for i := 0; i < 5; i++ {
		sess.Next(ctx)
	}
	if sess.Index() != 2 {
		t.Errorf("expected next to stop at 2, got %d", sess.Index())
	}
}

func TestNavigation_ResetsSelection(t *testing.T) {
	ctx := context.Background()
	f := newFakeStore()
	addQuestions(f, 1, 100, 2)
	sess := startObjective(t, f)

	if fb, _ := sess.Select("A"); fb != grader.FeedbackSuccess {
		t.Fatalf("expected success, got %q", fb)
	}
	sess.Next(ctx)
	sess.Prev(ctx)

	snap := sess.Snapshot()
	if snap.Question.Submitted || snap.Question.Options[0].Selected {
		t.Errorf("expected selection reset after navigation, got %+v", snap.Question)
	}
}

func TestSelect_UnknownLabel(t *testing.T) {
	f := newFakeStore()
	addQuestions(f, 1, 100, 1)
	sess := startObjective(t, f)

	if _, err := sess.Select("Z"); !errors.Is(err, practicesession.ErrUnknownOption) {
		t.Errorf("expected ErrUnknownOption, got %v", err)
	}
}

func TestSubjective_LazyItemsAndCache(t *testing.T) {
	ctx := context.Background()
	f := newFakeStore()
	withExams(f)
	sess := startSubjective(t, f)

	if f.itemCalls != 1 {
		t.Fatalf("expected eager load of the first entry, got %d calls", f.itemCalls)
	}

	sess.Next(ctx)
	sess.Prev(ctx)
	sess.Next(ctx)

	if f.itemCalls != 2 {
		t.Errorf("expected each parent loaded once, got %d calls", f.itemCalls)
	}
}

func TestSubjective_FailedLoadRetries(t *testing.T) {
	ctx := context.Background()
	f := newFakeStore()
	withExams(f)
	sess := startSubjective(t, f)

	f.failItems = errors.New("disk I/O error")
	sess.Next(ctx)

	if sess.Index() != 1 {
		t.Fatalf("expected the move to stand, got index %d", sess.Index())
	}
	if sess.ItemsLoaded() {
		t.Error("expected nothing cached after a failed load")
	}
	snap := sess.Snapshot()
	if snap.Exam.ID != 20 || snap.Exam.LoadError == "" {
		t.Errorf("expected load error on exam 20, got %+v", snap.Exam)
	}

	if err := sess.EnsureItems(ctx); err == nil {
		t.Fatal("expected load error while the store still fails")
	}

	f.failItems = nil
	if err := sess.EnsureItems(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sess.ItemsLoaded() || sess.ItemsErr() != nil {
		t.Error("expected items cached and the error cleared after retry")
	}
	if snap := sess.Snapshot(); snap.Index != 1 || snap.Exam.LoadError != "" || snap.Exam.SubTotal != 1 {
		t.Errorf("expected exam 20 loaded in place, got %+v", snap.Exam)
	}
}

func TestSubjective_DeleteWithFailedLoadRemovesOnce(t *testing.T) {
	ctx := context.Background()
	f := newFakeStore()
	withExams(f)
	f.exams[1] = append(f.exams[1], question.ExamQuestion{ID: 30, SubjectID: 1, Body: "材料三"})
	sess := startSubjective(t, f)

	f.failItems = errors.New("disk I/O error")
	empty, err := sess.DeleteCurrent(ctx)
	if err != nil || empty {
		t.Fatalf("expected the removal to succeed, got empty=%v err=%v", empty, err)
	}
	if sess.Len() != 2 || sess.Snapshot().Exam.ID != 20 {
		t.Fatalf("expected exam 20 current of 2, got %+v", sess.Snapshot())
	}
	if sess.ItemsErr() == nil {
		t.Error("expected the failed load of exam 20 reported")
	}

	f.failItems = nil
	if err := sess.EnsureItems(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.Len() != 2 || sess.Snapshot().Exam.ID != 20 {
		t.Errorf("expected retry to keep exam 20 of 2, got %+v", sess.Snapshot())
	}
}

func TestSubjective_ClassifiesUnclassifiedItems(t *testing.T) {
	f := newFakeStore()
	f.exams[1] = []question.ExamQuestion{{ID: 10, SubjectID: 1, Body: "材料"}}
	f.items[10] = []question.ExamItem{
		{ID: 1, ParentID: 10, Type: question.TypeFreeForm, Answer: "作答"},
	}
	sess := startSubjective(t, f)

	item := sess.Snapshot().Exam.Item
	if item.Kind != question.KindFreeForm {
		t.Fatalf("expected free-form kind, got %q", item.Kind)
	}
	if item.Answer != "" {
		t.Errorf("expected free-form answer hidden, got %q", item.Answer)
	}
}

func TestSubjective_RevealAndSubNavigation(t *testing.T) {
	f := newFakeStore()
	withExams(f)
	sess := startSubjective(t, f)

	if _, err := sess.RevealAnswer(); !errors.Is(err, practicesession.ErrNotFreeForm) {
		t.Errorf("expected ErrNotFreeForm on a choice item, got %v", err)
	}

	sess.NextSub()
	snap := sess.Snapshot()
	if snap.Exam.Item.Answer != "" {
		t.Errorf("expected hidden answer before reveal, got %q", snap.Exam.Item.Answer)
	}

	if _, err := sess.SelectSub("A"); !errors.Is(err, practicesession.ErrFreeForm) {
		t.Errorf("expected ErrFreeForm, got %v", err)
	}
	if revealed, err := sess.RevealAnswer(); err != nil || !revealed {
		t.Fatalf("expected reveal, got %v %v", revealed, err)
	}
	if got := sess.Snapshot().Exam.Item.Answer; got != "自由作答" {
		t.Errorf("expected revealed answer, got %q", got)
	}

	sess.PrevSub()
	sess.NextSub()
	if sess.Snapshot().Exam.Item.Revealed {
		t.Error("expected reveal reset on sub navigation")
	}

	sess.NextSub()
	if sess.SubIndex() != 1 {
		t.Errorf("expected sub index clamped at 1, got %d", sess.SubIndex())
	}
}

func TestSubjective_SelectSub(t *testing.T) {
	f := newFakeStore()
	withExams(f)
	sess := startSubjective(t, f)

	fb, err := sess.SelectSub("A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fb != grader.FeedbackSuccess {
		t.Errorf("expected success, got %q", fb)
	}

	snap := sess.Snapshot()
	if !snap.Exam.Item.Options[0].CorrectShown {
		t.Error("expected correct pick highlighted")
	}
}

func TestSubjective_LegacyItemsFallback(t *testing.T) {
	f := newFakeStore()
	f.exams[1] = []question.ExamQuestion{{
		ID: 30, SubjectID: 1,
		Body: "【题目材料】背景【/题目材料】【小题1】【类型】选择题【/类型】【选项】<p>A.甲</p><p>B.乙</p>【/选项】【答案】B【/答案】【/小题1】",
	}}
	sess := startSubjective(t, f)

	snap := sess.Snapshot()
	if snap.Exam.Material != "背景" {
		t.Errorf("expected legacy material, got %q", snap.Exam.Material)
	}
	if snap.Exam.SubTotal != 1 || snap.Exam.Item.Kind != question.KindSingle {
		t.Errorf("expected one single-choice legacy item, got %+v", snap.Exam)
	}
}

// ============================================================================
// Deletion and collection
// ============================================================================

func TestDeleteCurrent_StoreFirst(t *testing.T) {
	ctx := context.Background()
	f := newFakeStore()
	addQuestions(f, 1, 100, 3)
	sess := startObjective(t, f)
	sess.Next(ctx)
	sess.Next(ctx)

	empty, err := sess.DeleteCurrent(ctx)
	if err != nil || empty {
		t.Fatalf("expected non-empty success, got %v %v", empty, err)
	}
	if len(f.deleted) != 1 || f.deleted[0] != 102 {
		t.Errorf("expected question 102 deleted in store, got %v", f.deleted)
	}
	if sess.Len() != 2 || sess.Index() != 1 {
		t.Errorf("expected 2 entries with index clamped to 1, got %d/%d", sess.Len(), sess.Index())
	}
}

func TestDeleteCurrent_FailureLeavesState(t *testing.T) {
	ctx := context.Background()
	f := newFakeStore()
	addQuestions(f, 1, 100, 2)
	sess := startObjective(t, f)
	sess.Select("A")

	f.failDelete = errors.New("database is locked")
	if _, err := sess.DeleteCurrent(ctx); err == nil {
		t.Fatal("expected error")
	}

	if sess.Len() != 2 {
		t.Errorf("expected deck untouched, got %d entries", sess.Len())
	}
	if !sess.Snapshot().Question.Submitted {
		t.Error("expected selection untouched after a failed delete")
	}
}

func TestDeleteCurrent_ReturnToList(t *testing.T) {
	f := newFakeStore()
	addQuestions(f, 1, 100, 1)
	sess := startObjective(t, f)

	empty, err := sess.DeleteCurrent(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !empty || !sess.IsEmpty() {
		t.Error("expected empty deck after deleting the only entry")
	}
}

func TestDeleteCurrentSub_Cascade(t *testing.T) {
	ctx := context.Background()
	f := newFakeStore()
	withExams(f)
	sess := startSubjective(t, f)
	sess.Next(ctx)

	empty, err := sess.DeleteCurrentSub(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if empty {
		t.Fatal("expected one exam question left")
	}
	if sess.Len() != 1 || sess.Snapshot().Exam.ID != 10 {
		t.Errorf("expected cascade to remove exam 20, got %+v", sess.Snapshot())
	}
	if len(f.deleted) != 0 {
		t.Errorf("expected no store deletes for exam content, got %v", f.deleted)
	}

	// Remove both items of exam 10; the session empties.
	if _, err := sess.DeleteCurrentSub(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sess.Snapshot().Exam.SubTotal; got != 1 {
		t.Errorf("expected 1 item left, got %d", got)
	}
	empty, err = sess.DeleteCurrentSub(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !empty {
		t.Error("expected return to list after the last sub-question")
	}
}

func TestToggleCollect_RoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFakeStore()
	addQuestions(f, 1, 100, 1)
	sess := startObjective(t, f)

	collected, err := sess.ToggleCollect(ctx)
	if err != nil || !collected {
		t.Fatalf("expected collected, got %v %v", collected, err)
	}
	if !f.collected[100] || !sess.Snapshot().Question.Collected {
		t.Error("expected store and session both collected")
	}

	collected, err = sess.ToggleCollect(ctx)
	if err != nil || collected {
		t.Fatalf("expected uncollected, got %v %v", collected, err)
	}
	if f.collected[100] || sess.Snapshot().Question.Collected {
		t.Error("expected store and session both uncollected")
	}
}

func TestToggleCollect_FailureLeavesFlag(t *testing.T) {
	f := newFakeStore()
	addQuestions(f, 1, 100, 1)
	sess := startObjective(t, f)

	f.failCollect = errors.New("readonly database")
	if _, err := sess.ToggleCollect(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if sess.Snapshot().Question.Collected {
		t.Error("expected flag untouched after failure")
	}
}

func TestToggleCollect_Subjective(t *testing.T) {
	f := newFakeStore()
	withExams(f)
	sess := startSubjective(t, f)

	if _, err := sess.ToggleCollect(context.Background()); !errors.Is(err, practicesession.ErrNotObjective) {
		t.Errorf("expected ErrNotObjective, got %v", err)
	}
}

func sameOrder(a, b []question.Question) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}
