package question

import (
	"github.com/remaimber-it/quizdeck/internal/parser"
)

// Collected flag values as stored in question.iscollect.
const (
	CollectedNo  = "0"
	CollectedYes = "1"
)

// Question is an objective (machine-checkable) item from the question table.
type Question struct {
	ID        int64
	SubjectID int64
	Type      string // free-text type label, e.g. "单选题"
	Body      string // HTML, may embed math markup
	Items     string // options blob
	Answer    string // e.g. "<p>AC</p>"
	Explain   string
	Collected string // CollectedNo or CollectedYes
	RelatedID int64
	Comment   string
	Kind      Kind // derived from Type at load time
}

// Classify derives and caches the question's Kind.
func (q *Question) Classify() {
	q.Kind = ObjectiveKind(q.Type)
}

func (q *Question) IsCollected() bool {
	return q.Collected == CollectedYes
}

// SetCollected flips the stored flag representation.
func (q *Question) SetCollected(collected bool) {
	if collected {
		q.Collected = CollectedYes
		return
	}
	q.Collected = CollectedNo
}

func (q *Question) Options() []parser.Option {
	return parser.ParseOptions(q.Items)
}

// CorrectAnswer returns the answer with markup stripped, e.g. "AC".
func (q *Question) CorrectAnswer() string {
	return parser.StripMarkup(q.Answer)
}

// ExamQuestion is the shared stem of a multi-part (subjective) item.
type ExamQuestion struct {
	ID        int64
	SubjectID int64
	Body      string // material; may still use the legacy 【…】 tags
}

// Material returns the stem to display. Legacy bodies carrying a
// 【题目材料】 section yield that section; anything else is returned as is.
func (e *ExamQuestion) Material() string {
	if material, _ := parser.ParseSubQuestions(e.Body); material != "" {
		return material
	}
	return e.Body
}

// LegacySubQuestions parses sub-questions embedded in the body, for rows
// that predate the exam_items table.
func (e *ExamQuestion) LegacySubQuestions() []parser.SubQuestion {
	_, subs := parser.ParseSubQuestions(e.Body)
	return subs
}

// ExamItem is one sub-question of an ExamQuestion.
type ExamItem struct {
	ID       int64
	ParentID int64
	Type     string // "选择题", "判断题", "主观题", …
	Body     string
	Items    string
	Answer   string
	Explain  string
	Kind     Kind // derived from Type and Answer at load time
}

// Classify derives and caches the item's Kind.
func (it *ExamItem) Classify() {
	it.Kind = ItemKind(it.Type, it.Answer)
}

// Options returns the parsed choices; free-form items have none.
func (it *ExamItem) Options() []parser.Option {
	if it.Kind == KindFreeForm {
		return []parser.Option{}
	}
	return parser.ParseOptions(it.Items)
}

func (it *ExamItem) CorrectAnswer() string {
	return parser.StripMarkup(it.Answer)
}
