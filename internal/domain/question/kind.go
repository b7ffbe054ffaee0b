package question

import (
	"strings"
	"unicode/utf8"

	"github.com/remaimber-it/quizdeck/internal/parser"
)

// Kind is the answer semantics of a question or sub-item.
type Kind string

const (
	KindSingle    Kind = "single"
	KindMulti     Kind = "multi"
	KindTrueFalse Kind = "true_false"
	KindFreeForm  Kind = "free_form"
)

// Type labels used by the bundled database.
const (
	TypeSingleChoice = "单选题"
	TypeChoice       = "选择题"
	TypeTrueFalse    = "判断题"
	TypeFreeForm     = "主观题"
)

// IsSingle reports whether picking a new option replaces the selection.
func (k Kind) IsSingle() bool {
	return k == KindSingle || k == KindTrueFalse
}

// IsChoice reports whether the item is answered by picking options.
func (k Kind) IsChoice() bool {
	return k == KindSingle || k == KindMulti || k == KindTrueFalse
}

// ObjectiveKind classifies a question-table row from its type label.
// Anything not labelled single-choice is treated as multi-select.
func ObjectiveKind(typeLabel string) Kind {
	if strings.Contains(strings.ToLower(typeLabel), "单选") {
		return KindSingle
	}
	return KindMulti
}

// ItemKind classifies an exam_items row. Choice items with a one-letter
// answer are single-select.
func ItemKind(typeLabel, answer string) Kind {
	switch typeLabel {
	case TypeTrueFalse:
		return KindTrueFalse
	case TypeChoice:
		if utf8.RuneCountInString(parser.StripMarkup(answer)) == 1 {
			return KindSingle
		}
		return KindMulti
	default:
		return KindFreeForm
	}
}
