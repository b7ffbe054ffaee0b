// Package grader evaluates option selections against encoded answers and
// tracks the per-question selection state that drives it.
package grader

import (
	"sort"
	"strings"

	"github.com/remaimber-it/quizdeck/internal/parser"
)

// Feedback is the transient success/error pulse that accompanies an
// evaluation. FeedbackNone means nothing was evaluated.
type Feedback string

const (
	FeedbackNone    Feedback = ""
	FeedbackSuccess Feedback = "success"
	FeedbackError   Feedback = "error"
)

func feedbackFor(correct bool) Feedback {
	if correct {
		return FeedbackSuccess
	}
	return FeedbackError
}

// Evaluate reports whether the selected labels, sorted and concatenated,
// equal the correct answer once its markup is stripped.
//
//	Evaluate("<p>AC</p>", []string{"C", "A"}) == true
//	Evaluate("<p>AC</p>", []string{"A", "C", "B"}) == false
func Evaluate(correctAnswer string, selection []string) bool {
	return Normalize(selection) == parser.StripMarkup(correctAnswer)
}

// Normalize sorts the labels and joins them without a separator.
func Normalize(selection []string) string {
	labels := make([]string, len(selection))
	copy(labels, selection)
	sort.Strings(labels)
	return strings.Join(labels, "")
}
