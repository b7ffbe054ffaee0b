package grader

import (
	"sort"
	"strings"

	"github.com/remaimber-it/quizdeck/internal/parser"
)

// Selection is the answer state of the question (or sub-item) on screen.
// The zero value is the initial state.
type Selection struct {
	Selected  []string // sorted labels
	Submitted bool     // true once the current selection is correct
	Struck    []string // options crossed out as a study aid
}

// Pick applies a tap on label.
//
// Single-select: tapping the selected label clears everything without
// evaluating; any other label replaces the selection and is evaluated.
// Multi-select: the label is toggled and a non-empty selection is evaluated;
// an empty one just clears Submitted. Struck labels cannot be picked.
func (s *Selection) Pick(label, correctAnswer string, single bool) Feedback {
	if s.IsStruck(label) {
		return FeedbackNone
	}

	if single {
		if s.IsSelected(label) {
			s.Selected = nil
			s.Submitted = false
			return FeedbackNone
		}
		s.Selected = []string{label}
		s.Submitted = Evaluate(correctAnswer, s.Selected)
		return feedbackFor(s.Submitted)
	}

	if s.IsSelected(label) {
		s.Selected = remove(s.Selected, label)
	} else {
		s.Selected = append(s.Selected, label)
		sort.Strings(s.Selected)
	}
	if len(s.Selected) == 0 {
		s.Submitted = false
		return FeedbackNone
	}
	s.Submitted = Evaluate(correctAnswer, s.Selected)
	return feedbackFor(s.Submitted)
}

// Strike toggles label in the struck set. Striking a selected option
// deselects it and clears Submitted.
func (s *Selection) Strike(label string) {
	if s.IsStruck(label) {
		s.Struck = remove(s.Struck, label)
		return
	}
	if s.IsSelected(label) {
		s.Selected = remove(s.Selected, label)
		s.Submitted = false
	}
	s.Struck = append(s.Struck, label)
}

func (s *Selection) Reset() {
	*s = Selection{}
}

func (s *Selection) IsSelected(label string) bool {
	return contains(s.Selected, label)
}

func (s *Selection) IsStruck(label string) bool {
	return contains(s.Struck, label)
}

// ShowsCorrect reports whether label should be highlighted as correct:
// for single-select only the submitted pick, for multi-select every correct
// option once the selection is submitted.
func (s *Selection) ShowsCorrect(label, correctAnswer string, single bool) bool {
	if !s.Submitted {
		return false
	}
	isCorrect := strings.Contains(parser.StripMarkup(correctAnswer), label)
	if single {
		return isCorrect && s.IsSelected(label)
	}
	return isCorrect
}

func contains(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}

func remove(labels []string, label string) []string {
	out := labels[:0:0]
	for _, l := range labels {
		if l != label {
			out = append(out, l)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
