package grader_test

import (
	"testing"

	"github.com/remaimber-it/quizdeck/internal/grader"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name      string
		correct   string
		selection []string
		want      bool
	}{
		{"single match", "<p>B</p>", []string{"B"}, true},
		{"single mismatch", "<p>B</p>", []string{"A"}, false},
		{"multi unordered", "<p>AC</p>", []string{"C", "A"}, true},
		{"multi superset", "<p>AC</p>", []string{"A", "C", "B"}, false},
		{"multi subset", "AC", []string{"A"}, false},
		{"whitespace around answer", "  <p>AC</p>\n", []string{"A", "C"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := grader.Evaluate(tt.correct, tt.selection); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestEvaluate_DoesNotReorderCallerSlice(t *testing.T) {
	selection := []string{"C", "A"}
	grader.Evaluate("AC", selection)

	if selection[0] != "C" {
		t.Errorf("expected caller slice untouched, got %v", selection)
	}
}

func TestPick_SingleCorrect(t *testing.T) {
	var s grader.Selection

	fb := s.Pick("B", "<p>B</p>", true)

	if fb != grader.FeedbackSuccess {
		t.Errorf("expected success feedback, got %q", fb)
	}
	if !s.Submitted {
		t.Error("expected submitted after a correct single pick")
	}
}

func TestPick_SingleWrongKeepsSelection(t *testing.T) {
	var s grader.Selection

	fb := s.Pick("A", "<p>B</p>", true)

	if fb != grader.FeedbackError {
		t.Errorf("expected error feedback, got %q", fb)
	}
	if s.Submitted {
		t.Error("expected not submitted after a wrong pick")
	}
	if !s.IsSelected("A") {
		t.Error("expected the wrong option to stay selected")
	}
}

func TestPick_SingleReplacesSelection(t *testing.T) {
	var s grader.Selection
	s.Pick("A", "B", true)

	s.Pick("B", "B", true)

	if len(s.Selected) != 1 || s.Selected[0] != "B" {
		t.Errorf("expected selection [B], got %v", s.Selected)
	}
	if !s.Submitted {
		t.Error("expected submitted after switching to the correct option")
	}
}

func TestPick_SingleReselectClears(t *testing.T) {
	var s grader.Selection
	s.Pick("B", "B", true)

	fb := s.Pick("B", "B", true)

	if fb != grader.FeedbackNone {
		t.Errorf("expected no feedback when clearing, got %q", fb)
	}
	if len(s.Selected) != 0 || s.Submitted {
		t.Errorf("expected cleared state, got %+v", s)
	}
}

func TestPick_MultiToggleAndEvaluate(t *testing.T) {
	var s grader.Selection

	if fb := s.Pick("C", "<p>AC</p>", false); fb != grader.FeedbackError {
		t.Errorf("expected error feedback for partial selection, got %q", fb)
	}
	if fb := s.Pick("A", "<p>AC</p>", false); fb != grader.FeedbackSuccess {
		t.Errorf("expected success feedback for full selection, got %q", fb)
	}
	if !s.Submitted {
		t.Error("expected submitted once the selection matches")
	}
	if s.Selected[0] != "A" || s.Selected[1] != "C" {
		t.Errorf("expected sorted selection [A C], got %v", s.Selected)
	}

	if fb := s.Pick("B", "<p>AC</p>", false); fb != grader.FeedbackError {
		t.Errorf("expected error feedback for a superset, got %q", fb)
	}
	if s.Submitted {
		t.Error("expected not submitted for a superset")
	}
}

func TestPick_MultiEmptyClearsWithoutFeedback(t *testing.T) {
	var s grader.Selection
	s.Pick("A", "A", false)

	fb := s.Pick("A", "A", false)

	if fb != grader.FeedbackNone {
		t.Errorf("expected no feedback for an empty selection, got %q", fb)
	}
	if s.Submitted {
		t.Error("expected submitted cleared")
	}
}

func TestStrike_DeselectsAndBlocksPick(t *testing.T) {
	var s grader.Selection
	s.Pick("A", "A", true)

	s.Strike("A")

	if s.IsSelected("A") || s.Submitted {
		t.Errorf("expected struck option deselected and submission cleared, got %+v", s)
	}
	if fb := s.Pick("A", "A", true); fb != grader.FeedbackNone {
		t.Errorf("expected struck option to be unselectable, got %q", fb)
	}
	if s.IsSelected("A") {
		t.Error("expected struck option to stay unselected")
	}

	s.Strike("A")
	if s.IsStruck("A") {
		t.Error("expected second strike to restore the option")
	}
}

func TestShowsCorrect(t *testing.T) {
	var single grader.Selection
	single.Pick("B", "B", true)
	if !single.ShowsCorrect("B", "B", true) {
		t.Error("expected the submitted single pick to show as correct")
	}

	var multi grader.Selection
	multi.Pick("A", "AC", false)
	if multi.ShowsCorrect("A", "AC", false) {
		t.Error("expected nothing highlighted before submission")
	}
	multi.Pick("C", "AC", false)
	if !multi.ShowsCorrect("A", "AC", false) || !multi.ShowsCorrect("C", "AC", false) {
		t.Error("expected every correct option highlighted once submitted")
	}
	if multi.ShowsCorrect("B", "AC", false) {
		t.Error("expected wrong option not highlighted")
	}
}

func TestReset(t *testing.T) {
	var s grader.Selection
	s.Pick("A", "A", true)
	s.Strike("B")

	s.Reset()

	if len(s.Selected) != 0 || len(s.Struck) != 0 || s.Submitted {
		t.Errorf("expected zero state, got %+v", s)
	}
}
