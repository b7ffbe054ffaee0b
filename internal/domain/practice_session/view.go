package practicesession

import (
	"github.com/remaimber-it/quizdeck/internal/domain/question"
	"github.com/remaimber-it/quizdeck/internal/grader"
	"github.com/remaimber-it/quizdeck/internal/parser"
)

// Snapshot is a read-only picture of what the learner sees.
type Snapshot struct {
	SessionID string
	Mode      Mode
	Index     int
	Total     int
	Question  *QuestionView // objective mode
	Exam      *ExamView     // subjective mode
}

type OptionView struct {
	Label        string
	Content      string
	Selected     bool
	Struck       bool
	CorrectShown bool
}

type QuestionView struct {
	ID        int64
	Type      string
	Kind      question.Kind
	Body      string
	Options   []OptionView
	Answer    string
	Explain   string
	Collected bool
	Submitted bool
}

type ExamView struct {
	ID          int64
	Material    string
	ItemsLoaded bool
	LoadError   string // set while sub-questions could not be loaded
	SubIndex    int
	SubTotal    int
	Item        *ItemView
}

// ItemView hides Answer and Explain of free-form items until revealed.
type ItemView struct {
	Type      string
	Kind      question.Kind
	Body      string
	Options   []OptionView
	Answer    string
	Explain   string
	Submitted bool
	Revealed  bool
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		SessionID: s.ID,
		Mode:      s.deck.Mode,
		Index:     s.index,
		Total:     s.deck.Len(),
	}
	if s.deck.Len() == 0 {
		return snap
	}

	if s.deck.Mode == ModeObjective {
		q := s.deck.Questions[s.index]
		snap.Question = &QuestionView{
			ID:        q.ID,
			Type:      q.Type,
			Kind:      q.Kind,
			Body:      q.Body,
			Options:   optionViews(q.Options(), &s.objective, q.Answer, q.Kind.IsSingle()),
			Answer:    q.CorrectAnswer(),
			Explain:   q.Explain,
			Collected: q.IsCollected(),
			Submitted: s.objective.Submitted,
		}
		return snap
	}

	exam := s.deck.Exams[s.index]
	items := s.currentItems()
	view := &ExamView{
		ID:          exam.ID,
		Material:    exam.Material(),
		ItemsLoaded: s.ItemsLoaded(),
		SubIndex:    s.subIndex,
		SubTotal:    len(items),
	}
	if s.itemsErr != nil {
		view.LoadError = s.itemsErr.Error()
	}
	if len(items) > 0 {
		it := items[s.subIndex]
		iv := &ItemView{
			Type:      it.Type,
			Kind:      it.Kind,
			Body:      it.Body,
			Options:   optionViews(it.Options(), &s.sub, it.Answer, it.Kind.IsSingle()),
			Submitted: s.sub.Submitted,
			Revealed:  s.revealed,
		}
		if it.Kind != question.KindFreeForm || s.revealed {
			iv.Answer = it.CorrectAnswer()
			iv.Explain = it.Explain
		}
		view.Item = iv
	}
	snap.Exam = view
	return snap
}

func optionViews(options []parser.Option, sel *grader.Selection, answer string, single bool) []OptionView {
	views := make([]OptionView, 0, len(options))
	for _, o := range options {
		views = append(views, OptionView{
			Label:        o.Label,
			Content:      o.Content,
			Selected:     sel.IsSelected(o.Label),
			Struck:       sel.IsStruck(o.Label),
			CorrectShown: sel.ShowsCorrect(o.Label, answer, single),
		})
	}
	return views
}
