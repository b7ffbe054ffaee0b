package practicesession

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/remaimber-it/quizdeck/internal/domain/question"
)

// Reader is the read side of the question store the session needs.
type Reader interface {
	ListQuestionsBySubject(ctx context.Context, subjectID int64) ([]question.Question, error)
	ListCollectedQuestionsBySubject(ctx context.Context, subjectID int64) ([]question.Question, error)
	ListExamQuestionsBySubject(ctx context.Context, subjectID int64) ([]question.ExamQuestion, error)
	ListExamItemsByParent(ctx context.Context, questionID int64) ([]question.ExamItem, error)
}

// Writer is the write side. Only objective questions are ever written.
type Writer interface {
	DeleteQuestion(ctx context.Context, id int64) error
	SetCollected(ctx context.Context, id int64, collected bool) error
}

type Store interface {
	Reader
	Writer
}

// Deck is the ordered list a session walks. Only the slice matching Mode
// is populated.
type Deck struct {
	Mode      Mode
	Questions []question.Question
	Exams     []question.ExamQuestion
}

func (d *Deck) Len() int {
	if d.Mode == ModeSubjective {
		return len(d.Exams)
	}
	return len(d.Questions)
}

// NewRand returns a time-seeded generator for production decks.
func NewRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// BuildDeck loads the entries for cfg. Subjects are fetched one at a time
// in the configured order. Single-subject decks keep store order;
// multi-subject decks are sampled, repeated and shuffled with rng.
func BuildDeck(ctx context.Context, r Reader, cfg Config, rng *rand.Rand) (Deck, error) {
	if err := cfg.Validate(); err != nil {
		return Deck{}, err
	}
	deck := Deck{Mode: cfg.Mode}

	if !cfg.IsMultiSubject() {
		var err error
		switch {
		case cfg.Mode == ModeSubjective:
			deck.Exams, err = r.ListExamQuestionsBySubject(ctx, cfg.SubjectID)
		case cfg.Collection:
			deck.Questions, err = r.ListCollectedQuestionsBySubject(ctx, cfg.SubjectID)
		default:
			deck.Questions, err = r.ListQuestionsBySubject(ctx, cfg.SubjectID)
		}
		if err != nil {
			return Deck{}, fmt.Errorf("load subject %d: %w", cfg.SubjectID, err)
		}
		classify(&deck)
		return deck, nil
	}

	for _, subjectID := range cfg.SubjectIDs {
		if cfg.Mode == ModeSubjective {
			exams, err := r.ListExamQuestionsBySubject(ctx, subjectID)
			if err != nil {
				return Deck{}, fmt.Errorf("load subject %d: %w", subjectID, err)
			}
			deck.Exams = append(deck.Exams, sample(rng, exams, cfg.SampleSize, cfg.RepeatCount)...)
			continue
		}

		questions, err := r.ListQuestionsBySubject(ctx, subjectID)
		if err != nil {
			return Deck{}, fmt.Errorf("load subject %d: %w", subjectID, err)
		}
		deck.Questions = append(deck.Questions, sample(rng, questions, cfg.SampleSize, cfg.RepeatCount)...)
	}

	shuffle(rng, deck.Questions)
	shuffle(rng, deck.Exams)
	classify(&deck)
	return deck, nil
}

// sample shuffles a copy of entries, keeps the first size of them and
// returns that sample repeated back-to-back.
func sample[T any](rng *rand.Rand, entries []T, size, repeat int) []T {
	picked := make([]T, len(entries))
	copy(picked, entries)
	shuffle(rng, picked)

	if size < len(picked) {
		picked = picked[:size]
	}

	out := make([]T, 0, len(picked)*repeat)
	for i := 0; i < repeat; i++ {
		out = append(out, picked...)
	}
	return out
}

func shuffle[T any](rng *rand.Rand, entries []T) {
	rng.Shuffle(len(entries), func(i, j int) {
		entries[i], entries[j] = entries[j], entries[i]
	})
}

// classify fills in Kind for entries loaded by readers that skip it.
func classify(d *Deck) {
	for i := range d.Questions {
		if d.Questions[i].Kind == "" {
			d.Questions[i].Classify()
		}
	}
}
