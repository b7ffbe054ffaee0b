package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/remaimber-it/quizdeck/internal/domain/question"
	"github.com/remaimber-it/quizdeck/internal/domain/subject"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrUnavailable means the backing database could not be provisioned,
	// e.g. the bundled template is missing.
	ErrUnavailable = errors.New("store unavailable")
)

// OpError is returned when an underlying read or write fails. Op names the
// store operation so the message can be shown to the user as is.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// Store is the question database contract.
//
// There is no delete for exam questions or exam items: removing those is
// session-local only.
type Store interface {
	ListSubjects(ctx context.Context) ([]subject.Subject, error)
	ListQuestions(ctx context.Context, page, pageSize int) ([]question.Question, error)
	CountQuestions(ctx context.Context) (int, error)
	ListQuestionsBySubject(ctx context.Context, subjectID int64) ([]question.Question, error)
	ListCollectedQuestionsBySubject(ctx context.Context, subjectID int64) ([]question.Question, error)
	ListExamQuestionsBySubject(ctx context.Context, subjectID int64) ([]question.ExamQuestion, error)
	ListExamItemsByParent(ctx context.Context, questionID int64) ([]question.ExamItem, error)
	DeleteQuestion(ctx context.Context, id int64) error
	SetCollected(ctx context.Context, id int64, collected bool) error
	Close() error
}

func opError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Err: err}
}
