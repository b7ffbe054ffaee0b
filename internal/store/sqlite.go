// internal/store/sqlite.go
package store

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"

	"github.com/remaimber-it/quizdeck/internal/domain/question"
	"github.com/remaimber-it/quizdeck/internal/domain/subject"
)

const questionColumns = `id, COALESCE(subjectid, 0), COALESCE(questiontype, ''), COALESCE(question, ''),
    COALESCE(items, ''), COALESCE(answer, ''), COALESCE("explain", ''), COALESCE(iscollect, '0'),
    COALESCE(relatedid, 0), COALESCE(comment, '')`

type SQLiteStore struct {
	db *sql.DB
}

// Compile-time check: *SQLiteStore satisfies the Store interface.
var _ Store = (*SQLiteStore)(nil)

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Subjects
// ============================================================================

func (s *SQLiteStore) ListSubjects(ctx context.Context) ([]subject.Subject, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, COALESCE(name, '') FROM subject ORDER BY id")
	if err != nil {
		return nil, opError("list subjects", err)
	}
	defer rows.Close()

	subjects := []subject.Subject{}
	for rows.Next() {
		var sub subject.Subject
		if err := rows.Scan(&sub.ID, &sub.Name); err != nil {
			return nil, opError("list subjects", err)
		}
		subjects = append(subjects, sub)
	}
	return subjects, opError("list subjects", rows.Err())
}

// ============================================================================
// Questions
// ============================================================================

// ListQuestions returns one page of the whole question table, zero-based.
func (s *SQLiteStore) ListQuestions(ctx context.Context, page, pageSize int) ([]question.Question, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+questionColumns+" FROM question ORDER BY id LIMIT ? OFFSET ?",
		pageSize, page*pageSize,
	)
	if err != nil {
		return nil, opError("list questions", err)
	}
	return scanQuestions(rows, "list questions")
}

func (s *SQLiteStore) CountQuestions(ctx context.Context) (int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM question").Scan(&total); err != nil {
		return 0, opError("count questions", err)
	}
	return total, nil
}

func (s *SQLiteStore) ListQuestionsBySubject(ctx context.Context, subjectID int64) ([]question.Question, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+questionColumns+" FROM question WHERE subjectid = ?", subjectID,
	)
	if err != nil {
		return nil, opError("list questions by subject", err)
	}
	return scanQuestions(rows, "list questions by subject")
}

func (s *SQLiteStore) ListCollectedQuestionsBySubject(ctx context.Context, subjectID int64) ([]question.Question, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+questionColumns+" FROM question WHERE subjectid = ? AND iscollect = ?",
		subjectID, question.CollectedYes,
	)
	if err != nil {
		return nil, opError("list collected questions", err)
	}
	return scanQuestions(rows, "list collected questions")
}

// DeleteQuestion removes a question. Deleting a row that is already gone
// succeeds, since a sampled deck can hold the same question more than once.
func (s *SQLiteStore) DeleteQuestion(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM question WHERE id = ?", id)
	return opError("delete question", err)
}

func (s *SQLiteStore) SetCollected(ctx context.Context, id int64, collected bool) error {
	flag := question.CollectedNo
	if collected {
		flag = question.CollectedYes
	}

	result, err := s.db.ExecContext(ctx, "UPDATE question SET iscollect = ? WHERE id = ?", flag, id)
	if err != nil {
		return opError("update collect status", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return opError("update collect status", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanQuestions(rows *sql.Rows, op string) ([]question.Question, error) {
	defer rows.Close()

	questions := []question.Question{}
	for rows.Next() {
		var q question.Question
		if err := rows.Scan(
			&q.ID, &q.SubjectID, &q.Type, &q.Body,
			&q.Items, &q.Answer, &q.Explain, &q.Collected,
			&q.RelatedID, &q.Comment,
		); err != nil {
			return nil, opError(op, err)
		}
		q.Classify()
		questions = append(questions, q)
	}
	return questions, opError(op, rows.Err())
}

// ============================================================================
// Exam questions
// ============================================================================

func (s *SQLiteStore) ListExamQuestionsBySubject(ctx context.Context, subjectID int64) ([]question.ExamQuestion, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, COALESCE(subjectid, 0), COALESCE(question, '') FROM exam_question WHERE subjectid = ?",
		subjectID,
	)
	if err != nil {
		return nil, opError("list exam questions", err)
	}
	defer rows.Close()

	exams := []question.ExamQuestion{}
	for rows.Next() {
		var e question.ExamQuestion
		if err := rows.Scan(&e.ID, &e.SubjectID, &e.Body); err != nil {
			return nil, opError("list exam questions", err)
		}
		exams = append(exams, e)
	}
	return exams, opError("list exam questions", rows.Err())
}

func (s *SQLiteStore) ListExamItemsByParent(ctx context.Context, questionID int64) ([]question.ExamItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, COALESCE(qid, 0), COALESCE(type, ''), COALESCE(question, ''),
		       COALESCE(items, ''), COALESCE(answer, ''), COALESCE("explain", '')
		FROM exam_items WHERE qid = ? ORDER BY id`,
		questionID,
	)
	if err != nil {
		return nil, opError("list exam items", err)
	}
	defer rows.Close()

	items := []question.ExamItem{}
	for rows.Next() {
		var it question.ExamItem
		if err := rows.Scan(&it.ID, &it.ParentID, &it.Type, &it.Body, &it.Items, &it.Answer, &it.Explain); err != nil {
			return nil, opError("list exam items", err)
		}
		it.Classify()
		items = append(items, it)
	}
	return items, opError("list exam items", rows.Err())
}
