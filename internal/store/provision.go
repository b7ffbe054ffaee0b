package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// SchemaVersion is stamped into PRAGMA user_version of every provisioned
// working copy. Copies carrying an older version are discarded and
// re-copied from the template.
const SchemaVersion = 2

// examSchema creates the subjective tables older templates lack.
const examSchema = `
CREATE TABLE IF NOT EXISTS exam_question (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    question TEXT,
    subjectid INTEGER
);

CREATE TABLE IF NOT EXISTS exam_items (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    qid INTEGER,
    type TEXT,
    answer TEXT,
    items TEXT,
    "explain" TEXT
);
`

type Options struct {
	Path         string // working copy, read and written by the store
	TemplatePath string // bundled database, never written
	ForceRefresh bool   // discard the working copy even if it is current
}

// Open provisions the working database from the template when needed and
// returns a store over it.
func Open(ctx context.Context, opts Options) (*SQLiteStore, error) {
	fresh, err := provision(ctx, opts)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", opts.Path)
	if err != nil {
		return nil, opError("open", err)
	}
	// SQLite allows one writer; a single connection also keeps PRAGMAs
	// applied to every statement.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, opError("open", err)
	}
	if err := ensureTables(ctx, db); err != nil {
		db.Close()
		return nil, opError("migrate", err)
	}
	if fresh {
		if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion)); err != nil {
			db.Close()
			return nil, opError("stamp version", err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

// provision makes sure a current working copy exists at opts.Path and
// reports whether it was just copied.
func provision(ctx context.Context, opts Options) (bool, error) {
	if _, err := os.Stat(opts.Path); err == nil {
		version, err := readUserVersion(ctx, opts.Path)
		if err != nil {
			return false, opError("read version", err)
		}
		if version >= SchemaVersion && !opts.ForceRefresh {
			return false, nil
		}
		if err := os.Remove(opts.Path); err != nil {
			return false, opError("discard stale copy", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, opError("stat", err)
	}

	if err := copyFile(opts.TemplatePath, opts.Path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, fmt.Errorf("%w: template %s: %v", ErrUnavailable, opts.TemplatePath, err)
		}
		return false, opError("copy template", err)
	}
	return true, nil
}

func readUserVersion(ctx context.Context, path string) (int, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, err
	}
	return version, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if dir := filepath.Dir(dst); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}

// ensureTables runs migrations on the working copy.
func ensureTables(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, examSchema); err != nil {
		return err
	}
	return addColumnIfNotExists(ctx, db, "exam_items", "question", "TEXT")
}

func addColumnIfNotExists(ctx context.Context, db *sql.DB, table, column, definition string) error {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid       int
			name      string
			typ       string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dfltValue, &pk); err != nil {
			return err
		}
		if name == column {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()

	_, err = db.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition))
	return err
}
