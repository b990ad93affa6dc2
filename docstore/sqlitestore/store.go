// Package sqlitestore keeps the document collections as JSON documents in a
// single SQLite file. It backs local development and the service tests.
package sqlitestore

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gapeval/backend/docstore"
	"github.com/gapeval/backend/domain"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

//go:embed schema.sql
var schema string

type Store struct {
	sqlDB *sql.DB
}

var _ docstore.Store = (*Store)(nil)

// Open opens the SQLite file at path and creates missing tables.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// one writer at a time
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

func (s *Store) Close(context.Context) error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func isConstraintErr(err error) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}

// queryDocs decodes the single doc column of every row into a T.
func queryDocs[T any](ctx context.Context, db *sql.DB, query string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal([]byte(doc), &v); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func queryDoc[T any](ctx context.Context, db *sql.DB, query string, args ...any) (T, error) {
	var v T
	var doc string
	err := db.QueryRowContext(ctx, query, args...).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return v, docstore.ErrNotFound
	}
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal([]byte(doc), &v); err != nil {
		return v, fmt.Errorf("decode document: %w", err)
	}
	return v, nil
}

func (s *Store) InsertCategory(ctx context.Context, c domain.Category) error {
	doc, err := json.Marshal(c)
	if err != nil {
		return err
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO categories (slug, id, doc) VALUES (?, ?, ?)`,
		c.Slug, c.ID, string(doc))
	if isConstraintErr(err) {
		return docstore.ErrDuplicate
	}
	return err
}

func (s *Store) CategoryBySlug(ctx context.Context, slug string) (domain.Category, error) {
	return queryDoc[domain.Category](ctx, s.sqlDB,
		`SELECT doc FROM categories WHERE slug = ?`, slug)
}

func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return queryDocs[domain.Category](ctx, s.sqlDB,
		`SELECT doc FROM categories ORDER BY rowid`)
}

func (s *Store) HasEvaluator(ctx context.Context, address string) (bool, error) {
	var exists bool
	err := s.sqlDB.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM categories, json_each(categories.doc, '$.evaluators') AS ev
			WHERE ev.value = ?
		)`, address).Scan(&exists)
	return exists, err
}

func (s *Store) InsertQuestions(ctx context.Context, qs []domain.Question) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range qs {
		doc, err := json.Marshal(q)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO questions (id, ord, doc) VALUES (?, ?, ?)`,
			q.ID, q.Order, string(doc))
		if isConstraintErr(err) {
			return docstore.ErrDuplicate
		}
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) CountQuestions(ctx context.Context) (int, error) {
	var n int
	err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions`).Scan(&n)
	return n, err
}

func (s *Store) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	return queryDocs[domain.Question](ctx, s.sqlDB,
		`SELECT doc FROM questions ORDER BY ord, rowid`)
}

func (s *Store) QuestionsByIDs(ctx context.Context, ids []string) ([]domain.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return queryDocs[domain.Question](ctx, s.sqlDB,
		`SELECT doc FROM questions WHERE id IN (`+placeholders+`) ORDER BY ord`, args...)
}

func (s *Store) InsertSubmission(ctx context.Context, subm domain.Submission) error {
	doc, err := json.Marshal(subm)
	if err != nil {
		return err
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO submissions (id, category_slug, doc) VALUES (?, ?, ?)`,
		subm.ID, subm.Category.Slug, string(doc))
	if isConstraintErr(err) {
		return docstore.ErrDuplicate
	}
	return err
}

func (s *Store) SubmissionByID(ctx context.Context, id string) (domain.Submission, error) {
	return queryDoc[domain.Submission](ctx, s.sqlDB,
		`SELECT doc FROM submissions WHERE id = ?`, id)
}

func (s *Store) SubmissionsByCategory(ctx context.Context, slug string) ([]domain.Submission, error) {
	return queryDocs[domain.Submission](ctx, s.sqlDB,
		`SELECT doc FROM submissions WHERE category_slug = ? ORDER BY rowid`, slug)
}

func (s *Store) SetEvaluations(ctx context.Context, submID string, evals []domain.Evaluation, score float64) error {
	evalsDoc, err := json.Marshal(evals)
	if err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx, `
		UPDATE submissions
		SET doc = json_set(doc, '$.evaluations', json(?), '$.score', ?)
		WHERE id = ?`, string(evalsDoc), score, submID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

func (s *Store) InsertEvaluation(ctx context.Context, e domain.Evaluation) error {
	doc, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO evaluations (id, submission_id, date_completed, doc) VALUES (?, ?, ?, ?)`,
		e.ID, e.SubmissionID, e.DateCompleted.UTC().UnixMilli(), string(doc))
	if isConstraintErr(err) {
		return docstore.ErrDuplicate
	}
	return err
}

func (s *Store) EvaluationByID(ctx context.Context, id string) (domain.Evaluation, error) {
	return queryDoc[domain.Evaluation](ctx, s.sqlDB,
		`SELECT doc FROM evaluations WHERE id = ?`, id)
}

func (s *Store) EvaluationsBySubmission(ctx context.Context, submID string) ([]domain.Evaluation, error) {
	return queryDocs[domain.Evaluation](ctx, s.sqlDB,
		`SELECT doc FROM evaluations WHERE submission_id = ? ORDER BY date_completed DESC, rowid DESC`, submID)
}
