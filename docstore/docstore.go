// Package docstore defines the document collections the services persist
// to. Implementations live in the mongostore, ddbstore and sqlitestore
// subpackages.
package docstore

import (
	"context"
	"errors"

	"github.com/gapeval/backend/domain"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate document key")
)

type CategoryStore interface {
	// InsertCategory fails with ErrDuplicate when the slug is taken.
	InsertCategory(ctx context.Context, c domain.Category) error
	CategoryBySlug(ctx context.Context, slug string) (domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	// HasEvaluator reports whether any category lists address among its
	// evaluators.
	HasEvaluator(ctx context.Context, address string) (bool, error)
}

type QuestionStore interface {
	InsertQuestions(ctx context.Context, qs []domain.Question) error
	CountQuestions(ctx context.Context) (int, error)
	ListQuestions(ctx context.Context) ([]domain.Question, error)
	// QuestionsByIDs silently skips unknown ids.
	QuestionsByIDs(ctx context.Context, ids []string) ([]domain.Question, error)
}

type SubmissionStore interface {
	InsertSubmission(ctx context.Context, s domain.Submission) error
	SubmissionByID(ctx context.Context, id string) (domain.Submission, error)
	SubmissionsByCategory(ctx context.Context, slug string) ([]domain.Submission, error)
	// SetEvaluations replaces the embedded evaluations and the score of a
	// submission in one atomic document update.
	SetEvaluations(ctx context.Context, submID string, evals []domain.Evaluation, score float64) error
}

type EvaluationStore interface {
	InsertEvaluation(ctx context.Context, e domain.Evaluation) error
	EvaluationByID(ctx context.Context, id string) (domain.Evaluation, error)
	// EvaluationsBySubmission returns the newest evaluation first.
	EvaluationsBySubmission(ctx context.Context, submID string) ([]domain.Evaluation, error)
}

type Store interface {
	CategoryStore
	QuestionStore
	SubmissionStore
	EvaluationStore
	Close(ctx context.Context) error
}
