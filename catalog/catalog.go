// Package catalog serves the fixed evaluation questionnaire.
package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gapeval/backend/docstore"
	"github.com/gapeval/backend/domain"
	"github.com/gapeval/backend/logger"
)

type QuestionSrvc struct {
	store docstore.QuestionStore
}

func NewQuestionSrvc(store docstore.QuestionStore) *QuestionSrvc {
	return &QuestionSrvc{store: store}
}

// ListQuestions returns every question ordered by Order.
func (s *QuestionSrvc) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	qs, err := s.store.ListQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	if qs == nil {
		qs = []domain.Question{}
	}
	return qs, nil
}

// QuestionsByIDs fetches the questions referenced by ids in one query,
// keyed by id. Unknown ids are absent from the map.
func (s *QuestionSrvc) QuestionsByIDs(ctx context.Context, ids []string) (map[string]domain.Question, error) {
	qs, err := s.store.QuestionsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}
	byID := make(map[string]domain.Question, len(qs))
	for _, q := range qs {
		byID[q.ID] = q
	}
	return byID, nil
}

// Seed stores qs when no question exists yet and returns how many were
// inserted.
func (s *QuestionSrvc) Seed(ctx context.Context, qs []domain.Question) (int, error) {
	log := logger.FromContext(ctx)

	count, err := s.store.CountQuestions(ctx)
	if err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	if count > 0 {
		log.Info("questions already present, skipping seed", slog.Int("count", count))
		return 0, nil
	}
	if err := s.store.InsertQuestions(ctx, qs); err != nil {
		return 0, fmt.Errorf("insert questions: %w", err)
	}
	log.Info("seeded questions", slog.Int("count", len(qs)))
	return len(qs), nil
}

// SeedFile loads path with LoadFile and seeds it.
func (s *QuestionSrvc) SeedFile(ctx context.Context, path string) (int, error) {
	qs, err := LoadFile(path)
	if err != nil {
		return 0, err
	}
	return s.Seed(ctx, qs)
}
