// Package category manages evaluation categories and their evaluator
// lists.
package category

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/gapeval/backend/auth/wallet"
	"github.com/gapeval/backend/docstore"
	"github.com/gapeval/backend/domain"
	"github.com/gapeval/backend/logger"
	"github.com/google/uuid"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

type CategorySrvc struct {
	store docstore.CategoryStore
}

func NewCategorySrvc(store docstore.CategoryStore) *CategorySrvc {
	return &CategorySrvc{store: store}
}

type CreateCategoryParams struct {
	Name        string
	Description *string
	Slug        string
	Evaluators  []string
}

func (s *CategorySrvc) CreateCategory(ctx context.Context, params CreateCategoryParams) (*domain.Category, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, newErrInvalidCategory("category name is required")
	}
	if !slugPattern.MatchString(params.Slug) {
		return nil, newErrInvalidCategory("slug must be lowercase letters and digits separated by single dashes")
	}

	evaluators := make([]string, 0, len(params.Evaluators))
	seen := make(map[string]bool, len(params.Evaluators))
	for _, e := range params.Evaluators {
		addr, err := wallet.ChecksumAddress(strings.TrimSpace(e))
		if err != nil {
			return nil, newErrInvalidCategory(fmt.Sprintf("evaluator %q is not a valid address", e))
		}
		if seen[addr] {
			continue
		}
		seen[addr] = true
		evaluators = append(evaluators, addr)
	}

	c := domain.Category{
		ID:          uuid.NewString(),
		Name:        name,
		Description: params.Description,
		Slug:        params.Slug,
		Evaluators:  evaluators,
	}
	err := s.store.InsertCategory(ctx, c)
	if errors.Is(err, docstore.ErrDuplicate) {
		return nil, newErrCategorySlugExists()
	}
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}

	logger.FromContext(ctx).Info("category created",
		slog.String("slug", c.Slug),
		slog.Int("evaluators", len(c.Evaluators)))
	return &c, nil
}

func (s *CategorySrvc) ListCategories(ctx context.Context) ([]domain.Category, error) {
	cs, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if cs == nil {
		cs = []domain.Category{}
	}
	return cs, nil
}

func (s *CategorySrvc) GetCategory(ctx context.Context, slug string) (*domain.Category, error) {
	c, err := s.store.CategoryBySlug(ctx, slug)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, newErrCategoryNotFound()
	}
	if err != nil {
		return nil, fmt.Errorf("get category %s: %w", slug, err)
	}
	return &c, nil
}

// IsEvaluator expects a checksummed address.
func (s *CategorySrvc) IsEvaluator(ctx context.Context, address string) (bool, error) {
	return s.store.HasEvaluator(ctx, address)
}
