package category_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gapeval/backend/category"
	"github.com/gapeval/backend/docstore/sqlitestore"
	"github.com/gapeval/backend/srvcerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCategorySrvc(t *testing.T) *category.CategorySrvc {
	t.Helper()
	store, err := sqlitestore.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return category.NewCategorySrvc(store)
}

func assertSrvcErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var srvcErr *srvcerror.Error
	require.ErrorAs(t, err, &srvcErr)
	assert.Equal(t, code, srvcErr.ErrorCode())
}

func TestCreateCategory(t *testing.T) {
	srvc := newTestCategorySrvc(t)
	ctx := context.Background()
	desc := "Decentralized finance"

	c, err := srvc.CreateCategory(ctx, category.CreateCategoryParams{
		Name:        "DeFi",
		Description: &desc,
		Slug:        "defi-tools",
		Evaluators: []string{
			"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
			"0x5AAEB6053F3E94C9B9A09F33669435E7EF1BEAED",
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, []string{"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"}, c.Evaluators)

	got, err := srvc.GetCategory(ctx, "defi-tools")
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	require.NotNil(t, got.Description)
	assert.Equal(t, desc, *got.Description)

	ok, err := srvc.IsEvaluator(ctx, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCreateCategoryDuplicateSlug(t *testing.T) {
	srvc := newTestCategorySrvc(t)
	ctx := context.Background()

	first, err := srvc.CreateCategory(ctx, category.CreateCategoryParams{Name: "DeFi", Slug: "defi"})
	require.NoError(t, err)

	_, err = srvc.CreateCategory(ctx, category.CreateCategoryParams{Name: "Other", Slug: "defi"})
	assertSrvcErrorCode(t, err, category.ErrCodeCategorySlugExists)

	cs, err := srvc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cs, 1)
	assert.Equal(t, first.ID, cs[0].ID)
	assert.Equal(t, "DeFi", cs[0].Name)
}

func TestCreateCategoryValidation(t *testing.T) {
	srvc := newTestCategorySrvc(t)
	tests := []struct {
		name   string
		params category.CreateCategoryParams
	}{
		{"empty name", category.CreateCategoryParams{Name: " ", Slug: "ok"}},
		{"empty slug", category.CreateCategoryParams{Name: "n", Slug: ""}},
		{"uppercase slug", category.CreateCategoryParams{Name: "n", Slug: "DeFi"}},
		{"double dash", category.CreateCategoryParams{Name: "n", Slug: "de--fi"}},
		{"trailing dash", category.CreateCategoryParams{Name: "n", Slug: "defi-"}},
		{"bad evaluator", category.CreateCategoryParams{Name: "n", Slug: "ok", Evaluators: []string{"alice"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := srvc.CreateCategory(context.Background(), tt.params)
			assertSrvcErrorCode(t, err, category.ErrCodeInvalidCategory)
		})
	}
}

func TestGetCategoryNotFound(t *testing.T) {
	srvc := newTestCategorySrvc(t)
	_, err := srvc.GetCategory(context.Background(), "missing")
	assertSrvcErrorCode(t, err, category.ErrCodeCategoryNotFound)
}

func TestListCategoriesEmpty(t *testing.T) {
	srvc := newTestCategorySrvc(t)
	cs, err := srvc.ListCategories(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, cs)
	assert.Empty(t, cs)
}
