package catalog_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gapeval/backend/catalog"
	"github.com/gapeval/backend/docstore/sqlitestore"
	"github.com/gapeval/backend/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQuestionSrvc(t *testing.T) *catalog.QuestionSrvc {
	t.Helper()
	store, err := sqlitestore.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return catalog.NewQuestionSrvc(store)
}

func TestLoadFile(t *testing.T) {
	t.Run("json assigns ids", func(t *testing.T) {
		qs, err := catalog.LoadFile("testdata/questions.json")
		require.NoError(t, err)
		require.Len(t, qs, 2)
		assert.NotEmpty(t, qs[0].ID)
		assert.NotEqual(t, qs[0].ID, qs[1].ID)
		require.NotNil(t, qs[0].ProjectDescription)
		assert.Nil(t, qs[1].ProjectDescription)
		assert.Equal(t, "Delivery", qs[0].Section)
	})

	t.Run("toml keeps ids", func(t *testing.T) {
		qs, err := catalog.LoadFile("testdata/questions.toml")
		require.NoError(t, err)
		require.Len(t, qs, 2)
		assert.Equal(t, "q-impact", qs[0].ID)
		assert.Equal(t, 2, qs[1].Order)
	})

	t.Run("missing statement", func(t *testing.T) {
		_, err := catalog.LoadFile("testdata/invalid.json")
		require.Error(t, err)
	})

	t.Run("unknown extension", func(t *testing.T) {
		_, err := catalog.LoadFile("testdata/questions.yaml")
		require.Error(t, err)
	})
}

func TestSeedOnlyWhenEmpty(t *testing.T) {
	srvc := newTestQuestionSrvc(t)
	ctx := context.Background()

	n, err := srvc.SeedFile(ctx, "testdata/questions.toml")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = srvc.SeedFile(ctx, "testdata/questions.json")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	qs, err := srvc.ListQuestions(ctx)
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, "q-impact", qs[0].ID)
	assert.Equal(t, "q-delivery", qs[1].ID)
}

func TestQuestionsByIDs(t *testing.T) {
	srvc := newTestQuestionSrvc(t)
	ctx := context.Background()

	_, err := srvc.Seed(ctx, []domain.Question{
		{ID: "a", ProjectStatement: "p", EvaluatorStatement: "e", Section: "s", Order: 1},
		{ID: "b", ProjectStatement: "p", EvaluatorStatement: "e", Section: "s", Order: 2},
	})
	require.NoError(t, err)

	byID, err := srvc.QuestionsByIDs(ctx, []string{"b", "missing"})
	require.NoError(t, err)
	assert.Len(t, byID, 1)
	assert.Equal(t, 2, byID["b"].Order)
}

func TestListQuestionsEmpty(t *testing.T) {
	srvc := newTestQuestionSrvc(t)
	qs, err := srvc.ListQuestions(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, qs)
	assert.Empty(t, qs)
}
