package subm

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gapeval/backend/catalog"
	"github.com/gapeval/backend/category"
	"github.com/gapeval/backend/docstore/sqlitestore"
	"github.com/gapeval/backend/domain"
	"github.com/gapeval/backend/karma"
	"github.com/gapeval/backend/scoring"
	"github.com/gapeval/backend/srvcerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testOwner     = "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23"
	testEvaluator = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
)

var testWeights = scoring.Weights{Max: 10, Agree: 2, Disagree: 0, Neither: 1}

type fakeRegistry struct {
	data *karma.ProjectData
	err  error
}

func (f *fakeRegistry) FetchProject(ctx context.Context, id string) (*karma.ProjectData, error) {
	return f.data, f.err
}

type testEnv struct {
	srvc     *SubmSrvc
	registry *fakeRegistry
	clock    time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	store, err := sqlitestore.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(ctx) })

	questions := catalog.NewQuestionSrvc(store)
	_, err = questions.Seed(ctx, []domain.Question{
		{ID: "q1", ProjectStatement: "p1", EvaluatorStatement: "e1", Section: "Impact", Order: 1},
		{ID: "q2", ProjectStatement: "p2", EvaluatorStatement: "e2", Section: "Impact", Order: 2},
		{ID: "q3", ProjectStatement: "p3", EvaluatorStatement: "e3", Section: "Delivery", Order: 3},
		{ID: "q4", ProjectStatement: "p4", EvaluatorStatement: "e4", Section: "Delivery", Order: 4},
	})
	require.NoError(t, err)

	categories := category.NewCategorySrvc(store)
	_, err = categories.CreateCategory(ctx, category.CreateCategoryParams{
		Name:       "DeFi",
		Slug:       "defi",
		Evaluators: []string{testEvaluator},
	})
	require.NoError(t, err)

	env := &testEnv{
		registry: &fakeRegistry{err: errors.New("registry down")},
		clock:    time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	env.srvc = NewSubmSrvc(store, categories, questions, env.registry, testWeights)
	env.srvc.now = func() time.Time {
		env.clock = env.clock.Add(time.Minute)
		return env.clock
	}
	return env
}

func assertSrvcErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var srvcErr *srvcerror.Error
	require.ErrorAs(t, err, &srvcErr)
	assert.Equal(t, code, srvcErr.ErrorCode())
}

func validSubmissionParams() CreateSubmissionParams {
	return CreateSubmissionParams{
		ProjectID:    "proj-1",
		ProjectName:  "Open Oracle",
		KarmaGapID:   "0xgap",
		CategorySlug: "defi",
		Answers: []AnswerParams{
			{QuestionID: "q1", Answer: "We solve price discovery."},
			{QuestionID: "q3", Answer: "Milestone one shipped."},
		},
	}
}

func evalAnswers(codes ...string) []AnswerParams {
	ids := []string{"q1", "q2", "q3", "q4"}
	out := make([]AnswerParams, len(codes))
	for i, c := range codes {
		out[i] = AnswerParams{QuestionID: ids[i], Answer: c}
	}
	return out
}

func TestCreateSubmission(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	view, err := env.srvc.CreateSubmission(ctx, testOwner, validSubmissionParams())
	require.NoError(t, err)

	assert.NotEmpty(t, view.ID)
	assert.Nil(t, view.Score)
	assert.Equal(t, testOwner, view.Owner)
	assert.Equal(t, "defi", view.Category.Slug)
	assert.Equal(t, []string{testEvaluator}, view.Category.Evaluators)
	require.Len(t, view.Answers, 2)
	assert.Equal(t, "p1", view.Answers[0].Question.ProjectStatement)

	stored, err := env.srvc.store.SubmissionByID(ctx, view.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Score)
	assert.Empty(t, stored.Evaluations)
}

func TestCreateSubmissionValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		mutate func(p *CreateSubmissionParams)
		code   string
	}{
		{"missing project id", func(p *CreateSubmissionParams) { p.ProjectID = "" }, ErrCodeInvalidSubmission},
		{"missing project name", func(p *CreateSubmissionParams) { p.ProjectName = " " }, ErrCodeInvalidSubmission},
		{"missing karma gap id", func(p *CreateSubmissionParams) { p.KarmaGapID = "" }, ErrCodeInvalidSubmission},
		{"missing category", func(p *CreateSubmissionParams) { p.CategorySlug = "" }, ErrCodeInvalidSubmission},
		{"no answers", func(p *CreateSubmissionParams) { p.Answers = nil }, ErrCodeInvalidSubmission},
		{"answer too long", func(p *CreateSubmissionParams) {
			p.Answers[0].Answer = strings.Repeat("ā", domain.MaxSubmissionAnswerLength+1)
		}, ErrCodeInvalidSubmission},
		{"unknown question", func(p *CreateSubmissionParams) { p.Answers[1].QuestionID = "nope" }, ErrCodeInvalidSubmission},
		{"unknown category", func(p *CreateSubmissionParams) { p.CategorySlug = "gaming" }, category.ErrCodeCategoryNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validSubmissionParams()
			tt.mutate(&params)
			_, err := env.srvc.CreateSubmission(context.Background(), testOwner, params)
			assertSrvcErrorCode(t, err, tt.code)
		})
	}

	t.Run("answer at the limit", func(t *testing.T) {
		params := validSubmissionParams()
		params.Answers[0].Answer = strings.Repeat("ā", domain.MaxSubmissionAnswerLength)
		_, err := env.srvc.CreateSubmission(context.Background(), testOwner, params)
		require.NoError(t, err)
	})
}

func TestCreateEvaluationAggregatesScore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.srvc.CreateSubmission(ctx, testOwner, validSubmissionParams())
	require.NoError(t, err)

	first, err := env.srvc.CreateEvaluation(ctx, testEvaluator, CreateEvaluationParams{
		SubmissionID: created.ID,
		Answers:      evalAnswers("1", "1", "1", "1"),
	})
	require.NoError(t, err)
	require.NotNil(t, first.Score)
	assert.Equal(t, 0.8, *first.Score)
	assert.Len(t, first.Answers, 4)

	stored, err := env.srvc.store.SubmissionByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Score)
	assert.Equal(t, 0.8, *stored.Score)

	second, err := env.srvc.CreateEvaluation(ctx, testEvaluator, CreateEvaluationParams{
		SubmissionID: created.ID,
		Answers:      evalAnswers("1", "1", "1", "2"),
	})
	require.NoError(t, err)
	assert.Equal(t, 0.6, *second.Score)

	stored, err = env.srvc.store.SubmissionByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.7, *stored.Score)
	assert.Len(t, stored.Evaluations, 2)

	view, err := env.srvc.GetSubmission(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, view.EvaluationCount)
	require.NotNil(t, view.LastEvaluationDate)
	assert.True(t, view.LastEvaluationDate.Equal(second.DateCompleted))

	evals, err := env.srvc.ListSubmissionEvaluations(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, evals, 2)
	assert.Equal(t, first.ID, evals[0].ID)
	assert.Equal(t, second.ID, evals[1].ID)

	got, err := env.srvc.GetEvaluation(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, testEvaluator, got.Evaluator)
	assert.Equal(t, 0.6, *got.Score)
}

type failingInsertStore struct {
	submStore
}

func (failingInsertStore) InsertEvaluation(context.Context, domain.Evaluation) error {
	return errors.New("evaluations collection unavailable")
}

func TestCreateEvaluationInsertFailureKeepsSubmission(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.srvc.CreateSubmission(ctx, testOwner, validSubmissionParams())
	require.NoError(t, err)

	store := env.srvc.store
	env.srvc.store = failingInsertStore{submStore: store}

	_, err = env.srvc.CreateEvaluation(ctx, testEvaluator, CreateEvaluationParams{
		SubmissionID: created.ID,
		Answers:      evalAnswers("1", "1", "1", "1"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert evaluation")

	stored, err := store.SubmissionByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Score)
	assert.Empty(t, stored.Evaluations)
}

func TestCreateEvaluationInvalidCodeZeroesScore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.srvc.CreateSubmission(ctx, testOwner, validSubmissionParams())
	require.NoError(t, err)

	eval, err := env.srvc.CreateEvaluation(ctx, testEvaluator, CreateEvaluationParams{
		SubmissionID: created.ID,
		Answers:      evalAnswers("1", "1", "7", "1"),
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, *eval.Score)

	stored, err := env.srvc.store.SubmissionByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Score)
	assert.Equal(t, 0.0, *stored.Score)
}

func TestCreateEvaluationErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.srvc.CreateSubmission(ctx, testOwner, validSubmissionParams())
	require.NoError(t, err)

	tests := []struct {
		name   string
		params CreateEvaluationParams
		code   string
	}{
		{"missing submission id", CreateEvaluationParams{Answers: evalAnswers("1")}, ErrCodeInvalidEvaluation},
		{"no answers", CreateEvaluationParams{SubmissionID: created.ID}, ErrCodeInvalidEvaluation},
		{"unknown submission", CreateEvaluationParams{SubmissionID: "nope", Answers: evalAnswers("1")}, ErrCodeSubmissionNotFound},
		{"unknown question", CreateEvaluationParams{
			SubmissionID: created.ID,
			Answers:      []AnswerParams{{QuestionID: "nope", Answer: "1"}},
		}, ErrCodeInvalidEvaluation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.srvc.CreateEvaluation(ctx, testEvaluator, tt.params)
			assertSrvcErrorCode(t, err, tt.code)
		})
	}

	stored, err := env.srvc.store.SubmissionByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Score)
}

func TestGetSubmissionRegistry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.srvc.CreateSubmission(ctx, testOwner, validSubmissionParams())
	require.NoError(t, err)

	view, err := env.srvc.GetSubmission(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, view.KarmaData)
	assert.Equal(t, 0, view.EvaluationCount)
	assert.Nil(t, view.LastEvaluationDate)

	env.registry.err = nil
	env.registry.data = &karma.ProjectData{ProjectDetails: []byte(`{"title":"Open Oracle"}`)}
	view, err = env.srvc.GetSubmission(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, view.KarmaData)
	assert.JSONEq(t, `{"title":"Open Oracle"}`, string(view.KarmaData.ProjectDetails))
}

func TestGetSubmissionOmitsUnknownQuestions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.srvc.store.InsertSubmission(ctx, domain.Submission{
		ID:       "legacy",
		Category: domain.Category{ID: "c", Slug: "defi"},
		Answers: []domain.SubmissionAnswer{
			{ID: "a1", QuestionID: "q1", Answer: "kept"},
			{ID: "a2", QuestionID: "removed", Answer: "dropped"},
		},
	}))

	view, err := env.srvc.GetSubmission(ctx, "legacy")
	require.NoError(t, err)
	require.Len(t, view.Answers, 1)
	assert.Equal(t, "kept", view.Answers[0].Answer)
}

func TestNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.srvc.GetSubmission(ctx, "missing")
	assertSrvcErrorCode(t, err, ErrCodeSubmissionNotFound)

	_, err = env.srvc.ListSubmissionEvaluations(ctx, "missing")
	assertSrvcErrorCode(t, err, ErrCodeSubmissionNotFound)

	_, err = env.srvc.GetEvaluation(ctx, "missing")
	assertSrvcErrorCode(t, err, ErrCodeEvaluationNotFound)
}

func TestListCategorySubmissions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a, err := env.srvc.CreateSubmission(ctx, testOwner, validSubmissionParams())
	require.NoError(t, err)
	b, err := env.srvc.CreateSubmission(ctx, testOwner, validSubmissionParams())
	require.NoError(t, err)
	_, err = env.srvc.CreateEvaluation(ctx, testEvaluator, CreateEvaluationParams{
		SubmissionID: b.ID,
		Answers:      evalAnswers("1", "3"),
	})
	require.NoError(t, err)

	summaries, err := env.srvc.ListCategorySubmissions(ctx, "defi")
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, a.ID, summaries[0].ID)
	assert.Equal(t, 0, summaries[0].EvaluationCount)
	assert.Nil(t, summaries[0].Score)
	assert.Equal(t, b.ID, summaries[1].ID)
	assert.Equal(t, 1, summaries[1].EvaluationCount)
	require.NotNil(t, summaries[1].Score)
	assert.Equal(t, 0.3, *summaries[1].Score)

	none, err := env.srvc.ListCategorySubmissions(ctx, "gaming")
	require.NoError(t, err)
	assert.Empty(t, none)
}
