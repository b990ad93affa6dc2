// Package ddbstore keeps the document collections in DynamoDB tables, one
// table per collection.
package ddbstore

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/gapeval/backend/docstore"
	"github.com/gapeval/backend/domain"
	"github.com/guregu/dynamo/v2"
)

type Store struct {
	db          *dynamo.DB
	categories  dynamo.Table
	questions   dynamo.Table
	submissions dynamo.Table
	evaluations dynamo.Table
}

var _ docstore.Store = (*Store)(nil)

// New wraps an existing client. Table names are the collection names with
// prefix prepended.
func New(ddbClient *dynamodb.Client, prefix string) *Store {
	db := dynamo.NewFromIface(ddbClient)
	return &Store{
		db:          db,
		categories:  db.Table(prefix + "categories"),
		questions:   db.Table(prefix + "questions"),
		submissions: db.Table(prefix + "submissions"),
		evaluations: db.Table(prefix + "evaluations"),
	}
}

// Open loads the default AWS configuration for region. A non-empty
// endpoint overrides the service URL (DynamoDB Local).
func Open(ctx context.Context, region, prefix, endpoint string) (*Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	ddbClient := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return New(ddbClient, prefix), nil
}

// CreateTables creates the on-demand tables that do not exist yet.
func (s *Store) CreateTables(ctx context.Context) error {
	existing, err := s.db.ListTables().All(ctx)
	if err != nil {
		return fmt.Errorf("list tables: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, name := range existing {
		have[name] = true
	}

	tables := []struct {
		table dynamo.Table
		from  any
	}{
		{s.categories, domain.Category{}},
		{s.questions, domain.Question{}},
		{s.submissions, domain.Submission{}},
		{s.evaluations, domain.Evaluation{}},
	}
	for _, t := range tables {
		if have[t.table.Name()] {
			continue
		}
		err := s.db.CreateTable(t.table.Name(), t.from).OnDemand(true).Wait(ctx)
		if err != nil {
			return fmt.Errorf("create table %s: %w", t.table.Name(), err)
		}
	}
	return nil
}

func (s *Store) Close(context.Context) error {
	return nil
}

func getErr(err error) error {
	if errors.Is(err, dynamo.ErrNotFound) {
		return docstore.ErrNotFound
	}
	return err
}

func putErr(err error) error {
	if dynamo.IsCondCheckFailed(err) {
		return docstore.ErrDuplicate
	}
	return err
}

func (s *Store) InsertCategory(ctx context.Context, c domain.Category) error {
	put := s.categories.Put(c).If("attribute_not_exists($)", "slug")
	return putErr(put.Run(ctx))
}

func (s *Store) CategoryBySlug(ctx context.Context, slug string) (domain.Category, error) {
	var c domain.Category
	err := s.categories.Get("slug", slug).One(ctx, &c)
	return c, getErr(err)
}

func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	err := s.categories.Scan().All(ctx, &out)
	return out, err
}

func (s *Store) HasEvaluator(ctx context.Context, address string) (bool, error) {
	var out []domain.Category
	err := s.categories.Scan().
		Filter("contains($, ?)", "evaluators", address).
		All(ctx, &out)
	if err != nil {
		return false, err
	}
	return len(out) > 0, nil
}

func (s *Store) InsertQuestions(ctx context.Context, qs []domain.Question) error {
	for _, q := range qs {
		put := s.questions.Put(q).If("attribute_not_exists($)", "id")
		if err := putErr(put.Run(ctx)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) CountQuestions(ctx context.Context) (int, error) {
	var out []domain.Question
	if err := s.questions.Scan().All(ctx, &out); err != nil {
		return 0, err
	}
	return len(out), nil
}

func sortQuestions(qs []domain.Question) {
	sort.SliceStable(qs, func(i, j int) bool { return qs[i].Order < qs[j].Order })
}

func (s *Store) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	var out []domain.Question
	if err := s.questions.Scan().All(ctx, &out); err != nil {
		return nil, err
	}
	sortQuestions(out)
	return out, nil
}

func (s *Store) QuestionsByIDs(ctx context.Context, ids []string) ([]domain.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	seen := make(map[string]bool, len(ids))
	keys := make([]dynamo.Keyed, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		keys = append(keys, dynamo.Keys{id})
	}

	var out []domain.Question
	err := s.questions.Batch("id").Get(keys...).All(ctx, &out)
	if err != nil && !errors.Is(err, dynamo.ErrNotFound) {
		return nil, err
	}
	sortQuestions(out)
	return out, nil
}

func (s *Store) InsertSubmission(ctx context.Context, subm domain.Submission) error {
	put := s.submissions.Put(subm).If("attribute_not_exists($)", "id")
	return putErr(put.Run(ctx))
}

func (s *Store) SubmissionByID(ctx context.Context, id string) (domain.Submission, error) {
	var subm domain.Submission
	err := s.submissions.Get("id", id).One(ctx, &subm)
	return subm, getErr(err)
}

func (s *Store) SubmissionsByCategory(ctx context.Context, slug string) ([]domain.Submission, error) {
	var out []domain.Submission
	err := s.submissions.Scan().
		Filter("$.$ = ?", "category", "slug", slug).
		All(ctx, &out)
	return out, err
}

func (s *Store) SetEvaluations(ctx context.Context, submID string, evals []domain.Evaluation, score float64) error {
	err := s.submissions.Update("id", submID).
		Set("evaluations", evals).
		Set("score", score).
		If("attribute_exists($)", "id").
		Run(ctx)
	if dynamo.IsCondCheckFailed(err) {
		return docstore.ErrNotFound
	}
	return err
}

func (s *Store) InsertEvaluation(ctx context.Context, e domain.Evaluation) error {
	put := s.evaluations.Put(e).If("attribute_not_exists($)", "id")
	return putErr(put.Run(ctx))
}

func (s *Store) EvaluationByID(ctx context.Context, id string) (domain.Evaluation, error) {
	var e domain.Evaluation
	err := s.evaluations.Get("id", id).One(ctx, &e)
	return e, getErr(err)
}

func (s *Store) EvaluationsBySubmission(ctx context.Context, submID string) ([]domain.Evaluation, error) {
	var out []domain.Evaluation
	err := s.evaluations.Scan().
		Filter("$ = ?", "submission_id", submID).
		All(ctx, &out)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DateCompleted.After(out[j].DateCompleted)
	})
	return out, nil
}
