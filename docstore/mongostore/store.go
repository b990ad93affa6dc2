// Package mongostore keeps the document collections in MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gapeval/backend/docstore"
	"github.com/gapeval/backend/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	categoriesColl  = "categories"
	submissionsColl = "submissions"
	questionsColl   = "questions"
	evaluationsColl = "evaluations"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ docstore.Store = (*Store)(nil)

// Open connects to uri, pings the deployment and makes sure the unique
// indexes exist.
func Open(ctx context.Context, uri string, dbName string) (*Store, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	store := &Store{client: client, db: client.Database(dbName)}
	if err := store.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return store, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	indexes := map[string][]mongo.IndexModel{
		categoriesColl: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "evaluators", Value: 1}}},
		},
		questionsColl: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
		},
		submissionsColl: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "category.slug", Value: 1}}},
		},
		evaluationsColl: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "submission_id", Value: 1}, {Key: "date_completed", Value: -1}}},
		},
	}
	for coll, models := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", coll, err)
		}
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) coll(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter any) (T, error) {
	var v T
	err := coll.FindOne(ctx, filter).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return v, docstore.ErrNotFound
	}
	return v, err
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func insertErr(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return docstore.ErrDuplicate
	}
	return err
}

func (s *Store) InsertCategory(ctx context.Context, c domain.Category) error {
	_, err := s.coll(categoriesColl).InsertOne(ctx, c)
	return insertErr(err)
}

func (s *Store) CategoryBySlug(ctx context.Context, slug string) (domain.Category, error) {
	return findOne[domain.Category](ctx, s.coll(categoriesColl), bson.M{"slug": slug})
}

func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return findAll[domain.Category](ctx, s.coll(categoriesColl), bson.D{})
}

func (s *Store) HasEvaluator(ctx context.Context, address string) (bool, error) {
	n, err := s.coll(categoriesColl).CountDocuments(ctx,
		bson.M{"evaluators": address},
		options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) InsertQuestions(ctx context.Context, qs []domain.Question) error {
	if len(qs) == 0 {
		return nil
	}
	docs := make([]any, len(qs))
	for i, q := range qs {
		docs[i] = q
	}
	_, err := s.coll(questionsColl).InsertMany(ctx, docs)
	return insertErr(err)
}

func (s *Store) CountQuestions(ctx context.Context) (int, error) {
	n, err := s.coll(questionsColl).CountDocuments(ctx, bson.D{})
	return int(n), err
}

func (s *Store) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	return findAll[domain.Question](ctx, s.coll(questionsColl), bson.D{},
		options.Find().SetSort(bson.D{{Key: "order", Value: 1}}))
}

func (s *Store) QuestionsByIDs(ctx context.Context, ids []string) ([]domain.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return findAll[domain.Question](ctx, s.coll(questionsColl),
		bson.M{"id": bson.M{"$in": ids}},
		options.Find().SetSort(bson.D{{Key: "order", Value: 1}}))
}

func (s *Store) InsertSubmission(ctx context.Context, subm domain.Submission) error {
	_, err := s.coll(submissionsColl).InsertOne(ctx, subm)
	return insertErr(err)
}

func (s *Store) SubmissionByID(ctx context.Context, id string) (domain.Submission, error) {
	return findOne[domain.Submission](ctx, s.coll(submissionsColl), bson.M{"id": id})
}

func (s *Store) SubmissionsByCategory(ctx context.Context, slug string) ([]domain.Submission, error) {
	return findAll[domain.Submission](ctx, s.coll(submissionsColl), bson.M{"category.slug": slug})
}

func (s *Store) SetEvaluations(ctx context.Context, submID string, evals []domain.Evaluation, score float64) error {
	res, err := s.coll(submissionsColl).UpdateOne(ctx,
		bson.M{"id": submID},
		bson.M{"$set": bson.M{
			"evaluations": evals,
			"score":       score,
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

func (s *Store) InsertEvaluation(ctx context.Context, e domain.Evaluation) error {
	_, err := s.coll(evaluationsColl).InsertOne(ctx, e)
	return insertErr(err)
}

func (s *Store) EvaluationByID(ctx context.Context, id string) (domain.Evaluation, error) {
	return findOne[domain.Evaluation](ctx, s.coll(evaluationsColl), bson.M{"id": id})
}

func (s *Store) EvaluationsBySubmission(ctx context.Context, submID string) ([]domain.Evaluation, error) {
	return findAll[domain.Evaluation](ctx, s.coll(evaluationsColl),
		bson.M{"submission_id": submID},
		options.Find().SetSort(bson.D{{Key: "date_completed", Value: -1}}))
}
