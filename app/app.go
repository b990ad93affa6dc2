// Package app assembles the services of the evaluation backend from a
// configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/gapeval/backend/auth"
	"github.com/gapeval/backend/catalog"
	"github.com/gapeval/backend/category"
	"github.com/gapeval/backend/conf"
	"github.com/gapeval/backend/docstore"
	"github.com/gapeval/backend/docstore/ddbstore"
	"github.com/gapeval/backend/docstore/mongostore"
	"github.com/gapeval/backend/docstore/sqlitestore"
	"github.com/gapeval/backend/karma"
	"github.com/gapeval/backend/logger"
	"github.com/gapeval/backend/subm"
	"github.com/go-redis/redis/v8"
)

type App struct {
	Store        docstore.Store
	Nonces       auth.NonceStore
	AuthSrvc     *auth.AuthSrvc
	CategorySrvc *category.CategorySrvc
	QuestionSrvc *catalog.QuestionSrvc
	SubmSrvc     *subm.SubmSrvc

	cfg   *conf.Config
	redis *redis.Client
}

// OpenStore connects to the document store selected by STORE_DRIVER.
func OpenStore(ctx context.Context, cfg *conf.Config) (docstore.Store, error) {
	switch cfg.StoreDriver {
	case conf.StoreSQLite:
		return sqlitestore.Open(cfg.SQLitePath)
	case conf.StoreMongo:
		return mongostore.Open(ctx, cfg.MongoURL, cfg.DatabaseName)
	case conf.StoreDynamoDB:
		return ddbstore.Open(ctx, cfg.DynamoRegion, cfg.DynamoTablePrefix, cfg.DynamoEndpoint)
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

func openNonceStore(ctx context.Context, cfg *conf.Config) (auth.NonceStore, *redis.Client, error) {
	if cfg.NonceStore != conf.NonceStoreRedis {
		return auth.NewMemNonceStore(cfg.NonceTTL()), nil, nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("ping redis at %s: %w", cfg.RedisAddr, err)
	}
	return auth.NewRedisNonceStore(rdb, cfg.NonceTTL()), rdb, nil
}

// New validates the signing settings before it opens any connection, so a
// configuration error leaves nothing behind to close.
func New(ctx context.Context, cfg *conf.Config) (*App, error) {
	creds, err := auth.NewCredentialIssuer([]byte(cfg.SecretKey), cfg.Algorithm, cfg.TokenTTL())
	if err != nil {
		return nil, err
	}

	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}

	nonces, rdb, err := openNonceStore(ctx, cfg)
	if err != nil {
		_ = store.Close(ctx)
		return nil, err
	}

	var registry subm.ProjectFetcher
	if cfg.KarmaGapAPI != "" {
		registry = karma.NewCoalescingClient(karma.NewClient(cfg.KarmaGapAPI, cfg.KarmaGapTimeout))
	}

	categorySrvc := category.NewCategorySrvc(store)
	questionSrvc := catalog.NewQuestionSrvc(store)

	return &App{
		Store:        store,
		Nonces:       nonces,
		AuthSrvc:     auth.NewAuthSrvc(nonces, creds, categorySrvc),
		CategorySrvc: categorySrvc,
		QuestionSrvc: questionSrvc,
		SubmSrvc:     subm.NewSubmSrvc(store, categorySrvc, questionSrvc, registry, cfg.Weights()),
		cfg:          cfg,
		redis:        rdb,
	}, nil
}

// SeedQuestions loads QUESTIONS_FILE into an empty question collection.
// A missing file is not an error.
func (a *App) SeedQuestions(ctx context.Context) error {
	_, err := a.QuestionSrvc.SeedFile(ctx, a.cfg.QuestionsFile)
	if errors.Is(err, fs.ErrNotExist) {
		logger.FromContext(ctx).Warn("questions file not found, skipping seed", slog.String("path", a.cfg.QuestionsFile))
		return nil
	}
	return err
}

func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	errs = append(errs, a.Store.Close(ctx))
	return errors.Join(errs...)
}
