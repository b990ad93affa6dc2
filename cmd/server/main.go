package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gapeval/backend/app"
	"github.com/gapeval/backend/conf"
	gapevalhttp "github.com/gapeval/backend/http"
	"github.com/gapeval/backend/logger"
	"github.com/go-chi/httplog/v2"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 10 * time.Second
	evictInterval   = time.Minute
)

func main() {
	cfg, err := conf.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	httpLogger, err := logger.New("gapeval", cfg.LogLevel, cfg.LogJSON)
	if err != nil {
		log.Fatalf("create logger: %v", err)
	}
	slog.SetDefault(httpLogger.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, httpLogger); err != nil {
		slog.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *conf.Config, httpLogger *httplog.Logger) error {
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			slog.Error("close app", slog.Any("error", err))
		}
	}()

	if err := a.SeedQuestions(ctx); err != nil {
		return err
	}

	httpServer := gapevalhttp.NewHttpServer(httpLogger, cfg.Origins,
		a.AuthSrvc, a.CategorySrvc, a.QuestionSrvc, a.SubmSrvc)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server",
			slog.String("address", cfg.HTTPAddr),
			slog.String("store", cfg.StoreDriver),
			slog.String("nonce_store", cfg.NonceStore))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		slog.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		ticker := time.NewTicker(evictInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if err := a.Nonces.Evict(gctx); err != nil {
					slog.Warn("evict nonces", slog.Any("error", err))
				}
			}
		}
	})

	return g.Wait()
}
