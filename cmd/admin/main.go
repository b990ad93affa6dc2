package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/gapeval/backend/app"
	"github.com/gapeval/backend/conf"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	var logLevel string
	var logFile string

	var rootCmd = &cobra.Command{
		Use:          "gapeval-admin",
		Short:        "Admin CLI for the evaluation backend",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initLogger(logLevel, logFile)
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level [debug, info, warn, error]")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr")

	rootCmd.AddCommand(newQuestionsCmd())
	rootCmd.AddCommand(newCategoryCmd())
	rootCmd.AddCommand(newTablesCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// withApp loads the configuration, builds the services and closes them
// after fn returns.
func withApp(ctx context.Context, fn func(a *app.App, cfg *conf.Config) error) error {
	cfg, err := conf.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(ctx); err != nil {
			log.Warn().Err(err).Msg("close app")
		}
	}()

	return fn(a, cfg)
}
