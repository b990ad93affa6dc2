package main

import (
	"fmt"

	"github.com/gapeval/backend/app"
	"github.com/gapeval/backend/catalog"
	"github.com/gapeval/backend/conf"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newQuestionsCmd() *cobra.Command {
	var questionsCmd = &cobra.Command{
		Use:   "questions",
		Short: "Inspect and seed the questionnaire",
	}

	var file string

	var seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Seed questions from a JSON or TOML file when none exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App, cfg *conf.Config) error {
				if file == "" {
					file = cfg.QuestionsFile
				}
				logger := log.With().Str("file", file).Logger()

				qs, err := catalog.LoadFile(file)
				if err != nil {
					logger.Error().Err(err).Msg("Error loading questions")
					return err
				}
				logger.Debug().Int("count", len(qs)).Msg("Loaded questions")

				n, err := a.QuestionSrvc.Seed(cmd.Context(), qs)
				if err != nil {
					return err
				}
				if n == 0 {
					logger.Info().Msg("Questions already present, nothing seeded")
					return nil
				}
				logger.Info().Int("count", n).Msg("Seeded questions")
				return nil
			})
		},
	}
	seedCmd.Flags().StringVarP(&file, "file", "f", "", "Questions file (defaults to QUESTIONS_FILE)")

	var listCmd = &cobra.Command{
		Use:   "list",
		Short: "List questions in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App, cfg *conf.Config) error {
				qs, err := a.QuestionSrvc.ListQuestions(cmd.Context())
				if err != nil {
					return err
				}
				for _, q := range qs {
					fmt.Fprintf(cmd.OutOrStdout(), "%3d  %-12s %s  %s\n", q.Order, q.Section, q.ID, q.EvaluatorStatement)
				}
				return nil
			})
		},
	}

	questionsCmd.AddCommand(seedCmd)
	questionsCmd.AddCommand(listCmd)
	return questionsCmd
}
