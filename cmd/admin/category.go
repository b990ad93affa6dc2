package main

import (
	"fmt"
	"strings"

	"github.com/gapeval/backend/app"
	"github.com/gapeval/backend/category"
	"github.com/gapeval/backend/conf"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newCategoryCmd() *cobra.Command {
	var categoryCmd = &cobra.Command{
		Use:   "category",
		Short: "Manage categories and their evaluators",
	}

	var name string
	var slug string
	var description string
	var evaluators []string

	var createCmd = &cobra.Command{
		Use:   "create",
		Short: "Create a category",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App, cfg *conf.Config) error {
				params := category.CreateCategoryParams{
					Name:       name,
					Slug:       slug,
					Evaluators: evaluators,
				}
				if cmd.Flags().Changed("description") {
					params.Description = &description
				}

				c, err := a.CategorySrvc.CreateCategory(cmd.Context(), params)
				if err != nil {
					log.Error().Err(err).Str("slug", slug).Msg("Error creating category")
					return err
				}
				log.Info().
					Str("id", c.ID).
					Str("slug", c.Slug).
					Int("evaluators", len(c.Evaluators)).
					Msg("Created category")
				return nil
			})
		},
	}
	createCmd.Flags().StringVarP(&name, "name", "n", "", "Category name (required)")
	createCmd.Flags().StringVarP(&slug, "slug", "s", "", "URL slug, lowercase words joined by dashes (required)")
	createCmd.Flags().StringVarP(&description, "description", "d", "", "Category description")
	createCmd.Flags().StringSliceVarP(&evaluators, "evaluator", "e", nil, "Evaluator wallet address (repeatable)")
	createCmd.MarkFlagRequired("name")
	createCmd.MarkFlagRequired("slug")

	var listCmd = &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App, cfg *conf.Config) error {
				cs, err := a.CategorySrvc.ListCategories(cmd.Context())
				if err != nil {
					return err
				}
				for _, c := range cs {
					fmt.Fprintf(cmd.OutOrStdout(), "%-20s %-30s %s\n", c.Slug, c.Name, strings.Join(c.Evaluators, ","))
				}
				return nil
			})
		},
	}

	categoryCmd.AddCommand(createCmd)
	categoryCmd.AddCommand(listCmd)
	return categoryCmd
}
