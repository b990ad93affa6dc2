package main

import (
	"fmt"

	"github.com/gapeval/backend/conf"
	"github.com/gapeval/backend/docstore/ddbstore"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newTablesCmd() *cobra.Command {
	var tablesCmd = &cobra.Command{
		Use:   "tables",
		Short: "Manage DynamoDB tables",
	}

	var createCmd = &cobra.Command{
		Use:   "create",
		Short: "Create the DynamoDB tables that do not exist yet",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := conf.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.StoreDriver != conf.StoreDynamoDB {
				return fmt.Errorf("STORE_DRIVER is %q, tables are only used by %q", cfg.StoreDriver, conf.StoreDynamoDB)
			}

			store, err := ddbstore.Open(cmd.Context(), cfg.DynamoRegion, cfg.DynamoTablePrefix, cfg.DynamoEndpoint)
			if err != nil {
				return err
			}
			if err := store.CreateTables(cmd.Context()); err != nil {
				log.Error().Err(err).Msg("Error creating tables")
				return err
			}
			log.Info().
				Str("prefix", cfg.DynamoTablePrefix).
				Str("region", cfg.DynamoRegion).
				Msg("Tables ready")
			return nil
		},
	}

	tablesCmd.AddCommand(createCmd)
	return tablesCmd
}
