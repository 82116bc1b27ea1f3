package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/liamwh/veloxide/adapters/postgres"
	"github.com/liamwh/veloxide/cli/config"
	"github.com/liamwh/veloxide/cli/styles"
)

// NewMigrateCommand creates the migrate command: it creates the event log
// and view store schema in PostgreSQL.
func NewMigrateCommand(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema",
		Long:  `Creates the streams, events and views tables in the configured PostgreSQL database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configDir)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if cfg.Database.Driver != "postgres" {
				return fmt.Errorf("migrate requires the postgres driver, configured driver is %q", cfg.Database.Driver)
			}
			if problems := cfg.Validate(); len(problems) > 0 {
				for _, p := range problems {
					fmt.Println(styles.Fail("%s", p))
				}
				return fmt.Errorf("invalid configuration")
			}

			adapter, err := postgres.NewAdapter(cfg.Database.URL, postgres.WithSchema(cfg.Database.Schema))
			if err != nil {
				return err
			}
			defer func() { _ = adapter.Close() }()

			ctx := cmd.Context()
			fmt.Println(styles.Step("connecting to database"))
			if err := adapter.Ping(ctx); err != nil {
				return fmt.Errorf("failed to reach database: %w", err)
			}

			fmt.Println(styles.Step("creating schema %q", cfg.Database.Schema))
			if err := adapter.Initialize(ctx); err != nil {
				return err
			}

			fmt.Println(styles.Ok("schema ready"))
			return nil
		},
	}
}
