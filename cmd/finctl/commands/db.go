package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"finframe/internal/infrastructure/postgres"
	"finframe/internal/shared/config"
)

func dbCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database maintenance",
	}

	var printOnly bool
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Create missing tables and indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if printOnly {
				fmt.Fprint(cmd.OutOrStdout(), postgres.Schema())
				return nil
			}

			dbCfg, err := config.LoadDatabase()
			if err != nil {
				return err
			}
			db, err := postgres.New(dbCfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
	migrate.Flags().BoolVar(&printOnly, "print", false, "print the schema instead of applying it")

	cmd.AddCommand(migrate)
	return cmd
}
