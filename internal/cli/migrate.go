package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdamkota/asetledger/internal/infra/sqlite"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
}

// Opening the store applies pending migrations; this command exists so an
// operator can run them ahead of a deploy without starting the server.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := sqlite.Open(cfg.DB.Dir)
		if err != nil {
			return err
		}
		defer db.Close()
		fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
		return nil
	},
}
