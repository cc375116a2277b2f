package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdamkota/asetledger/internal/api"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "asetledger", api.Version)
	},
}
