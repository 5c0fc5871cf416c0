package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"kenshidata/lib/telemetry"
)

var rootCmd = &cobra.Command{
	Use:   "kenshidata-cli",
	Short: "kenshidata-cli scrapes the Kenshi wiki into a sqlite database.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
}

var verbose *bool

func init() {
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
