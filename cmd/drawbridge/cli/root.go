package cli

import (
	"github.com/spf13/cobra"

	"github.com/datalab/drawbridge/internal/log"
)

var (
	verbose bool
	jsonOut bool
)

var rootCmd = &cobra.Command{
	Use:   "drawbridge",
	Short: "Drawbridge - credential broker for hosted notebook kernels",
	Long: `Drawbridge brokers access from notebook code to cloud data services.
Per client construction it routes through the shared public data proxy,
mints a short-lived delegated token for the signed-in user, or defers to
credentials the caller supplied.

This CLI inspects and exercises the broker configuration the hosting
platform provisioned for this kernel.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.Init(log.Options{Verbose: verbose, JSONFormat: jsonOut})
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output logs in JSON format")
}
