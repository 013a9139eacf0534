package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/datalab/drawbridge"
	"github.com/datalab/drawbridge/internal/target"
	"github.com/datalab/drawbridge/internal/ui"
)

var tokenCmd = &cobra.Command{
	Use:   "token <target>",
	Short: "Mint a delegated access token for a target",
	Long: `Mint a delegated access token for a target (bigquery, gcs, automl)
through the token vault and report its expiry. The token value itself is
not printed. Useful for checking whether the integration is wired up.`,
	Args: cobra.ExactArgs(1),
	RunE: mintToken,
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}

func mintToken(cmd *cobra.Command, args []string) error {
	tgt, err := target.Parse(args[0])
	if err != nil {
		return err
	}

	f := drawbridge.Init()
	if f == nil {
		ui.Error("drawbridge is not configured in this environment")
		return fmt.Errorf("broker disabled")
	}

	tok, err := f.Delegated(tgt).Token()
	if err != nil {
		return err
	}

	fmt.Printf("%s %s token minted, expires %s (in %s)\n",
		ui.OKTag(), tgt.Service(),
		tok.Expiry.Format(time.RFC3339),
		time.Until(tok.Expiry).Round(time.Second))
	return nil
}
