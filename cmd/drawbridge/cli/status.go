package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datalab/drawbridge/internal/config"
	"github.com/datalab/drawbridge/internal/integration"
	"github.com/datalab/drawbridge/internal/target"
	"github.com/datalab/drawbridge/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show broker configuration and enabled integrations",
	RunE:  showStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func showStatus(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	reg := integration.Parse(cfg.Integrations)

	ui.Section("Flows")
	flagLine("public data proxy", cfg.ProxyEnabled())
	flagLine("delegated user tokens", cfg.UserTokenPresent())

	ui.Section("Integrations")
	for _, tgt := range target.All() {
		flagLine(tgt.Service(), reg.Has(tgt))
	}

	ui.Section("Projects")
	fmt.Printf("  default: %s\n", orNone(cfg.Project))
	fmt.Printf("  public proxy: %s\n", orNone(cfg.ProxyProject))

	if cfg.AuditDB != "" {
		ui.Section("Audit")
		fmt.Printf("  database: %s\n", cfg.AuditDB)
	}
	return nil
}

func flagLine(name string, on bool) {
	tag := ui.FailTag()
	if on {
		tag = ui.OKTag()
	}
	fmt.Printf("  %s %s\n", tag, name)
}

func orNone(s string) string {
	if s == "" {
		return ui.Dim("(none)")
	}
	return s
}
