package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/datalab/drawbridge/internal/audit"
	"github.com/datalab/drawbridge/internal/config"
	"github.com/datalab/drawbridge/internal/ui"
)

var auditLimit int

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show recent broker events",
	RunE:  showAudit,
}

func init() {
	auditCmd.Flags().IntVarP(&auditLimit, "limit", "n", 20, "number of events to show")
	rootCmd.AddCommand(auditCmd)
}

func showAudit(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if cfg.AuditDB == "" {
		ui.Hint("Audit recording is disabled. Set " + config.EnvAuditDB + " to enable it.")
		return nil
	}

	store, err := audit.Open(cfg.AuditDB)
	if err != nil {
		return err
	}
	defer store.Close()

	events, err := store.Recent(auditLimit)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Println("no events recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tKIND\tTARGET\tDETAIL")
	for _, e := range events {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			e.Time.Local().Format(time.TimeOnly), e.Kind, e.Target, e.Detail)
	}
	return w.Flush()
}
