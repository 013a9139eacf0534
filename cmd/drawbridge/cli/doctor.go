package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/datalab/drawbridge/internal/config"
	"github.com/datalab/drawbridge/internal/doctor"
	"github.com/datalab/drawbridge/internal/integration"
	"github.com/datalab/drawbridge/internal/ui"
	"github.com/datalab/drawbridge/internal/vault"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose broker configuration and vault connectivity",
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	reg := integration.Parse(cfg.Integrations)

	r := doctor.NewRegistry()
	r.Register(&doctor.FlowsSection{Cfg: cfg})
	r.Register(&doctor.IntegrationsSection{Registry: reg})
	r.Register(&doctor.VaultSection{
		Vault:    vault.NewClient(cfg),
		Registry: reg,
		Enabled:  cfg.UserTokenPresent(),
	})

	for _, s := range r.Sections() {
		ui.Section(s.Name())
		if err := s.Print(os.Stdout); err != nil {
			ui.Errorf("%s: %v", s.Name(), err)
		}
	}
	return nil
}
