package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vietddude/nodewatch/internal/core/domain"
)

var envsCmd = &cobra.Command{
	Use:   "envs",
	Short: "List environments with their monitored and base host counts",
	Run:   runEnvs,
}

func init() {
	rootCmd.AddCommand(envsCmd)
}

func runEnvs(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "ENVIRONMENT\tID\tMONITORED\tBASE\tPEER DISCOVERY")

	for _, env := range domain.Environments() {
		monitored := len(cfg.MonitoredHosts(env.ID))
		base, discovery := "-", "-"
		if envCfg, err := cfg.LoadEnvironment(env.ID); err == nil {
			base = fmt.Sprint(len(envCfg.BaseHosts))
			discovery = fmt.Sprint(envCfg.Peers.Discover)
		} else if monitored > 0 {
			base = "missing"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", env.Name, env.ID, monitored, base, discovery)
	}
	_ = w.Flush()
}
