package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jake-scott/came-domo/internal/pkg/layout"
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario <name>",
	Short: "Run a scenario defined on the gateway",
	Args:  cobra.ExactArgs(1),

	PreRunE: requireGateway,

	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRunner(cmd, true)
		if err != nil {
			return err
		}

		return r.scenario(args[0])
	},
}

func init() {
	rootCmd.AddCommand(scenarioCmd)
}

func (r *runner) scenario(name string) error {
	id, err := r.resolve(layout.Scenarios, name)
	if err != nil {
		return err
	}

	return r.report(r.ctl.ActivateScenario(id))
}
