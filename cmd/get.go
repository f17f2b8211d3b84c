package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:       "get temp",
	Short:     "Read a value from the gateway",
	Args:      cobra.ExactValidArgs(1),
	ValidArgs: []string{"temp"},

	PreRunE: requireGateway,

	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRunner(cmd, false)
		if err != nil {
			return err
		}

		return r.getTemp()
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func (r *runner) getTemp() error {
	zone, err := r.ctl.ThermoZone()
	if err != nil {
		return r.report(err)
	}

	fmt.Fprintf(r.out, "act_id: %d\n", zone.ActID)
	fmt.Fprintf(r.out, "temp: %d (%.1f°C)\n", zone.Temp, float64(zone.Temp)/10)

	return nil
}
