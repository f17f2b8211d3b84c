package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jake-scott/came-domo/internal/pkg/domoapi"
)

var thermoCmd = &cobra.Command{
	Use:   "thermo {off|auto|jolly|man} [temp]",
	Short: "Set the thermoregulation mode",
	Long: `Set the thermoregulation mode of the heating zone.

Temperatures are in tenths of a degree Celsius, eg. 'thermo man 215'
for 21.5°C. 'man' needs one, the other modes accept one optionally.`,
	Args: cobra.RangeArgs(1, 2),

	PreRunE: requireGateway,

	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRunner(cmd, true)
		if err != nil {
			return err
		}

		return r.thermo(args)
	},
}

func init() {
	rootCmd.AddCommand(thermoCmd)
}

var thermoModes = map[string]domoapi.ThermoMode{
	"off":   domoapi.ThermoOff,
	"man":   domoapi.ThermoManual,
	"auto":  domoapi.ThermoAuto,
	"jolly": domoapi.ThermoJolly,
}

func (r *runner) thermo(args []string) error {
	mode, ok := thermoModes[args[0]]
	if !ok {
		return fmt.Errorf("unknown thermo mode %q, expected one of off, man, auto, jolly", args[0])
	}

	var setPoint *int
	if len(args) > 1 {
		temp, err := parseInt("temperature", args[1])
		if err != nil {
			return err
		}
		setPoint = &temp
	} else if mode == domoapi.ThermoManual {
		return fmt.Errorf("man needs a temperature in tenths of a degree, eg. 215")
	}

	id, err := r.layout.Thermostat()
	if err != nil {
		return err
	}

	return r.report(r.ctl.SetThermo(id, mode, setPoint))
}
