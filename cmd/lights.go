package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jake-scott/came-domo/internal/pkg/domoapi"
	"github.com/jake-scott/came-domo/internal/pkg/layout"
)

var lightsCmd = &cobra.Command{
	Use:   "lights <name> {off|on|dim <percent>}",
	Short: "Switch or dim a light",
	Args:  cobra.RangeArgs(2, 3),

	PreRunE: requireGateway,

	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRunner(cmd, true)
		if err != nil {
			return err
		}

		return r.lights(args)
	},
}

func init() {
	rootCmd.AddCommand(lightsCmd)
}

func (r *runner) lights(args []string) error {
	id, err := r.resolve(layout.Lights, args[0])
	if err != nil {
		return err
	}

	action := args[1]
	if action != "dim" && len(args) > 2 {
		return fmt.Errorf("unexpected argument %q after %s", args[2], action)
	}

	switch action {
	case "off":
		return r.report(r.ctl.SetLight(id, domoapi.LightOff))
	case "on":
		return r.report(r.ctl.SetLight(id, domoapi.LightOn))
	case "dim":
		if len(args) < 3 {
			return fmt.Errorf("dim needs a percentage, eg. 60")
		}

		perc, err := parseInt("dimmer percentage", args[2])
		if err != nil {
			return err
		}
		err = r.ctl.DimLight(id, perc)
		if errors.Is(err, domoapi.ErrDimLevel) {
			return fmt.Errorf("dimmer percentage must be between 0 and 100, got %d", perc)
		}

		return r.report(err)
	}

	return fmt.Errorf("unknown lights action %q, expected one of off, on, dim", action)
}
