package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jake-scott/came-domo/internal/pkg/domoapi"
	"github.com/jake-scott/came-domo/internal/pkg/layout"
)

var _blindsCmdOpts struct {
	strict bool
}

var blindsCmd = &cobra.Command{
	Use:     "blinds <name> {stop|up|down|angle <seconds>|test}",
	Aliases: []string{"volets"},
	Short:   "Move a window blind",
	Long: `Move a window blind up, down or stop it.

'angle' closes the blind and opens it again for the given number of
seconds (eg. 0.2) to set the slat tilt. 'test' runs the tilt sequence
for a range of durations to help picking one.`,
	Args: cobra.RangeArgs(2, 3),

	PreRunE: requireGateway,

	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRunner(cmd, true)
		if err != nil {
			return err
		}

		return r.blinds(args)
	},
}

func init() {
	blindsCmd.Flags().BoolVar(&_blindsCmdOpts.strict, "strict", false, "stop a multi-step sequence at the first failed command")
	errPanic(viper.GetViper().BindPFlag("blinds.strict", blindsCmd.Flags().Lookup("strict")))

	rootCmd.AddCommand(blindsCmd)
}

func (r *runner) blinds(args []string) error {
	id, err := r.resolve(layout.Blinds, args[0])
	if err != nil {
		return err
	}

	action := args[1]
	if action != "angle" && len(args) > 2 {
		return fmt.Errorf("unexpected argument %q after %s", args[2], action)
	}

	switch action {
	case "stop":
		return r.report(r.ctl.MoveBlind(id, domoapi.OpeningStop))
	case "up":
		return r.report(r.ctl.MoveBlind(id, domoapi.OpeningUp))
	case "down":
		return r.report(r.ctl.MoveBlind(id, domoapi.OpeningDown))
	case "angle":
		if len(args) < 3 {
			return fmt.Errorf("angle needs a duration in seconds, eg. 0.2")
		}

		angle, err := strconv.ParseFloat(args[2], 64)
		if err != nil || angle < 0 {
			return fmt.Errorf("angle must be a positive number of seconds, got %q", args[2])
		}

		return r.report(r.ctl.SetBlindAngle(id, angle))
	case "test":
		return r.report(r.ctl.CalibrateBlind(id, domoapi.CalibrationAngles, func(angle float64) {
			fmt.Fprintf(r.out, "angle %v\n", angle)
		}))
	}

	return fmt.Errorf("unknown blinds action %q, expected one of stop, up, down, angle, test", action)
}
