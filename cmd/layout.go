package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jake-scott/came-domo/internal/pkg/layout"
	"github.com/jake-scott/came-domo/internal/pkg/logging"
)

var _layoutCmdOpts struct {
	cached bool
}

var layoutCmd = &cobra.Command{
	Use:     "layout",
	Aliases: []string{"list"},
	Short:   "Fetch the device names and ids from the gateway and cache them",
	Long: `Fetch the lights, blinds, scenarios and thermoregulation zone from the
gateway and replace the cached layout with them.

Gateway names can be renamed in the config file:

  aliases:
    lights:
      Lampe sejour: living
    openings:
      Volet cuisine: kitchen`,
	Args: cobra.NoArgs,

	PreRunE: func(cmd *cobra.Command, args []string) error {
		if _layoutCmdOpts.cached {
			return nil
		}
		return requireGateway(cmd, args)
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		if _layoutCmdOpts.cached {
			l, err := loadLayout()
			if err != nil {
				return err
			}

			printLayout(cmd, l)
			return nil
		}

		aliases, err := configuredAliases()
		if err != nil {
			return err
		}

		r, err := newRunner(cmd, false)
		if err != nil {
			return err
		}

		return r.refreshLayout(layoutStore(), aliases)
	},
}

func init() {
	layoutCmd.Flags().BoolVar(&_layoutCmdOpts.cached, "cached", false, "print the cached layout without asking the gateway")

	rootCmd.AddCommand(layoutCmd)
}

func (r *runner) refreshLayout(store *layout.Store, aliases layout.Aliases) error {
	l, err := layout.Refresh(r.ctl, aliases)
	if err != nil {
		return r.report(err)
	}

	if err := store.Save(l); err != nil {
		return err
	}

	logging.Logger(nil).Infof("saved layout to %s", store.FileName())

	r.layout = l
	r.printLayout()
	return nil
}

func printLayout(cmd *cobra.Command, l *layout.Layout) {
	r := runner{layout: l, out: cmd.OutOrStdout()}
	r.printLayout()
}

func (r *runner) printLayout() {
	l := r.layout

	fmt.Fprintln(r.out, "Features:")
	for _, f := range l.Features {
		fmt.Fprintf(r.out, "\t%s\n", f)
	}

	if len(l.Scenarios) > 0 {
		fmt.Fprintln(r.out, "scenarios:")
		for _, n := range l.Names(layout.Scenarios) {
			fmt.Fprintf(r.out, "\t%s => %d\n", n, l.Scenarios[n])
		}
	}

	if len(l.Blinds) > 0 {
		fmt.Fprintln(r.out, "blinds:")
		for _, n := range l.Names(layout.Blinds) {
			b := l.Blinds[n]
			fmt.Fprintf(r.out, "\t%s => open %d, close %d\n", n, b.OpenActID, b.CloseActID)
		}
	}

	if l.Thermoregulation != nil {
		fmt.Fprintln(r.out, "thermoregulation:")
		fmt.Fprintf(r.out, "\tact_id: %d\n", *l.Thermoregulation)
	}

	if len(l.Lights) > 0 {
		fmt.Fprintln(r.out, "lights:")
		for _, n := range l.Names(layout.Lights) {
			fmt.Fprintf(r.out, "\t%s => %d\n", n, l.Lights[n])
		}
	}
}
