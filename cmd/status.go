package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jake-scott/came-domo/internal/pkg/domoapi"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the pending status indications of the gateway",
	Args:  cobra.NoArgs,

	PreRunE: requireGateway,

	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRunner(cmd, false)
		if err != nil {
			return err
		}

		return r.status(time.Now)
	},
}

var sicuEventsCmd = &cobra.Command{
	Use:   "sicu_events",
	Short: "Print the alarm system event list",
	Args:  cobra.NoArgs,

	PreRunE: requireGateway,

	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRunner(cmd, false)
		if err != nil {
			return err
		}

		return r.sicuEvents()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(sicuEventsCmd)
}

func (r *runner) status(now func() time.Time) error {
	events, err := r.ctl.Status()
	if err != nil {
		return r.report(err)
	}

	for _, e := range events {
		r.printStatusEvent(e, now().Format("Mon 15:04:05"))
	}

	return nil
}

func (r *runner) printStatusEvent(e domoapi.StatusEvent, stamp string) {
	fmt.Fprintf(r.out, "cmd_name: %s\n", e.CmdName)

	if !e.Security() {
		return
	}

	switch {
	case e.CmdName == "sicu_input_status_ind" && e.Status != nil:
		fmt.Fprintf(r.out, "=== %s %s %d === %s\n", e.CmdName, e.Name, *e.Status, stamp)
	case e.CmdName == "sicu_central_status_ind" && e.Status != nil:
		fmt.Fprintf(r.out, "=== %s %d === %s\n", e.CmdName, *e.Status, stamp)
	default:
		if e.Status != nil {
			fmt.Fprintf(r.out, "=== %s %d === %s\n", e.CmdName, *e.Status, stamp)
		} else {
			fmt.Fprintln(r.out, "No status in json.")
		}

		fmt.Fprintln(r.out, domoapi.Pretty(e.Raw))
	}
}

func (r *runner) sicuEvents() error {
	resp, err := r.ctl.SicuEvents()
	if resp != nil {
		fmt.Fprintln(r.out, resp.Indent())
	}

	return r.report(err)
}
