package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jake-scott/came-domo/internal/pkg/domoapi"
	"github.com/jake-scott/came-domo/internal/pkg/layout"
	"github.com/jake-scott/came-domo/internal/pkg/logging"
	"github.com/jake-scott/came-domo/internal/pkg/session"
)

func checkRequiredFlags(needFlags ...string) error {
	missingFlags := []string{}

	for _, f := range needFlags {
		if !viper.IsSet(f) || viper.GetString(f) == "" {
			missingFlags = append(missingFlags, f)
		}
	}

	if len(missingFlags) > 0 {
		itemPlural := "item"
		if len(missingFlags) > 1 {
			itemPlural = "items"
		}
		return fmt.Errorf("required config %s `%s` not set", itemPlural, strings.Join(missingFlags, "`, `"))
	}

	return nil
}

func requireGateway(cmd *cobra.Command, args []string) error {
	return checkRequiredFlags("gateway.url", "gateway.login", "gateway.password")
}

func newController(cmd *cobra.Command) *domoapi.Controller {
	store := session.NewFileStore(expandPath(viper.GetString("session.file")))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	live := domoapi.NewLiveClient(
		viper.GetString("gateway.url"),
		viper.GetString("gateway.login"),
		viper.GetString("gateway.password"),
	).WithContext(logging.WithCommand(ctx, cmd.Name())).
		WithTimeout(viper.GetDuration("gateway.timeout")).
		WithSessionStore(store)

	return domoapi.NewController(live).WithStrict(viper.GetBool("blinds.strict"))
}

func layoutStore() *layout.Store {
	return layout.NewStore(expandPath(viper.GetString("layout.file")))
}

func loadLayout() (*layout.Layout, error) {
	l, err := layoutStore().Load()
	if errors.Is(err, layout.ErrNotCached) {
		return nil, fmt.Errorf("%w, run `came-domo layout` to fetch it from the gateway", err)
	}

	return l, err
}

func configuredAliases() (layout.Aliases, error) {
	aliases := layout.Aliases{}
	if err := viper.UnmarshalKey("aliases", &aliases); err != nil {
		return nil, errors.Wrap(err, "reading aliases")
	}

	return aliases, nil
}

// runner carries what a device command needs, so the commands can be driven
// without the cobra and viper globals
type runner struct {
	ctl    *domoapi.Controller
	layout *layout.Layout
	out    io.Writer
	errOut io.Writer
}

func newRunner(cmd *cobra.Command, needLayout bool) (*runner, error) {
	r := &runner{
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
	}

	if needLayout {
		l, err := loadLayout()
		if err != nil {
			return nil, err
		}
		r.layout = l
	}

	r.ctl = newController(cmd)
	return r, nil
}

// report prints a failed device operation. The gateway is best effort, so
// these do not fail the command.
func (r *runner) report(err error) error {
	if err == nil {
		return nil
	}

	logging.Logger(nil).WithError(err).Debug("gateway command failed")
	fmt.Fprintf(r.errOut, "came-domo: %v\n", err)

	return nil
}

// resolve looks a name up in the layout, listing the known names on failure
func (r *runner) resolve(category layout.Category, name string) (int, error) {
	id, err := r.layout.Resolve(category, name)
	if err != nil {
		return 0, fmt.Errorf("%w (known %s: %s)", err, category, strings.Join(r.layout.Names(category), ", "))
	}

	return id, nil
}

func parseInt(what string, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number, got %q", what, s)
	}

	return v, nil
}
