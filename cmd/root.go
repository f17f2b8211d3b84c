package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jake-scott/came-domo/internal/pkg/logging"
)

var _rootCmdOpts struct {
	configFile  string
	debug       bool
	gatewayURL  string
	timeout     time.Duration
	sessionFile string
	layoutFile  string
	logLevel    string
	logLocation string
}

var rootCmd = &cobra.Command{
	Use:   "came-domo",
	Short: "Control lights, blinds, heating and scenarios of a CAME domotics gateway",
	Long: `came-domo sends one command to a CAME domotics gateway per invocation.

Device names are looked up in a layout cached from the gateway, run
'came-domo layout' once to fetch it, and again after changing the installation.`,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute runs the command line, the exit status is non-zero for usage and
// configuration errors only
func Execute() {
	err := rootCmd.Execute()
	logging.Close()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	viper.SetDefault("gateway.timeout", time.Second*10)
	viper.SetDefault("session.file", "~/.came-domo/session.json")
	viper.SetDefault("layout.file", "~/.came-domo/layout.json")
	viper.SetDefault("blinds.strict", false)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&_rootCmdOpts.configFile, "config", "", "config file (default ~/.came-domo.yaml)")
	pf.BoolVar(&_rootCmdOpts.debug, "debug", false, "enable debug logging")
	pf.StringVar(&_rootCmdOpts.gatewayURL, "gateway-url", "", "gateway command URL, eg. http://192.168.0.3/domo/")
	pf.DurationVar(&_rootCmdOpts.timeout, "timeout", time.Second*10, "maximum duration of one gateway request, eg. 5s")
	pf.StringVar(&_rootCmdOpts.sessionFile, "session-file", "~/.came-domo/session.json", "file to keep the gateway session in")
	pf.StringVar(&_rootCmdOpts.layoutFile, "layout-file", "~/.came-domo/layout.json", "file to cache the gateway layout in")
	pf.StringVar(&_rootCmdOpts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	pf.StringVar(&_rootCmdOpts.logLocation, "log-file", "stderr", "log to stderr, stdout or a file")

	errPanic(viper.GetViper().BindPFlag("gateway.url", pf.Lookup("gateway-url")))
	errPanic(viper.GetViper().BindPFlag("gateway.timeout", pf.Lookup("timeout")))
	errPanic(viper.GetViper().BindPFlag("session.file", pf.Lookup("session-file")))
	errPanic(viper.GetViper().BindPFlag("layout.file", pf.Lookup("layout-file")))
	errPanic(viper.GetViper().BindPFlag("logging.level", pf.Lookup("log-level")))
	errPanic(viper.GetViper().BindPFlag("logging.location", pf.Lookup("log-file")))
}

func errPanic(err error) {
	if err != nil {
		panic(err)
	}
}

func initConfig() error {
	if _rootCmdOpts.debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	viper.SetEnvPrefix("came_domo")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if _rootCmdOpts.configFile != "" {
		viper.SetConfigFile(expandPath(_rootCmdOpts.configFile))
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return fmt.Errorf("finding home directory: %v", err)
		}

		viper.AddConfigPath(home)
		viper.SetConfigName(".came-domo")
	}

	if err := viper.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !notFound || _rootCmdOpts.configFile != "" {
			return fmt.Errorf("reading config: %v", err)
		}
	}

	if err := logging.Configure(viper.GetViper()); err != nil {
		return fmt.Errorf("configuring logging: %v", err)
	}

	if f := viper.ConfigFileUsed(); f != "" {
		logging.Logger(nil).Debugf("using config file %s", f)
	}

	return nil
}

func expandPath(p string) string {
	expanded, err := homedir.Expand(p)
	if err != nil {
		return p
	}

	return expanded
}
