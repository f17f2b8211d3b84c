package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"

	stdlog "log"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

/*
 *  Provides diagnostics logging for the gateway client
 */

type ctxID int

const (
	commandKey ctxID = iota
)

// WithCommand returns a context which knows which CLI command is running
func WithCommand(ctx context.Context, command string) context.Context {
	return context.WithValue(ctx, commandKey, command)
}

type logger struct {
	logger  *logrus.Entry
	logFile io.WriteCloser
}

// The one singleton logger
var gLogger logger
var gInstanceID string

// Logger returns the global logger
func Logger(ctx context.Context) *logrus.Entry {
	if ctx != nil {
		if command, ok := ctx.Value(commandKey).(string); ok {
			return gLogger.logger.WithFields(
				logrus.Fields{
					"command": command,
				},
			)
		}
	}

	return gLogger.logger
}

func init() {
	// Viper defaults
	viper.SetDefault("logging.location", "stderr")
	viper.SetDefault("logging.format", "text")
	viper.SetDefault("logging.level", "warn")
	viper.SetDefault("logging.max-size", 10)
	viper.SetDefault("logging.max-backups", 3)
	viper.SetDefault("logging.compress", false)

	// The process instantiation ID, lets log lines of one cron run be grouped
	gInstanceID = uuid.New().String()

	gLogger.logger = logrus.WithFields(logrus.Fields{
		"pid":      os.Getpid(),
		"exe":      path.Base(os.Args[0]),
		"instance": gInstanceID,
	})
}

// Configure sets the log level and output location/format
func Configure(cfg *viper.Viper) error {
	// Configure system log location
	switch loc := cfg.GetString("logging.location"); loc {
	case "stdout":
		logrus.SetOutput(os.Stdout)
		gLogger.logger = logrus.WithFields(logrus.Fields{})
	case "stderr":
		logrus.SetOutput(os.Stderr)
		gLogger.logger = logrus.WithFields(logrus.Fields{})
	default:
		if loc == "" {
			return fmt.Errorf("empty log location")
		}

		gLogger.logger.Debugf("Switching system log to %s", loc)

		file := &lumberjack.Logger{
			Filename:   loc,
			MaxSize:    cfg.GetInt("logging.max-size"),
			MaxBackups: cfg.GetInt("logging.max-backups"),
			Compress:   cfg.GetBool("logging.compress"),
		}
		logrus.SetOutput(file)

		if gLogger.logFile != nil {
			gLogger.logFile.Close()
		}

		gLogger.logFile = file

		gLogger.logger = logrus.WithFields(logrus.Fields{
			"pid":      os.Getpid(),
			"exe":      path.Base(os.Args[0]),
			"instance": gInstanceID,
		})
	}

	// Obey the level setting in the config if not already in debug mode
	if !logrus.IsLevelEnabled(logrus.DebugLevel) {
		level := cfg.GetString("logging.level")
		val, err := logrus.ParseLevel(level)
		if err == nil {
			logrus.SetLevel(val)
		} else {
			return fmt.Errorf("bad log level: [%s]", level)
		}
	}

	format := cfg.GetString("logging.format")
	if format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	// Override the standard system logger
	stdlog.SetOutput(Logger(nil).WriterLevel(logrus.DebugLevel))

	return nil
}

// Close flushes and closes a log file opened by Configure
func Close() {
	if gLogger.logFile != nil {
		gLogger.logFile.Close()
		gLogger.logFile = nil
	}
}
