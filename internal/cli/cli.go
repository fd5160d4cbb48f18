// Package cli holds the setup every suite-harness command shares: logging
// flags, configuration loading and the single top-level error handler.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/specvital/suite-harness/internal/config"
)

// Version is set with -ldflags at build time.
var Version = "devel"

var (
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number and exit.",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("%s version %s\n", cmd.Root().Name(), Version)
		},
	}

	logDebug   bool
	logLevel   string
	configPath string

	cfg    *config.Config
	logger = log.New()
)

// Config returns the configuration loaded before the command ran.
func Config() *config.Config {
	if cfg == nil {
		def := config.Default()
		return &def
	}
	return cfg
}

// Logger returns the logger configured from flags and configuration.
func Logger() log.FieldLogger {
	return logger
}

// Setup adds the shared flags and subcommands to main.
func Setup(main *cobra.Command) {
	main.AddCommand(versionCmd)
	main.SilenceErrors = true
	main.SilenceUsage = true

	main.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Set global log level (overrides log_level from the config).")
	main.PersistentFlags().BoolVarP(&logDebug, "debug", "d", false,
		"Alias for --log-level=debug")
	main.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to the config file (default "+config.FileName+" in the working directory).")

	WrapPreRun(main, func(cmd *cobra.Command, args []string) error {
		return start(cmd.ErrOrStderr())
	})
}

// Execute sets up main, runs it and exits. Errors are written to stderr and
// end the process with status 1.
func Execute(main *cobra.Command) {
	Setup(main)
	if err := main.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(0)
}

func start(stderr io.Writer) error {
	wd, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "getting working directory")
	}
	loaded, err := config.Load(configPath, wd)
	if err != nil {
		return err
	}

	switch {
	case logDebug:
		loaded.LogLevel = "debug"
	case logLevel != "":
		loaded.LogLevel = logLevel
	}
	level, err := log.ParseLevel(loaded.LogLevel)
	if err != nil {
		return errors.Wrap(err, "log level")
	}

	logger.SetOutput(stderr)
	logger.SetLevel(level)
	logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	cfg = loaded
	logger.WithField("level", level).Debug("started logging")
	return nil
}

type PreRunEFunc func(cmd *cobra.Command, args []string) error

// WrapPreRun runs f before root's own persistent pre-run hooks. Child
// commands that define their own pre-run must call it too, see
// github.com/spf13/cobra/issues/253.
func WrapPreRun(root *cobra.Command, f PreRunEFunc) {
	preRun, preRunE := root.PersistentPreRun, root.PersistentPreRunE
	root.PersistentPreRun, root.PersistentPreRunE = nil, nil

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := f(cmd, args); err != nil {
			return err
		}
		if preRun != nil {
			preRun(cmd, args)
		} else if preRunE != nil {
			return preRunE(cmd, args)
		}
		return nil
	}
}
