package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hgserve/bundle2push/configuration"
	"github.com/hgserve/bundle2push/version"
)

// showVersion is set by the -v/--version flag.
var showVersion bool

// RootCmd is the base command for the resolver daemon.
var RootCmd = &cobra.Command{
	Use:   "bundle2resolverd",
	Short: "Push-bundle resolver daemon",
	Long:  "bundle2resolverd resolves Mercurial bundle2 push streams against a content-addressed blob repository.",
	Run: func(cmd *cobra.Command, args []string) {
		if showVersion {
			version.PrintVersion()
			return
		}
		cmd.Usage()
	},
}

// ServeCmd runs the resolver daemon against a configuration file.
var ServeCmd = &cobra.Command{
	Use:   "serve <config>",
	Short: "Start the resolver daemon",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(args[0])
	},
}

func init() {
	RootCmd.AddCommand(ServeCmd)
	RootCmd.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "show the version and exit")
}

// errNoTransport is returned by serve when no Transport has been wired in.
// This daemon implements the resolver engine only; a concrete listener
// that speaks the Mercurial wire protocol over SSH or HTTP is a
// deployment-specific concern layered on top, following the external wire
// codec boundary the resolver itself is built against.
var errNoTransport = errors.New("bundle2resolverd: no transport configured for this build")

func newTransport(config *configuration.Configuration) (Transport, error) {
	return nil, errNoTransport
}

func resolveConfiguration(path string) (*configuration.Configuration, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening configuration: %w", err)
	}
	defer f.Close()

	config, err := configuration.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return config, nil
}

func configureLogging(config *configuration.Configuration) {
	level, err := logrus.ParseLevel(config.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetReportCaller(config.Log.ReportCaller)

	switch config.Log.Formatter {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logrus.SetFormatter(&logrus.TextFormatter{})
	default:
		logrus.Warnf("unrecognized log formatter %q, using text", config.Log.Formatter)
		logrus.SetFormatter(&logrus.TextFormatter{})
	}
}
