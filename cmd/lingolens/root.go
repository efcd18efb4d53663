package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abhyas01/lingolens"
)

var (
	// Global flags
	configPath string
	verbose    bool
	logFormat  string
	traceMode  string

	appVersion = "dev"
)

func newRootCommand(version, commit string) *cobra.Command {
	appVersion = version
	rootCmd := &cobra.Command{
		Use:   "lingolens",
		Short: "Place world-anchored text labels in a tracked scene",
		Long: `lingolens resolves a screen point into a world placement, lays a label out
into at most two short lines, renders it onto a yaw-billboarded plane, and
manages the set of live annotations.

Placement falls back through four tiers: detected planes, estimated planes,
feature points, and a fixed projection in front of the camera.`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console or json (overrides config)")
	rootCmd.PersistentFlags().StringVar(&traceMode, "trace", "none", "placement span exporter: none or stdout")

	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newLayoutCommand())
	rootCmd.AddCommand(newPreviewCommand())
	rootCmd.AddCommand(newScriptCommand())
	rootCmd.AddCommand(newConfigCommand())

	return rootCmd
}

// loadConfig reads --config, or returns the defaults when it is unset.
func loadConfig() (lingolens.Config, error) {
	if configPath == "" {
		return lingolens.DefaultConfig(), nil
	}
	return lingolens.LoadConfig(configPath)
}

// newLogger builds the process logger from cfg and the global flags.
func newLogger(cfg lingolens.Config) zerolog.Logger {
	lc := cfg.Log
	if verbose {
		lc.Level = "debug"
	}
	if logFormat != "" {
		lc.Format = logFormat
	}
	return lingolens.NewLogger(lc, os.Stderr)
}
