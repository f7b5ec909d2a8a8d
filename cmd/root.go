// Package cmd provides CLI commands for opacbridge.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/opacbridge/config"
	"github.com/lehigh-university-libraries/opacbridge/opac"
)

var configFile string

func setupLogger() {
	logLevel := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "INFO"
	}

	var level slog.Level
	switch logLevel {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN", "WARNING":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	logger := slog.New(handler)

	slog.SetDefault(logger)
}

var rootCmd = &cobra.Command{
	Use:   "opacbridge",
	Short: "Search vocabulary and catalogue backends for Goobi",
	Long: `opacbridge searches vocabulary and catalogue backends and maps the
matching record into a METS document for the Goobi workflow.

Catalogues, the plugin mapping configuration and the ruleset are read from
the config file (default: ~/.opacbridge/config.yaml, or $OPACBRIDGE_CONFIG).

Examples:
  opacbridge catalogues
  opacbridge search GND-Places gnd 4005728-8
  opacbridge search demo identifier PPN123 --format json
  opacbridge config show GND-Places --workflow Manuscripts
  opacbridge serve --addr :8080 --watch`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	setupLogger()
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ~/.opacbridge/config.yaml)")
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(cataloguesCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
}

func loadApp() (*config.App, error) {
	path := configFile
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return config.LoadApp(path)
}

func loadService() (*opac.Service, error) {
	app, err := loadApp()
	if err != nil {
		return nil, err
	}
	return opac.NewService(app)
}
