package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/CavaJ/ImagingInterview/internal/config"
	"github.com/CavaJ/ImagingInterview/internal/model"
)

// Version is the application version.
const Version = "0.1.0"

// rootOptions holds flags shared by every subcommand.
type rootOptions struct {
	configPath string
	dbPath     string
	logLevel   string
}

var opts rootOptions

var rootCmd = &cobra.Command{
	Use:           "camdedup",
	Short:         "Resolve near-duplicate CCTV frames per camera",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with a context cancelled on Ctrl+C or SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "TOML config file (default: camdedup.toml when present)")
	rootCmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite run ledger path (overrides db_path)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "debug, info, warning or error")

	rootCmd.AddCommand(newRunCmd(), newSurveyCmd(), newHistoryCmd())
}

// loadConfig layers the shared flags and an optional directory argument over
// the file and environment configuration.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if len(args) > 0 {
		cfg.ImageDirectory = args[0]
	}
	if cmd.Flags().Changed("db") {
		cfg.DatabasePath = opts.dbPath
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	return cfg, nil
}

// applyAction overrides the configured action with a --action flag value.
func applyAction(cfg *config.Config, value string) error {
	action, err := model.ParseAction(value)
	if err != nil {
		return err
	}
	cfg.Action = action
	return nil
}
