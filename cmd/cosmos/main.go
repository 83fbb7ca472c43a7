package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/cosmos/internal/config"
	"github.com/vango-dev/cosmos/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags.
var (
	configPath string
	verbose    bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cosmos",
		Short: "Preview components in isolation with fixtures",
		Long: `Cosmos renders components from fixture files.

Fixtures are YAML or JSON documents naming a component and the data
to render it with. Each fixture is rendered through a proxy chain:

  • a store proxy seeds a store from the "reduxState" fixture key
  • a state proxy seeds component local state from "state"

Run "cosmos serve" for a live preview server with websocket updates.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to cosmos.json (default: search from working directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		initCmd(),
		serveCmd(),
		renderCmd(),
		listCmd(),
		versionCmd(),
	)
	return rootCmd
}

// loadConfig reads --config when given, otherwise searches from the working
// directory and falls back to defaults.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.LoadFromWorkingDir()
}

// newLogger returns the CLI logger on stderr.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
