package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/modstudio/internal/app"
)

var (
	// Global flags
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "modstudio",
	Short: "Script and inspect undoable scene edits",
	Long: `modstudio runs Lua scripts against a scene document. Every edit is
recorded in an undo history that scripts can walk back and forth.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (.toml, .yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newApp builds the application from the global flags.
func newApp(cmd *cobra.Command) (*app.Application, error) {
	return app.New(app.Options{
		ConfigPath: configPath,
		LogLevel:   logLevel,
		Output:     cmd.OutOrStdout(),
		LogOutput:  cmd.ErrOrStderr(),
	})
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
