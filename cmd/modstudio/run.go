package main

import (
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <script.lua>",
	Short: "Execute a script and print the resulting document",
	Long: `Execute a Lua script against a new document, then print the document
and its undo history as YAML. A script that leaves a transaction open fails
and its pending changes are rolled back.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		if err := a.RunScript(ctx, args[0]); err != nil {
			return err
		}
		return writeYAML(cmd.OutOrStdout(), newReport(a))
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
