package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dshills/modstudio/internal/config"
)

var configFormat string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration after applying defaults, the config file and
MODSTUDIO_* environment variables.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}

		out := cmd.OutOrStdout()
		switch configFormat {
		case "toml":
			return config.Encode(out, cfg)
		case "yaml":
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(cfg)
		default:
			return fmt.Errorf("unknown format %q", configFormat)
		}
	},
}

func init() {
	configCmd.Flags().StringVarP(&configFormat, "format", "f", "toml", "Output format (toml, yaml)")
	rootCmd.AddCommand(configCmd)
}
