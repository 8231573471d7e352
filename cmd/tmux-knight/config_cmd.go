package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/tmux-knight/internal/config"
)

var configOpts struct {
	path bool
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as TOML",
	Long: `Print the configuration tmux-knight would run with: the config file
merged over the built-in defaults. Use --path to print the location of the
config file instead.`,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().BoolVar(&configOpts.path, "path", false,
		"Print the config file path instead of its contents")
}

func runConfig(cmd *cobra.Command, args []string) error {
	if configOpts.path {
		path := globalOpts.configPath
		if path == "" {
			var err error
			if path, err = config.ConfigPath(); err != nil {
				return err
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	}

	data, err := cfg.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
