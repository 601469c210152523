// ABOUTME: config subcommand: prints the effective backend config as YAML
// ABOUTME: Useful as a starting point for a --config file

package main

import (
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective backend config as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openBackend(configPath)
			if err != nil {
				return err
			}
			data, err := store.Load().Backend.EncodeYAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Backend config YAML to merge over the defaults")
	return cmd
}
