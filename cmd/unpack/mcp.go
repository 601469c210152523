// ABOUTME: mcp subcommand: serves the classifier tools over stdio
// ABOUTME: Logs go to stderr so stdout carries only protocol messages

package main

import (
	"github.com/spf13/cobra"

	"github.com/mauromedda/unpack/internal/config"
	"github.com/mauromedda/unpack/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the classifier as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openBackend(configPath)
			if err != nil {
				return err
			}
			if configPath != "" {
				w, err := config.WatchFile(cmd.Context(), configPath, store)
				if err != nil {
					return err
				}
				defer w.Stop()
			}
			return mcp.ServeStdio(mcp.New(store, version))
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Backend config YAML (hot-reloaded)")
	return cmd
}
