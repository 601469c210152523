// ABOUTME: chat subcommand: terminal client for a running unpack server
// ABOUTME: Checks the server is reachable, then runs the Bubble Tea chat over a session controller

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mauromedda/unpack/internal/client"
	"github.com/mauromedda/unpack/internal/engine"
	"github.com/mauromedda/unpack/internal/mode/interactive"
	"github.com/mauromedda/unpack/internal/session"
)

type chatOptions struct {
	server      string
	timeout     time.Duration
	model       string
	personality string
	style       string
}

func newChatCmd() *cobra.Command {
	var opts chatOptions
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with a running server in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
				return errors.New("chat needs an interactive terminal")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runChat(ctx, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.server, "server", "s", "http://localhost:5001", "Server base URL")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 90*time.Second, "Per-request timeout")
	cmd.Flags().StringVarP(&opts.model, "model", "m", "", "Model override for every request")
	cmd.Flags().StringVarP(&opts.personality, "personality", "p", "", "Personality override for every request")
	cmd.Flags().StringVar(&opts.style, "style", "", "Markdown style (dark, light, notty); default picks from the terminal")
	return cmd
}

func runChat(ctx context.Context, opts chatOptions) error {
	c := client.New(opts.server, opts.timeout)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := c.Health(pingCtx); err != nil {
		return fmt.Errorf("server %s is not reachable: %w", opts.server, err)
	}

	ctrl := session.NewController(c, session.WithOverrides(chatOverrides(opts)))
	return interactive.Run(ctx, ctrl,
		interactive.Options{Server: opts.server, MarkdownStyle: opts.style},
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
}

func chatOverrides(opts chatOptions) engine.Overrides {
	var o engine.Overrides
	if opts.model != "" {
		o.Model = &opts.model
	}
	if opts.personality != "" {
		o.Personality = &opts.personality
	}
	return o
}
