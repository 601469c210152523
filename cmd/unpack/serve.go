// ABOUTME: serve subcommand: wires providers, config stores, engine and HTTP server
// ABOUTME: Runs until SIGINT/SIGTERM, then shuts the server down gracefully

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mauromedda/unpack/internal/config"
	"github.com/mauromedda/unpack/internal/engine"
	pilog "github.com/mauromedda/unpack/internal/log"
	"github.com/mauromedda/unpack/internal/personality"
	"github.com/mauromedda/unpack/internal/server"
	"github.com/mauromedda/unpack/internal/telemetry"
	"github.com/mauromedda/unpack/pkg/ai"
	"github.com/mauromedda/unpack/pkg/ai/provider/anthropic"
	"github.com/mauromedda/unpack/pkg/ai/provider/gemini"
)

type serveOptions struct {
	configPath  string
	profilesDir string
	addr        string
}

func newServeCmd() *cobra.Command {
	var opts serveOptions
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API on PORT (default 5001).

Environment:
  ANTHROPIC_API_KEY     key for the Claude models
  ANTHROPIC_BASE_URL    alternative Anthropic endpoint
  GEMINI_API_KEY        enables gemini-* models
  UNPACK_BUDGET_USD     log a warning at 80% and 100% of this upstream spend
  NODE_ENV/UNPACK_ENV   "production" restricts CORS to FRONTEND_URL`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts, config.ServerFromEnv(os.Getenv))
		},
	}
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Backend config YAML (hot-reloaded)")
	cmd.Flags().StringVar(&opts.profilesDir, "profiles", "", "Directory of extra personality profiles")
	cmd.Flags().StringVar(&opts.addr, "addr", "", "Listen address, overrides PORT")
	return cmd
}

func runServe(ctx context.Context, opts serveOptions, settings config.Server) error {
	if opts.addr != "" {
		settings.Addr = opts.addr
	}

	registry, err := buildRegistry(ctx, settings)
	if err != nil {
		return err
	}

	personas, err := personality.NewEngine(opts.profilesDir)
	if err != nil {
		return err
	}
	models, err := config.NewModelStore(allowedModels(registry), personas.Names(), config.ModelUpdate{})
	if err != nil {
		return fmt.Errorf("model config: %w", err)
	}

	store, err := openBackend(opts.configPath)
	if err != nil {
		return err
	}
	if opts.configPath != "" {
		w, err := config.WatchFile(ctx, opts.configPath, store)
		if err != nil {
			return fmt.Errorf("watch %s: %w", opts.configPath, err)
		}
		defer w.Stop()
	}

	usage := telemetry.NewTracker(settings.BudgetUSD, 80)
	defer func() {
		s := usage.Summary()
		pilog.Info("serve: %d upstream calls, %d in / %d out tokens, ~$%.4f",
			s.CallCount, s.TotalInputTokens, s.TotalOutputTokens, s.TotalCostUSD)
	}()

	eng := engine.New(telemetry.Meter(registry, usage), store, models, personas)
	cur := models.Current()
	pilog.Info("serve: model=%s personality=%s production=%t", cur.Model, cur.Personality, settings.Production)

	return server.New(eng, store, models, settings).ListenAndServe(ctx)
}

// buildRegistry always registers Anthropic so a missing key surfaces as an
// auth error on the first request. Gemini needs its key up front.
func buildRegistry(ctx context.Context, settings config.Server) (*ai.Registry, error) {
	if settings.AnthropicAPIKey == "" {
		pilog.Warn("serve: ANTHROPIC_API_KEY is not set; requests will fail with an auth error")
	}
	registry := ai.NewRegistry(anthropic.New(settings.AnthropicAPIKey, settings.AnthropicURL, settings.UpstreamTimeout))

	if settings.GeminiAPIKey != "" {
		p, err := gemini.New(ctx, settings.GeminiAPIKey, "", settings.UpstreamTimeout)
		if err != nil {
			return nil, fmt.Errorf("gemini provider: %w", err)
		}
		registry.Register(p)
	}
	return registry, nil
}

// allowedModels is the catalog restricted to APIs with a registered provider.
func allowedModels(registry *ai.Registry) []string {
	var ids []string
	for _, m := range ai.BuiltinModels() {
		if registry.Has(m.Api) {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

func openBackend(path string) (*config.Store, error) {
	b := config.DefaultBackend()
	if path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			return nil, err
		}
		b = loaded
	}
	store, err := config.NewStore(b)
	if err != nil {
		return nil, fmt.Errorf("backend config: %w", err)
	}
	return store, nil
}
