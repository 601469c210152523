// ABOUTME: HTTP server settings read from the environment
// ABOUTME: PORT, FRONTEND_URL, NODE_ENV/UNPACK_ENV and provider API keys

package config

import (
	"strconv"
	"strings"
	"time"
)

// Server holds listener, CORS and upstream settings.
type Server struct {
	Addr            string
	AllowedOrigins  []string // empty allows any origin
	Production      bool
	UpstreamTimeout time.Duration
	ShutdownTimeout time.Duration
	MaxConns        int
	BudgetUSD       float64 // upstream spend that triggers alerts; 0 disables
	AnthropicAPIKey string
	AnthropicURL    string
	GeminiAPIKey    string
}

// DefaultServer returns development settings on port 5001.
func DefaultServer() Server {
	return Server{
		Addr:            ":5001",
		UpstreamTimeout: 60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		MaxConns:        256,
	}
}

// ServerFromEnv overlays environment settings on DefaultServer. getenv is
// usually os.Getenv.
func ServerFromEnv(getenv func(string) string) Server {
	s := DefaultServer()

	if port := strings.TrimSpace(getenv("PORT")); port != "" {
		s.Addr = ":" + port
	}

	env := getenv("UNPACK_ENV")
	if env == "" {
		env = getenv("NODE_ENV")
	}
	s.Production = strings.EqualFold(env, "production")
	if s.Production {
		if origin := strings.TrimSpace(getenv("FRONTEND_URL")); origin != "" {
			s.AllowedOrigins = []string{origin}
		}
	}

	if v := getenv("UNPACK_UPSTREAM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			s.UpstreamTimeout = d
		}
	}
	if v := getenv("UNPACK_MAX_CONNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.MaxConns = n
		}
	}

	if v := getenv("UNPACK_BUDGET_USD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			s.BudgetUSD = f
		}
	}

	s.AnthropicAPIKey = getenv("ANTHROPIC_API_KEY")
	s.AnthropicURL = getenv("ANTHROPIC_BASE_URL")
	s.GeminiAPIKey = getenv("GEMINI_API_KEY")
	return s
}
