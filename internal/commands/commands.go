// ABOUTME: Slash command registry and dispatch for the terminal chat
// ABOUTME: Commands: help, model, personality, tokens, status, exit

package commands

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/mauromedda/unpack/internal/config"
	"github.com/mauromedda/unpack/internal/engine"
	"github.com/mauromedda/unpack/pkg/ai"
)

// Command represents a slash command.
type Command struct {
	Name        string
	Usage       string
	Description string
	Execute     func(ctx *CommandContext, args string) (string, error)
}

// CommandContext gives commands access to chat state.
type CommandContext struct {
	Server       string
	Turns        int
	Overrides    engine.Overrides
	SetOverrides func(engine.Overrides)

	// ExitFn is nilable; /exit reports "not available" when nil.
	ExitFn func()
}

// Registry holds all registered slash commands.
type Registry struct {
	commands map[string]*Command
}

// NewRegistry creates a registry with all core commands registered.
func NewRegistry() *Registry {
	r := &Registry{commands: make(map[string]*Command)}
	r.registerCoreCommands()
	return r
}

// Get returns a command by name.
func (r *Registry) Get(name string) (*Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// List returns all commands sorted by name.
func (r *Registry) List() []*Command {
	result := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		result = append(result, cmd)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Dispatch parses a "/command args" input, looks up the command, and executes it.
func (r *Registry) Dispatch(ctx *CommandContext, input string) (string, error) {
	input = strings.TrimSpace(input)
	if !IsCommand(input) {
		return "", fmt.Errorf("not a command: %q", input)
	}

	name, args, _ := strings.Cut(input[1:], " ")
	cmd, ok := r.commands[name]
	if !ok {
		return "", fmt.Errorf("unknown command: /%s (try /help)", name)
	}
	return cmd.Execute(ctx, strings.TrimSpace(args))
}

// IsCommand returns true if input starts with '/'.
func IsCommand(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), "/")
}

func (r *Registry) registerCoreCommands() {
	core := []*Command{
		{
			Name:        "help",
			Description: "Show available commands",
			Execute: func(*CommandContext, string) (string, error) {
				var b strings.Builder
				b.WriteString("Commands:")
				for _, cmd := range r.List() {
					fmt.Fprintf(&b, "\n  /%s", cmd.Name)
					if cmd.Usage != "" {
						b.WriteString(" " + cmd.Usage)
					}
					b.WriteString(": " + cmd.Description)
				}
				return b.String(), nil
			},
		},
		{
			Name:        "model",
			Usage:       "[id|default]",
			Description: "Show or set the model for new prompts",
			Execute: func(ctx *CommandContext, args string) (string, error) {
				if args == "" {
					return "Model: " + orServer(ctx.Overrides.Model), nil
				}
				o := ctx.Overrides
				if args == "default" {
					o.Model = nil
				} else {
					if !slices.Contains(ai.ModelIDs(), args) {
						return "", fmt.Errorf("unknown model %q; available: %s", args, strings.Join(ai.ModelIDs(), ", "))
					}
					o.Model = &args
				}
				return set(ctx, o, "Model: "+orServer(o.Model))
			},
		},
		{
			Name:        "personality",
			Usage:       "[name|default]",
			Description: "Show or set the personality for new prompts",
			Execute: func(ctx *CommandContext, args string) (string, error) {
				if args == "" {
					return "Personality: " + orServer(ctx.Overrides.Personality), nil
				}
				o := ctx.Overrides
				if args == "default" {
					o.Personality = nil
				} else {
					o.Personality = &args
				}
				return set(ctx, o, "Personality: "+orServer(o.Personality))
			},
		},
		{
			Name:        "tokens",
			Usage:       "[n|default]",
			Description: "Show or set the answer token limit",
			Execute: func(ctx *CommandContext, args string) (string, error) {
				o := ctx.Overrides
				switch args {
				case "":
					return "Max tokens: " + tokensText(o.MaxTokens), nil
				case "default":
					o.MaxTokens = nil
				default:
					n, err := strconv.Atoi(args)
					if err != nil {
						return "", fmt.Errorf("max tokens must be a number: %q", args)
					}
					n = config.ClampMaxTokens(n)
					o.MaxTokens = &n
				}
				return set(ctx, o, "Max tokens: "+tokensText(o.MaxTokens))
			},
		},
		{
			Name:        "status",
			Description: "Show server and session settings",
			Execute: func(ctx *CommandContext, _ string) (string, error) {
				return fmt.Sprintf("Server:      %s\nTurns:       %d\nModel:       %s\nPersonality: %s\nMax tokens:  %s",
					ctx.Server, ctx.Turns,
					orServer(ctx.Overrides.Model), orServer(ctx.Overrides.Personality), tokensText(ctx.Overrides.MaxTokens),
				), nil
			},
		},
		{
			Name:        "exit",
			Description: "Exit the chat",
			Execute: func(ctx *CommandContext, _ string) (string, error) {
				if ctx.ExitFn == nil {
					return "Exit not available.", nil
				}
				ctx.ExitFn()
				return "Goodbye.", nil
			},
		},
	}

	for _, cmd := range core {
		r.commands[cmd.Name] = cmd
	}
}

func set(ctx *CommandContext, o engine.Overrides, msg string) (string, error) {
	if ctx.SetOverrides == nil {
		return "", fmt.Errorf("settings cannot be changed here")
	}
	ctx.SetOverrides(o)
	ctx.Overrides = o
	return msg, nil
}

func orServer(v *string) string {
	if v == nil {
		return "server default"
	}
	return *v
}

func tokensText(n *int) string {
	if n == nil {
		return "server default"
	}
	return strconv.Itoa(*n)
}
