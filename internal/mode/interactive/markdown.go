// ABOUTME: Markdown renderer wrapper around glamour for final answers
// ABOUTME: Caches rendered results keyed by content hash + width

package interactive

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// markdownRenderer renders answers once per width. Only the Update/View
// goroutine touches it.
type markdownRenderer struct {
	style string
	cache map[string]string
}

func newMarkdownRenderer(style string) *markdownRenderer {
	return &markdownRenderer{style: style, cache: make(map[string]string)}
}

// Render returns md styled for the terminal, or md itself when glamour fails.
func (r *markdownRenderer) Render(md string, width int) string {
	if md == "" {
		return ""
	}
	key := cacheKey(md, width)
	if cached, ok := r.cache[key]; ok {
		return cached
	}

	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if r.style != "" {
		opts = append(opts, glamour.WithStandardStyle(r.style))
	} else {
		opts = append(opts, glamour.WithAutoStyle())
	}
	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return md
	}
	rendered, err := renderer.Render(md)
	if err != nil {
		return md
	}

	rendered = strings.Trim(rendered, "\n ")
	r.cache[key] = rendered
	return rendered
}

func cacheKey(content string, width int) string {
	h := sha256.Sum256([]byte(content))
	return fmt.Sprintf("%x:%d", h[:8], width)
}
