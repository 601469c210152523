// ABOUTME: Shared options for the auxiliary generators (model choice, randomness)
// ABOUTME: Both generators recover from upstream failure locally and never return an error

package generate

import (
	"math/rand/v2"

	"github.com/mauromedda/unpack/pkg/ai"
)

// Option configures a generator.
type Option func(*options)

type options struct {
	model string
	intn  func(n int) int
}

func defaultOptions() options {
	return options{
		model: ai.DefaultModelID,
		intn:  rand.IntN,
	}
}

// WithModel overrides the model used for auxiliary calls (default: the fast default model).
func WithModel(id string) Option {
	return func(o *options) {
		if id != "" {
			o.model = id
		}
	}
}

// WithIntn replaces the random source used to pick the question count.
// intn(n) must return a value in [0, n).
func WithIntn(intn func(n int) int) Option {
	return func(o *options) {
		if intn != nil {
			o.intn = intn
		}
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
