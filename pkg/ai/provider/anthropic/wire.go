// ABOUTME: Messages API wire types with hand-written easyjson codecs (zero-reflection encode/decode)
// ABOUTME: Only the fields the generator reads are decoded; everything else is skipped

package anthropic

import (
	"strings"

	"github.com/mailru/easyjson/jlexer"
	"github.com/mailru/easyjson/jwriter"

	"github.com/mauromedda/unpack/pkg/ai"
)

type message struct {
	Role    string
	Content string
}

// messagesRequest is the POST /v1/messages body.
type messagesRequest struct {
	Model       string
	MaxTokens   int
	Temperature float64
	System      string
	Messages    []message
}

// MarshalEasyJSON implements easyjson.Marshaler.
func (r messagesRequest) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"model":`)
	w.String(r.Model)
	w.RawString(`,"max_tokens":`)
	w.Int(r.MaxTokens)
	w.RawString(`,"temperature":`)
	w.Float64(r.Temperature)
	if r.System != "" {
		w.RawString(`,"system":`)
		w.String(r.System)
	}
	w.RawString(`,"messages":[`)
	for i, m := range r.Messages {
		if i > 0 {
			w.RawByte(',')
		}
		w.RawString(`{"role":`)
		w.String(m.Role)
		w.RawString(`,"content":`)
		w.String(m.Content)
		w.RawByte('}')
	}
	w.RawString(`]}`)
}

type contentBlock struct {
	Type string
	Text string
}

// messagesResponse is the subset of a Messages API response we use.
type messagesResponse struct {
	Model      string
	StopReason string
	Content    []contentBlock
	Usage      ai.Usage
}

// text joins every text block; non-text blocks are ignored.
func (r *messagesResponse) text() string {
	var parts []string
	for _, b := range r.Content {
		if b.Type == "text" && b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "")
}

// UnmarshalEasyJSON implements easyjson.Unmarshaler.
func (r *messagesResponse) UnmarshalEasyJSON(in *jlexer.Lexer) {
	decodeObject(in, func(key string) {
		switch key {
		case "model":
			r.Model = in.String()
		case "stop_reason":
			r.StopReason = in.String()
		case "content":
			in.Delim('[')
			for !in.IsDelim(']') {
				var b contentBlock
				decodeObject(in, func(key string) {
					switch key {
					case "type":
						b.Type = in.String()
					case "text":
						b.Text = in.String()
					default:
						in.SkipRecursive()
					}
				})
				r.Content = append(r.Content, b)
				in.WantComma()
			}
			in.Delim(']')
		case "usage":
			decodeObject(in, func(key string) {
				switch key {
				case "input_tokens":
					r.Usage.InputTokens = in.Int()
				case "output_tokens":
					r.Usage.OutputTokens = in.Int()
				default:
					in.SkipRecursive()
				}
			})
		default:
			in.SkipRecursive()
		}
	})
}

// errorEnvelope is the {"type":"error","error":{...}} body of a failed call, flattened.
type errorEnvelope struct {
	Type    string
	Message string
}

// UnmarshalEasyJSON implements easyjson.Unmarshaler.
func (e *errorEnvelope) UnmarshalEasyJSON(in *jlexer.Lexer) {
	decodeObject(in, func(key string) {
		if key != "error" {
			in.SkipRecursive()
			return
		}
		decodeObject(in, func(key string) {
			switch key {
			case "type":
				e.Type = in.String()
			case "message":
				e.Message = in.String()
			default:
				in.SkipRecursive()
			}
		})
	})
}

// decodeObject walks one JSON object, calling field for every non-null member.
// A null object is consumed and ignored.
func decodeObject(in *jlexer.Lexer, field func(key string)) {
	if in.IsNull() {
		in.Skip()
		return
	}
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		if in.IsNull() {
			in.Skip()
		} else {
			field(key)
		}
		in.WantComma()
	}
	in.Delim('}')
}
