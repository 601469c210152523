// ABOUTME: JSON responses and the error -> HTTP status mapping
// ABOUTME: Validation errors list the allowed values; unknown upstream failures carry details

package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mauromedda/unpack/internal/config"
	pilog "github.com/mauromedda/unpack/internal/log"
	"github.com/mauromedda/unpack/pkg/ai"
)

type errorBody struct {
	Error              string   `json:"error"`
	Details            string   `json:"details,omitempty"`
	Suggestion         string   `json:"suggestion,omitempty"`
	AvailableModels    []string `json:"availableModels,omitempty"`
	ValidPersonalities []string `json:"validPersonalities,omitempty"`
}

// Fixed messages for upstream failures.
const (
	msgAuth      = "Invalid API key. Please check your Anthropic API key."
	msgRateLimit = "Rate limit exceeded. Please try again later."
	msgMalformed = "Invalid request. Please check your input."
	msgProcess   = "Failed to process request. Please try again."
	msgGenerate  = "Failed to generate answer. Please try again."
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		pilog.Warn("server: encode response: %v", err)
	}
}

// writeError maps err to a status and body. fallback is the message used for
// unknown upstream failures.
func writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status, body := errorResponse(err, fallback)
	if status >= http.StatusInternalServerError {
		pilog.Error("server: %s %s id=%s: %v", r.Method, r.URL.Path, RequestID(r.Context()), err)
	} else {
		pilog.Warn("server: %s %s id=%s: %v", r.Method, r.URL.Path, RequestID(r.Context()), err)
	}
	writeJSON(w, status, body)
}

func errorResponse(err error, fallback string) (int, errorBody) {
	var ve *config.ValidationError
	if errors.As(err, &ve) {
		body := errorBody{Error: ve.Message, Suggestion: ve.Suggestion}
		switch ve.Field {
		case "model":
			body.AvailableModels = ve.Allowed
		case "personality":
			body.ValidPersonalities = ve.Allowed
		}
		return http.StatusBadRequest, body
	}

	ue := ai.AsUpstream(err)
	switch ue.Kind {
	case ai.KindAuth:
		return http.StatusUnauthorized, errorBody{Error: msgAuth}
	case ai.KindRateLimit:
		return http.StatusTooManyRequests, errorBody{Error: msgRateLimit}
	case ai.KindMalformedRequest:
		return http.StatusBadRequest, errorBody{Error: msgMalformed}
	default:
		return http.StatusInternalServerError, errorBody{Error: fallback, Details: err.Error()}
	}
}
