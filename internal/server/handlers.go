// ABOUTME: Handlers for the /api endpoints: health, models, backend config, configure, answering
// ABOUTME: Bodies are size-capped JSON; engine errors go through writeError

package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/mauromedda/unpack/internal/config"
	"github.com/mauromedda/unpack/internal/engine"
	"github.com/mauromedda/unpack/pkg/ai"
)

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "Server is running", Timestamp: s.now().UTC()})
}

type modelsResponse struct {
	AvailableModels map[string]ai.Model `json:"availableModels"`
	DefaultModel    string              `json:"defaultModel"`
	Parameters      config.Parameters   `json:"parameters"`
	Personalities   []string            `json:"personalities"`
}

func (s *Server) handleModels(w http.ResponseWriter, _ *http.Request) {
	available := make(map[string]ai.Model)
	for _, id := range s.models.Models() {
		if m := ai.FindModel(id); m != nil {
			available[id] = *m
		}
	}
	cur := s.models.Current()
	writeJSON(w, http.StatusOK, modelsResponse{
		AvailableModels: available,
		DefaultModel:    cur.Model,
		Parameters:      cur.Parameters,
		Personalities:   s.models.Personalities(),
	})
}

func (s *Server) handleGetBackend(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Load().Backend)
}

type updateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Config  any    `json:"config,omitempty"`
	Current any    `json:"currentConfig,omitempty"`
}

func (s *Server) handleUpdateBackend(w http.ResponseWriter, r *http.Request) {
	patch, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid request body", Details: err.Error()})
		return
	}
	snap, err := s.store.MergeJSON(patch)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid backend configuration", Details: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, updateResponse{
		Success: true,
		Message: "Backend configuration updated",
		Config:  snap.Backend,
	})
}

type currentConfig struct {
	Model       string  `json:"model"`
	Personality string  `json:"personality"`
	MaxTokens   int     `json:"maxTokens"`
	Temperature float64 `json:"temperature"`
}

func (s *Server) handleConfigure(w http.ResponseWriter, r *http.Request) {
	var u config.ModelUpdate
	if !decode(w, r, &u) {
		return
	}
	cfg, err := s.models.Apply(u)
	if err != nil {
		writeError(w, r, err, msgProcess)
		return
	}
	writeJSON(w, http.StatusOK, updateResponse{
		Success: true,
		Message: "Configuration updated",
		Current: currentConfig{
			Model:       cfg.Model,
			Personality: cfg.Personality,
			MaxTokens:   cfg.Parameters.MaxTokens,
			Temperature: cfg.Parameters.Temperature,
		},
	})
}

func (s *Server) handleCheckAndRespond(w http.ResponseWriter, r *http.Request) {
	var req engine.CheckRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := s.engine.CheckAndRespond(r.Context(), req)
	if err != nil {
		writeError(w, r, err, msgProcess)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGenerateFinal(w http.ResponseWriter, r *http.Request) {
	var req engine.FinalRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := s.engine.GenerateFinal(r.Context(), req)
	if err != nil {
		writeError(w, r, err, msgGenerate)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// decode reads a JSON body into v, writing a 400 and returning false on failure.
// An empty body decodes as the zero value.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid request body", Details: err.Error()})
	return false
}
