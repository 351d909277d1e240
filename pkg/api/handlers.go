package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/klangwerk/musegen/pkg/generator"
	"github.com/klangwerk/musegen/pkg/preset"
)

// generateRequest is the POST /v1/generate body. Preset and Prompt can
// be combined: the prompt is appended to the preset's fragments.
type generateRequest struct {
	Preset          string  `json:"preset,omitempty"`
	Prompt          string  `json:"prompt,omitempty"`
	NegativePrompt  string  `json:"negative_prompt,omitempty"`
	Model           string  `json:"model,omitempty"`
	Seed            int     `json:"seed,omitempty"`
	SampleCount     int     `json:"sample_count,omitempty"`
	DurationSeconds int     `json:"duration_seconds,omitempty"`
	Temperature     float64 `json:"temperature,omitempty"`
}

type clipResponse struct {
	Audio    string `json:"audio"` // base64
	MimeType string `json:"mime_type"`
	Seed     int    `json:"seed"`
}

type generateResponse struct {
	Clips []clipResponse `json:"clips"`
}

type seedResponse struct {
	Seeded []string `json:"seeded"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var body generateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	req, err := s.buildRequest(r, body)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	if req.Prompt == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("prompt or preset is required"))
		return
	}

	client, err := s.client(r.Context(), body.Model)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	clips, err := client.Generate(r.Context(), req)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	resp := generateResponse{Clips: make([]clipResponse, len(clips))}
	for i, c := range clips {
		resp.Clips[i] = clipResponse{
			Audio:    base64.StdEncoding.EncodeToString(c.Audio),
			MimeType: c.MimeType,
			Seed:     c.Seed,
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// buildRequest assembles the generation request from an optional preset
// plus the request body's overrides.
func (s *Server) buildRequest(r *http.Request, body generateRequest) (generator.Request, error) {
	var req generator.Request
	if body.Preset != "" {
		p, err := s.presets.Get(r.Context(), body.Preset)
		if err != nil {
			return req, fmt.Errorf("preset %q: %w", body.Preset, err)
		}
		req = p.Request(p.Prompt(body.Prompt))
	} else {
		req.Prompt = body.Prompt
	}

	if body.NegativePrompt != "" {
		req.NegativePrompt = body.NegativePrompt
	}
	if body.Temperature > 0 {
		req.Temperature = body.Temperature
	}
	if body.DurationSeconds > 0 {
		req.DurationSeconds = body.DurationSeconds
	}
	req.Seed = body.Seed
	req.SampleCount = body.SampleCount
	return req, nil
}

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	list, err := s.presets.List(r.Context())
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	if list == nil {
		list = []preset.Metadata{}
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetPreset(w http.ResponseWriter, r *http.Request) {
	p, err := s.presets.Get(r.Context(), r.PathValue("name"))
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleSavePreset(w http.ResponseWriter, r *http.Request) {
	var p preset.Preset
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	// The path is authoritative for the name.
	p.Name = r.PathValue("name")

	if err := p.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.presets.Save(r.Context(), p); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, preset.MetadataOf(p))
}

func (s *Server) handleDeletePreset(w http.ResponseWriter, r *http.Request) {
	if err := s.presets.Delete(r.Context(), r.PathValue("name")); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSeedPresets(w http.ResponseWriter, r *http.Request) {
	seeded, err := s.presets.Seed(r.Context())
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	if seeded == nil {
		seeded = []string{}
	}
	s.writeJSON(w, http.StatusOK, seedResponse{Seeded: seeded})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var apiErr *generator.APIError
	switch {
	case errors.Is(err, preset.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, generator.ErrInvalidConfig):
		return http.StatusBadRequest
	case errors.Is(err, generator.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.As(err, &apiErr):
		if apiErr.ErrorClass == generator.ErrorClassRateLimit {
			return http.StatusTooManyRequests
		}
		if apiErr.ErrorClass == generator.ErrorClassClient {
			return http.StatusBadRequest
		}
		return http.StatusBadGateway
	case errors.Is(err, generator.ErrRetryExhausted):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("Failed to write response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= 500 {
		s.logger.Error().Err(err).Int("status_code", status).Msg("Request failed")
	} else {
		s.logger.Debug().Err(err).Int("status_code", status).Msg("Request rejected")
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}
