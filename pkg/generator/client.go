// Package generator provides the HTTP client for the cloud music
// generation backend, with quota gating, retry and error handling.
package generator

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for backend requests.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "musegen_backend_requests_total",
		Help: "Total backend generation requests by model and status",
	}, []string{"model", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "musegen_backend_request_duration_seconds",
		Help:    "Backend generation request duration in seconds by model",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
	}, []string{"model"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "musegen_backend_errors_total",
		Help: "Total backend errors by class",
	}, []string{"class"})
)

// Request describes a single generation call.
type Request struct {
	// Prompt is the assembled text prompt.
	Prompt string `json:"prompt"`

	// NegativePrompt lists qualities the output should avoid.
	NegativePrompt string `json:"negative_prompt,omitempty"`

	// Seed pins the generation for reproducibility (0 = backend choice).
	Seed int `json:"seed,omitempty"`

	// SampleCount is the number of clips to generate (default 1).
	SampleCount int `json:"sample_count,omitempty"`

	// DurationSeconds bounds the clip length (0 = backend default).
	DurationSeconds int `json:"duration_seconds,omitempty"`

	// Temperature controls output variability (0 = backend default).
	Temperature float64 `json:"temperature,omitempty"`
}

// Clip is one generated audio sample.
type Clip struct {
	Audio    []byte
	MimeType string
	Seed     int
}

// wire types for the backend JSON protocol.
type generateResponse struct {
	Clips []wireClip `json:"clips"`
}

type wireClip struct {
	Audio    string `json:"audio"` // base64
	MimeType string `json:"mime_type"`
	Seed     int    `json:"seed"`
}

// Client is the music generation backend client. Construction is
// comparatively expensive (config validation, connection pool); callers
// are expected to reuse clients via cache.InstanceCache rather than
// constructing one per request.
type Client struct {
	httpClient *http.Client
	config     Config
	retry      RetryConfig
	logger     zerolog.Logger
}

// New creates a new generation client from cfg. Defaults are applied
// before validation; the returned client is safe for concurrent use.
func New(cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := log.With().
		Str("component", "generator").
		Str("model", cfg.Model).
		Logger()

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config: cfg,
		retry:  DefaultRetryConfig(),
		logger: logger,
	}, nil
}

// Config returns the effective (defaulted) configuration.
func (c *Client) Config() Config {
	return c.config
}

// SetRetryConfig overrides the retry behaviour. Intended for tests
// and callers that need tighter backoff bounds.
func (c *Client) SetRetryConfig(rc RetryConfig) {
	c.retry = rc
}

// Close releases client resources.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// generateURL builds the model endpoint for the configured mode.
func (c *Client) generateURL() string {
	base := c.config.Endpoint
	if c.config.Mode == ModeProject {
		return fmt.Sprintf("%s/projects/%s/locations/%s/models/%s:generate",
			base, c.config.ProjectID, c.config.Location, c.config.Model)
	}
	return fmt.Sprintf("%s/models/%s:generate", base, c.config.Model)
}

// Generate performs one generation request and returns the produced
// clips. Quota gating, retry with backoff and error classification
// follow the backend's published limits.
func (c *Client) Generate(ctx context.Context, req Request) ([]Clip, error) {
	if req.Prompt == "" {
		return nil, fmt.Errorf("%w: prompt is required", ErrInvalidConfig)
	}

	model := c.config.Model
	startTime := time.Now()
	defer func() {
		requestDuration.WithLabelValues(model).Observe(time.Since(startTime).Seconds())
	}()

	// Gate on shared quota state before spending a request.
	if c.config.Quota != nil {
		allowed, err := c.config.Quota.ShouldAllowRequest(ctx)
		if err != nil {
			c.logger.Error().Err(err).Msg("Quota check failed")
			return nil, fmt.Errorf("quota check: %w", err)
		}
		if !allowed {
			c.logger.Warn().Msg("Request blocked by quota tracker")
			requestsTotal.WithLabelValues(model, "quota_blocked").Inc()
			return nil, ErrQuotaExceeded
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var out generateResponse
	retryErr := retryWithBackoff(ctx, c.retry, func() error {
		return c.doGenerate(ctx, body, &out)
	})
	if retryErr != nil {
		return nil, retryErr
	}

	clips := make([]Clip, 0, len(out.Clips))
	for i, wc := range out.Clips {
		audio, err := base64.StdEncoding.DecodeString(wc.Audio)
		if err != nil {
			return nil, fmt.Errorf("decode clip %d audio: %w", i, err)
		}
		clips = append(clips, Clip{
			Audio:    audio,
			MimeType: wc.MimeType,
			Seed:     wc.Seed,
		})
	}

	c.logger.Debug().
		Int("clips", len(clips)).
		Dur("duration", time.Since(startTime)).
		Msg("Generation complete")

	return clips, nil
}

// doGenerate performs a single HTTP attempt.
func (c *Client) doGenerate(ctx context.Context, body []byte, out *generateResponse) error {
	model := c.config.Model

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.generateURL(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.config.Mode == ModeAPIKey {
		httpReq.Header.Set("X-API-Key", c.config.APIKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error().Err(err).Msg("Backend request failed")
		errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		requestsTotal.WithLabelValues(model, "network_error").Inc()
		return &APIError{
			ErrorClass: ErrorClassNetwork,
			Message:    "request failed",
			Err:        err,
		}
	}
	defer resp.Body.Close()

	// Quota headers arrive on every response, including errors.
	if c.config.Quota != nil {
		if err := c.config.Quota.UpdateFromHeaders(ctx, resp.Header); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to update quota from headers")
		}
	}

	requestsTotal.WithLabelValues(model, fmt.Sprintf("%d", resp.StatusCode)).Inc()

	if resp.StatusCode >= 400 {
		errClass := classifyStatus(resp.StatusCode)
		errorsTotal.WithLabelValues(string(errClass)).Inc()

		msg := resp.Status
		if detail, err := io.ReadAll(io.LimitReader(resp.Body, 4096)); err == nil && len(detail) > 0 {
			msg = string(detail)
		}

		c.logger.Warn().
			Int("status", resp.StatusCode).
			Str("error_class", string(errClass)).
			Msg("Backend request error")

		return &APIError{
			StatusCode: resp.StatusCode,
			ErrorClass: errClass,
			Message:    msg,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
