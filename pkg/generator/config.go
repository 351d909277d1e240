package generator

import (
	"fmt"
	"strings"
	"time"

	"github.com/klangwerk/musegen/pkg/quota"
)

// Mode selects how the client talks to the generation backend.
type Mode string

const (
	// ModeAPIKey authenticates with a static API key against the shared
	// backend endpoint.
	ModeAPIKey Mode = "apikey"

	// ModeProject routes requests through a project- and location-scoped
	// endpoint, as used by cloud deployments with ambient credentials.
	ModeProject Mode = "project"
)

// Defaults for optional configuration fields.
const (
	DefaultEndpoint = "https://muse.klangwerk.dev/v1"
	DefaultModel    = "muse-2.0"
	DefaultLocation = "us-central1"
	DefaultTimeout  = 120 * time.Second
)

// Config holds the generation client configuration.
//
// Mode, ProjectID, Location, Endpoint and Model form the client's
// identity: two configs that agree on these fields are interchangeable
// and share one cached client. Credentials and tuning knobs do not
// participate in identity.
type Config struct {
	// Mode selects the backend addressing and auth scheme.
	Mode Mode

	// ProjectID is the cloud project for ModeProject (optional otherwise).
	ProjectID string

	// Location is the backend region (default: us-central1).
	Location string

	// Endpoint is the backend base URL (default: DefaultEndpoint).
	Endpoint string

	// Model is the generation model identifier (default: DefaultModel).
	Model string

	// APIKey is the credential for ModeAPIKey.
	APIKey string

	// Timeout bounds a single backend request (default: DefaultTimeout).
	Timeout time.Duration

	// Quota is an optional shared quota tracker consulted before each
	// request. Nil disables quota gating.
	Quota *quota.Tracker
}

// DefaultConfig returns an API-key configuration with defaults applied.
func DefaultConfig(apiKey string) Config {
	return Config{
		Mode:     ModeAPIKey,
		Location: DefaultLocation,
		Endpoint: DefaultEndpoint,
		Model:    DefaultModel,
		APIKey:   apiKey,
		Timeout:  DefaultTimeout,
	}
}

// Key derives the deterministic identity key for this configuration.
// Format: gen:mode=apikey:project=:location=us-central1:endpoint=...:model=muse-2.0
//
// The key is derived from the defaulted configuration, the same view
// New constructs a client from: a field left unset and its explicit
// default collapse to the same key, as does an unset and explicitly
// empty ProjectID. Fields outside the identity set (APIKey, Timeout,
// Quota) are deliberately excluded.
func (c Config) Key() string {
	c = c.withDefaults()
	parts := []string{
		"gen",
		"mode=" + string(c.Mode),
		"project=" + c.ProjectID,
		"location=" + c.Location,
		"endpoint=" + strings.TrimRight(c.Endpoint, "/"),
		"model=" + c.Model,
	}
	return strings.Join(parts, ":")
}

// withDefaults returns a copy with defaulted optional fields filled in.
func (c Config) withDefaults() Config {
	if c.Location == "" {
		c.Location = DefaultLocation
	}
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// Validate checks that the configuration is usable for its mode.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeAPIKey:
		if c.APIKey == "" {
			return fmt.Errorf("%w: api key is required in apikey mode", ErrInvalidConfig)
		}
	case ModeProject:
		if c.ProjectID == "" {
			return fmt.Errorf("%w: project id is required in project mode", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, c.Mode)
	}
	return nil
}
