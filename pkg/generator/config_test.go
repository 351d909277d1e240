package generator

import (
	"testing"
)

func TestConfig_Key(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "apikey mode without project",
			cfg: Config{
				Mode:     ModeAPIKey,
				Location: "us-central1",
				Endpoint: "https://muse.klangwerk.dev/v1",
				Model:    "muse-2.0",
			},
			want: "gen:mode=apikey:project=:location=us-central1:endpoint=https://muse.klangwerk.dev/v1:model=muse-2.0",
		},
		{
			name: "project mode",
			cfg: Config{
				Mode:      ModeProject,
				ProjectID: "studio-prod",
				Location:  "europe-west4",
				Endpoint:  "https://muse.klangwerk.dev/v1",
				Model:     "muse-2.0",
			},
			want: "gen:mode=project:project=studio-prod:location=europe-west4:endpoint=https://muse.klangwerk.dev/v1:model=muse-2.0",
		},
		{
			name: "trailing endpoint slash is normalized",
			cfg: Config{
				Mode:     ModeAPIKey,
				Endpoint: "https://muse.klangwerk.dev/v1/",
			},
			want: "gen:mode=apikey:project=:location=us-central1:endpoint=https://muse.klangwerk.dev/v1:model=muse-2.0",
		},
		{
			name: "zero config gets defaulted optionals",
			cfg:  Config{},
			want: "gen:mode=:project=:location=us-central1:endpoint=https://muse.klangwerk.dev/v1:model=muse-2.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cfg.Key()
			if got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfig_Key_Deterministic(t *testing.T) {
	cfg := Config{Mode: ModeProject, ProjectID: "p", Location: "us-central1"}
	if cfg.Key() != cfg.Key() {
		t.Error("Key() is not deterministic")
	}
}

func TestConfig_Key_CredentialsExcluded(t *testing.T) {
	a := Config{Mode: ModeAPIKey, APIKey: "key-1", Location: "us-central1"}
	b := Config{Mode: ModeAPIKey, APIKey: "key-2", Location: "us-central1"}

	if a.Key() != b.Key() {
		t.Error("credentials should not participate in the identity key")
	}
}

func TestConfig_Key_UnsetVsExplicitEmpty(t *testing.T) {
	unset := Config{Mode: ModeAPIKey, Location: "us-central1"}
	explicit := Config{Mode: ModeAPIKey, ProjectID: "", Location: "us-central1"}

	if unset.Key() != explicit.Key() {
		t.Error("unset and explicitly empty project should yield the same key")
	}
}

func TestConfig_Key_UnsetVsExplicitDefault(t *testing.T) {
	// A config relying on defaults and one spelling them out describe
	// the same effective client and must share one cache slot.
	unset := Config{Mode: ModeAPIKey, APIKey: "k"}
	spelled := DefaultConfig("k")

	if unset.Key() != spelled.Key() {
		t.Errorf("Key() mismatch for equivalent configs:\n  unset:   %q\n  spelled: %q",
			unset.Key(), spelled.Key())
	}

	// Distinct effective configurations still key apart.
	other := Config{Mode: ModeAPIKey, APIKey: "k", Model: "muse-1.5"}
	if other.Key() == spelled.Key() {
		t.Error("distinct models must yield distinct keys")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "valid apikey config",
			cfg:     Config{Mode: ModeAPIKey, APIKey: "secret"},
			wantErr: false,
		},
		{
			name:    "apikey mode without key",
			cfg:     Config{Mode: ModeAPIKey},
			wantErr: true,
		},
		{
			name:    "valid project config",
			cfg:     Config{Mode: ModeProject, ProjectID: "studio-prod"},
			wantErr: false,
		},
		{
			name:    "project mode without project id",
			cfg:     Config{Mode: ModeProject},
			wantErr: true,
		},
		{
			name:    "unknown mode",
			cfg:     Config{Mode: "oauth"},
			wantErr: true,
		},
		{
			name:    "empty mode",
			cfg:     Config{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{Mode: ModeAPIKey, APIKey: "secret"}.withDefaults()

	if cfg.Location != DefaultLocation {
		t.Errorf("Location = %q, want %q", cfg.Location, DefaultLocation)
	}
	if cfg.Endpoint != DefaultEndpoint {
		t.Errorf("Endpoint = %q, want %q", cfg.Endpoint, DefaultEndpoint)
	}
	if cfg.Model != DefaultModel {
		t.Errorf("Model = %q, want %q", cfg.Model, DefaultModel)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
}
