package preset

import (
	"testing"
)

func TestPreset_Validate(t *testing.T) {
	tests := []struct {
		name    string
		preset  Preset
		wantErr bool
	}{
		{
			name:    "valid minimal",
			preset:  Preset{Name: "ambient-pad"},
			wantErr: false,
		},
		{
			name:    "valid with underscore and digits",
			preset:  Preset{Name: "lofi_v2", BPM: 82},
			wantErr: false,
		},
		{
			name:    "empty name",
			preset:  Preset{},
			wantErr: true,
		},
		{
			name:    "uppercase name",
			preset:  Preset{Name: "Ambient"},
			wantErr: true,
		},
		{
			name:    "path traversal name",
			preset:  Preset{Name: "../etc/passwd"},
			wantErr: true,
		},
		{
			name:    "name with spaces",
			preset:  Preset{Name: "ambient pad"},
			wantErr: true,
		},
		{
			name:    "negative bpm",
			preset:  Preset{Name: "x", BPM: -1},
			wantErr: true,
		},
		{
			name:    "absurd bpm",
			preset:  Preset{Name: "x", BPM: 9000},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.preset.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMetadataOf(t *testing.T) {
	p := Preset{
		Name:        "jazz-club",
		Genre:       "jazz",
		BPM:         110,
		Description: "Late-night small combo improvisation",
		Mood:        "smoky",
		Instruments: []string{"piano trio"},
	}

	m := MetadataOf(p)
	if m.Name != p.Name || m.Genre != p.Genre || m.BPM != p.BPM || m.Description != p.Description {
		t.Errorf("MetadataOf() = %+v, want subset of %+v", m, p)
	}

	// Derivation is pure: repeated calls agree.
	if MetadataOf(p) != m {
		t.Error("MetadataOf is not deterministic")
	}
}

func TestPreset_Prompt(t *testing.T) {
	tests := []struct {
		name   string
		preset Preset
		extra  []string
		want   string
	}{
		{
			name: "all fields",
			preset: Preset{
				Name:        "jazz-club",
				Genre:       "jazz",
				Mood:        "smoky",
				BPM:         110,
				Instruments: []string{"piano", "double bass"},
				Fragments:   []string{"late night"},
			},
			want: "jazz, smoky, 110 bpm, piano and double bass, late night",
		},
		{
			name:   "sparse preset skips empty fields",
			preset: Preset{Name: "x", Genre: "ambient"},
			want:   "ambient",
		},
		{
			name:   "extra fragments appended last",
			preset: Preset{Name: "x", Genre: "techno", BPM: 132},
			extra:  []string{"extended intro"},
			want:   "techno, 132 bpm, extended intro",
		},
		{
			name:   "empty preset and extras",
			preset: Preset{Name: "x"},
			extra:  []string{"", "  "},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.preset.Prompt(tt.extra...)
			if got != tt.want {
				t.Errorf("Prompt() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPreset_Request(t *testing.T) {
	p := Preset{
		Name:            "cinematic-swell",
		NegativePrompt:  "vocals",
		Temperature:     1.2,
		DurationSeconds: 45,
	}

	req := p.Request("orchestral, epic")
	if req.Prompt != "orchestral, epic" {
		t.Errorf("Prompt = %q", req.Prompt)
	}
	if req.NegativePrompt != "vocals" {
		t.Errorf("NegativePrompt = %q", req.NegativePrompt)
	}
	if req.Temperature != 1.2 {
		t.Errorf("Temperature = %v", req.Temperature)
	}
	if req.DurationSeconds != 45 {
		t.Errorf("DurationSeconds = %d", req.DurationSeconds)
	}
}

func TestBuiltins_AllValid(t *testing.T) {
	builtins := Builtins()
	if len(builtins) == 0 {
		t.Fatal("no builtin presets")
	}

	seen := make(map[string]bool)
	for _, p := range builtins {
		if err := p.Validate(); err != nil {
			t.Errorf("builtin %q fails validation: %v", p.Name, err)
		}
		if seen[p.Name] {
			t.Errorf("duplicate builtin name %q", p.Name)
		}
		seen[p.Name] = true

		if p.Prompt() == "" {
			t.Errorf("builtin %q produces an empty prompt", p.Name)
		}
	}
}
