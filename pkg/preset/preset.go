// Package preset implements the preset configuration store: named,
// persisted generation presets with a YAML file backend, an optional
// Redis backend, cached metadata summaries and idempotent seeding of
// builtin defaults.
package preset

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/klangwerk/musegen/pkg/generator"
)

// Preset is a named, persisted generation configuration. The full
// record is stored as one YAML document per preset.
type Preset struct {
	// Name identifies the preset and doubles as its record id.
	Name string `yaml:"name" json:"name"`

	// Genre is the primary style descriptor.
	Genre string `yaml:"genre,omitempty" json:"genre,omitempty"`

	// BPM is the target tempo (0 = unspecified).
	BPM int `yaml:"bpm,omitempty" json:"bpm,omitempty"`

	// Description is a free-form summary shown in listings.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Mood is an optional mood descriptor ("melancholic", "uplifting").
	Mood string `yaml:"mood,omitempty" json:"mood,omitempty"`

	// Instruments lists featured instruments in prompt order.
	Instruments []string `yaml:"instruments,omitempty" json:"instruments,omitempty"`

	// Fragments are additional free-form prompt fragments, appended
	// after the structured fields.
	Fragments []string `yaml:"fragments,omitempty" json:"fragments,omitempty"`

	// NegativePrompt lists qualities the output should avoid.
	NegativePrompt string `yaml:"negative_prompt,omitempty" json:"negative_prompt,omitempty"`

	// Temperature overrides the backend default when > 0.
	Temperature float64 `yaml:"temperature,omitempty" json:"temperature,omitempty"`

	// DurationSeconds bounds the clip length (0 = backend default).
	DurationSeconds int `yaml:"duration_seconds,omitempty" json:"duration_seconds,omitempty"`

	// UpdatedAt is set by the store on save.
	UpdatedAt time.Time `yaml:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// Metadata is the lightweight summary of a preset served by listings.
// It is derived from the full record and cached; see cache.MetadataCache.
type Metadata struct {
	Name        string `json:"name"`
	Genre       string `json:"genre,omitempty"`
	BPM         int    `json:"bpm,omitempty"`
	Description string `json:"description,omitempty"`
}

// MetadataOf derives the summary for a preset. Pure: no side effects,
// same record in, same metadata out.
func MetadataOf(p Preset) Metadata {
	return Metadata{
		Name:        p.Name,
		Genre:       p.Genre,
		BPM:         p.BPM,
		Description: p.Description,
	}
}

// validName restricts preset names to filesystem- and key-safe tokens.
var validName = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Validate checks the preset for storability.
func (p Preset) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("preset name is required")
	}
	if !validName.MatchString(p.Name) {
		return fmt.Errorf("invalid preset name %q: use lowercase letters, digits, '-' and '_'", p.Name)
	}
	if p.BPM < 0 || p.BPM > 400 {
		return fmt.Errorf("bpm %d out of range", p.BPM)
	}
	return nil
}

// Prompt assembles the generation prompt from the preset's fields plus
// any extra fragments, in a fixed order: genre, mood, tempo,
// instruments, stored fragments, extras.
func (p Preset) Prompt(extra ...string) string {
	b := generator.NewPromptBuilder()
	b.Add(p.Genre)
	b.Add(p.Mood)
	if p.BPM > 0 {
		b.Add(fmt.Sprintf("%d bpm", p.BPM))
	}
	if len(p.Instruments) > 0 {
		b.Add(strings.Join(p.Instruments, " and "))
	}
	b.AddAll(p.Fragments...)
	b.AddAll(extra...)
	return b.String()
}

// Request maps the preset onto a generation request with the given
// assembled prompt.
func (p Preset) Request(prompt string) generator.Request {
	return generator.Request{
		Prompt:          prompt,
		NegativePrompt:  p.NegativePrompt,
		Temperature:     p.Temperature,
		DurationSeconds: p.DurationSeconds,
	}
}
