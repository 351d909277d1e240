package preset

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Builtins returns the default presets shipped with the service.
func Builtins() []Preset {
	return []Preset{
		{
			Name:        "ambient-pad",
			Genre:       "ambient",
			BPM:         70,
			Description: "Slow evolving pads for background atmosphere",
			Mood:        "calm",
			Instruments: []string{"analog synthesizer", "soft strings"},
			Fragments:   []string{"long reverb tails", "no percussion"},
		},
		{
			Name:        "lofi-study",
			Genre:       "lofi hip hop",
			BPM:         82,
			Description: "Dusty beats and mellow keys for focus sessions",
			Mood:        "relaxed",
			Instruments: []string{"electric piano", "upright bass", "vinyl drums"},
			Fragments:   []string{"tape hiss", "gentle swing"},
		},
		{
			Name:        "driving-techno",
			Genre:       "techno",
			BPM:         132,
			Description: "Relentless four-on-the-floor with acid accents",
			Mood:        "dark",
			Instruments: []string{"TB-303", "analog kick"},
			Fragments:   []string{"hypnotic", "warehouse"},
		},
		{
			Name:        "cinematic-swell",
			Genre:       "orchestral",
			BPM:         90,
			Description: "Building orchestral texture for trailers",
			Mood:        "epic",
			Instruments: []string{"strings", "brass", "taiko drums"},
			Fragments:   []string{"crescendo", "wide stereo image"},
		},
		{
			Name:           "jazz-club",
			Genre:          "jazz",
			BPM:            110,
			Description:    "Late-night small combo improvisation",
			Mood:           "smoky",
			Instruments:    []string{"piano trio", "brushed drums", "double bass"},
			NegativePrompt: "vocals",
		},
	}
}

// ExistingIDs performs exactly one store enumeration and returns the
// result as a set, so bulk operations can test membership instead of
// issuing one existence check per candidate. The set is a point-in-time
// snapshot: records created by concurrent writers afterwards are not
// reflected.
func ExistingIDs(ctx context.Context, store Store) (map[string]struct{}, error) {
	ids, err := store.EnumerateIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate preset ids: %w", err)
	}

	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// SeedBuiltins ensures every builtin preset exists in the store,
// skipping ids that are already present. A builtin never overwrites an
// existing record, so user modifications survive reseeding. Returns the
// ids that were created.
func SeedBuiltins(ctx context.Context, store Store) ([]string, error) {
	existing, err := ExistingIDs(ctx, store)
	if err != nil {
		return nil, err
	}

	var seeded []string
	for _, p := range Builtins() {
		if _, ok := existing[p.Name]; ok {
			continue
		}
		if err := store.Save(ctx, p); err != nil {
			return seeded, fmt.Errorf("seed preset %q: %w", p.Name, err)
		}
		seeded = append(seeded, p.Name)
	}

	if len(seeded) > 0 {
		log.Info().
			Strs("presets", seeded).
			Msg("Seeded builtin presets")
	}

	return seeded, nil
}
