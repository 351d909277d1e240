package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/klangwerk/musegen/pkg/generator"
	"github.com/klangwerk/musegen/pkg/logging"
	"github.com/klangwerk/musegen/pkg/preset"
)

var (
	flagGenPreset   string
	flagGenPrompt   string
	flagGenNegative string
	flagGenOut      string
	flagGenSeed     int
	flagGenCount    int
	flagGenDuration int
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate audio clips and write them to local files",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd)
	},
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&flagGenPreset, "preset", "", "Preset to generate from")
	f.StringVar(&flagGenPrompt, "prompt", "", "Prompt text (appended to the preset's prompt)")
	f.StringVar(&flagGenNegative, "negative", "", "Negative prompt")
	f.StringVar(&flagGenOut, "out", "clip", "Output file base name")
	f.IntVar(&flagGenSeed, "seed", 0, "Generation seed (0 = backend choice)")
	f.IntVar(&flagGenCount, "count", 1, "Number of clips to generate")
	f.IntVar(&flagGenDuration, "duration", 0, "Clip duration in seconds (0 = backend default)")
}

func runGenerate(cmd *cobra.Command) error {
	logger := logging.NewLogger("generate")
	ctx := cmd.Context()

	req, err := buildGenerateRequest(cmd)
	if err != nil {
		return err
	}
	if req.Prompt == "" {
		return fmt.Errorf("either --prompt or --preset is required")
	}

	client, err := generator.New(generatorConfig(nil))
	if err != nil {
		return err
	}
	defer client.Close()

	clips, err := client.Generate(ctx, req)
	if err != nil {
		return err
	}

	for i, clip := range clips {
		name := clipFileName(flagGenOut, i, len(clips), clip.MimeType)
		if err := os.WriteFile(name, clip.Audio, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		logger.Info().Str("file", name).Int("bytes", len(clip.Audio)).Int("seed", clip.Seed).Msg("Clip written")
		fmt.Println(name)
	}
	return nil
}

func buildGenerateRequest(cmd *cobra.Command) (generator.Request, error) {
	var req generator.Request

	if flagGenPreset != "" {
		store, cleanup, err := openPresetStore(cmd.Context())
		if err != nil {
			return req, err
		}
		defer cleanup()

		p, err := preset.NewManager(store).Get(cmd.Context(), flagGenPreset)
		if err != nil {
			return req, fmt.Errorf("preset %q: %w", flagGenPreset, err)
		}
		req = p.Request(p.Prompt(flagGenPrompt))
	} else {
		req.Prompt = flagGenPrompt
	}

	if flagGenNegative != "" {
		req.NegativePrompt = flagGenNegative
	}
	if flagGenDuration > 0 {
		req.DurationSeconds = flagGenDuration
	}
	req.Seed = flagGenSeed
	req.SampleCount = flagGenCount
	return req, nil
}

// clipFileName derives the output file name from the base name, clip
// index and mime type.
func clipFileName(base string, idx, total int, mimeType string) string {
	ext := ".bin"
	switch mimeType {
	case "audio/wav", "audio/x-wav":
		ext = ".wav"
	case "audio/mpeg":
		ext = ".mp3"
	case "audio/ogg":
		ext = ".ogg"
	case "audio/flac":
		ext = ".flac"
	}
	if total > 1 {
		return fmt.Sprintf("%s-%d%s", base, idx+1, ext)
	}
	return base + ext
}
