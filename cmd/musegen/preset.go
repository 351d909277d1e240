package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/klangwerk/musegen/pkg/preset"
)

var flagPresetFile string

var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Manage generation presets",
}

var presetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, cleanup, err := openPresetStore(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		list, err := preset.NewManager(store).List(cmd.Context())
		if err != nil {
			return err
		}
		for _, m := range list {
			line := m.Name
			if m.Genre != "" {
				line += "\t" + m.Genre
			}
			if m.BPM > 0 {
				line += fmt.Sprintf("\t%d bpm", m.BPM)
			}
			fmt.Println(line)
		}
		return nil
	},
}

var presetShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a preset as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, cleanup, err := openPresetStore(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		p, err := preset.NewManager(store).Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(p)
		if err != nil {
			return err
		}
		fmt.Print(string(out))
		return nil
	},
}

var presetSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save a preset from a YAML file (or stdin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readPresetInput()
		if err != nil {
			return err
		}

		var p preset.Preset
		if err := yaml.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("parse preset: %w", err)
		}
		p.Name = args[0]

		store, cleanup, err := openPresetStore(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		if err := preset.NewManager(store).Save(cmd.Context(), p); err != nil {
			return err
		}
		fmt.Printf("Saved preset %s\n", p.Name)
		return nil
	},
}

var presetDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, cleanup, err := openPresetStore(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		if err := preset.NewManager(store).Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted preset %s\n", args[0])
		return nil
	},
}

var presetSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed builtin presets without overwriting existing ones",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, cleanup, err := openPresetStore(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		seeded, err := preset.NewManager(store).Seed(cmd.Context())
		if err != nil {
			return err
		}
		if len(seeded) == 0 {
			fmt.Println("All builtin presets already present")
			return nil
		}
		for _, id := range seeded {
			fmt.Println(id)
		}
		return nil
	},
}

func init() {
	presetSaveCmd.Flags().StringVar(&flagPresetFile, "file", "", "YAML file to read the preset from (default: stdin)")

	presetCmd.AddCommand(presetListCmd)
	presetCmd.AddCommand(presetShowCmd)
	presetCmd.AddCommand(presetSaveCmd)
	presetCmd.AddCommand(presetDeleteCmd)
	presetCmd.AddCommand(presetSeedCmd)
}

func readPresetInput() ([]byte, error) {
	if flagPresetFile != "" {
		return os.ReadFile(flagPresetFile)
	}
	return io.ReadAll(os.Stdin)
}
