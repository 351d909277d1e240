package preset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const fileExt = ".yaml"

// FileStore persists one YAML file per preset in a directory. Ids map
// to file names; enumeration order is the sorted directory listing.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed and returns a store
// over it.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("preset directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create preset directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the backing directory.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+fileExt)
}

// EnumerateIDs returns all preset ids in sorted file name order.
func (s *FileStore) EnumerateIDs(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read preset directory: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), fileExt))
	}

	return ids, nil
}

// Load reads and parses the preset file for id.
func (s *FileStore) Load(ctx context.Context, id string) (Preset, error) {
	if !validName.MatchString(id) {
		return Preset{}, fmt.Errorf("preset %q: %w", id, ErrNotFound)
	}

	data, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return Preset{}, fmt.Errorf("preset %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return Preset{}, fmt.Errorf("read preset %q: %w", id, err)
	}

	var p Preset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Preset{}, fmt.Errorf("parse preset %q: %w", id, err)
	}
	if p.Name == "" {
		p.Name = id
	}

	return p, nil
}

// Save writes the preset atomically: marshal to a temp file in the same
// directory, then rename over the target.
func (s *FileStore) Save(ctx context.Context, p Preset) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.UpdatedAt = time.Now().UTC()

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal preset %q: %w", p.Name, err)
	}

	tmp, err := os.CreateTemp(s.dir, p.Name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write preset %q: %w", p.Name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path(p.Name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename preset %q: %w", p.Name, err)
	}

	return nil
}

// Delete removes the preset file for id.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	if !validName.MatchString(id) {
		return fmt.Errorf("preset %q: %w", id, ErrNotFound)
	}

	err := os.Remove(s.path(id))
	if os.IsNotExist(err) {
		return fmt.Errorf("preset %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete preset %q: %w", id, err)
	}

	return nil
}
