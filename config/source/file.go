package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileSource loads application.yaml (or .yml) from BasePath, then overlays
// application.{Profile}.yaml when Profile is set and the file exists.
//
//	configs/
//	  application.yaml
//	  application.prod.yaml
//
// The overlay is unmarshalled into the same map, so it replaces whole
// top-level keys rather than merging into them.
type FileSource struct {
	BasePath string
	Profile  string
	// Optional makes a missing base file load as an empty layer.
	Optional bool
}

func (f *FileSource) Name() string { return "file" }

// Load returns os.ErrNotExist (wrapped) when the base file is missing and
// Optional is false.
func (f *FileSource) Load(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := map[string]any{}
	baseFile := findYAMLFile(f.BasePath, "application")
	if baseFile == "" {
		if f.Optional {
			return data, nil
		}
		return nil, fmt.Errorf("application.yaml in %q: %w", f.BasePath, os.ErrNotExist)
	}
	if err := readYAML(baseFile, data); err != nil {
		return nil, err
	}

	if f.Profile != "" {
		if profileFile := findYAMLFile(f.BasePath, "application."+f.Profile); profileFile != "" {
			if err := readYAML(profileFile, data); err != nil {
				return nil, err
			}
		}
	}
	return data, nil
}

func findYAMLFile(dir, basename string) string {
	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(dir, basename+ext)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func readYAML(path string, out map[string]any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, &out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
