package presets

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the preset file looked up in the working directory when no
// other path is configured.
const DefaultFile = "llm-presets.json"

// file is the on-disk document shape. Documents starting with '{' are read
// as JSON, anything else as YAML.
type file struct {
	Presets map[string]Preset `yaml:"presets" json:"presets"`
}

// LoadFile reads the presets mapping from path. Entries are returned as-is;
// validation happens in [NewTable].
func LoadFile(path string) (map[string]Preset, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is operator configuration, not user input
	if err != nil {
		return nil, fmt.Errorf("presets: load %s: %w", path, err)
	}

	var f file
	if err := unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("presets: parse %s: %w", path, err)
	}

	for name, p := range f.Presets {
		p.Name = name
		f.Presets[name] = p
	}

	return f.Presets, nil
}

// LoadOptional is [LoadFile] for an advisory source: a missing file is
// silent, any other failure is logged, and both yield nil.
func LoadOptional(path string, log *slog.Logger) map[string]Preset {
	if log == nil {
		log = slog.Default()
	}

	presets, err := LoadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Debug("no external presets", "path", path)
		return nil
	case err != nil:
		log.Warn("ignoring external presets", "path", path, "error", err)
		return nil
	}

	log.Debug("loaded external presets", "path", path, "count", len(presets))

	return presets
}

func unmarshal(data []byte, f *file) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return json.Unmarshal(data, f)
	}
	return yaml.Unmarshal(data, f)
}
