package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loaders for the supported encodings, keyed by file extension. Every
// recognized cleanup key is a flat scalar, so any format that decodes
// to map[string]any works; YAML and JSON are the ones offered.
var loaders = map[string]func([]byte) (Config, error){
	".yaml": FromYAML,
	".yml":  FromYAML,
	".json": FromJSON,
}

// FromFile reads cleanup settings from path, choosing the format by
// extension (.yaml, .yml, or .json). The file may be a larger
// application config; Build consults only the keys documented in the
// package overview and ignores the rest.
func FromFile(path string) (Config, error) {
	load, ok := loaders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return Config{}, fmt.Errorf("unsupported config file extension: %s", filepath.Ext(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	return load(data)
}

// FromYAML decodes cleanup settings from YAML.
func FromYAML(data []byte) (Config, error) {
	return decode(data, "yaml", yaml.Unmarshal)
}

// FromJSON decodes cleanup settings from JSON.
func FromJSON(data []byte) (Config, error) {
	return decode(data, "json", json.Unmarshal)
}

func decode(data []byte, format string, unmarshal func([]byte, any) error) (Config, error) {
	var settings map[string]any
	if err := unmarshal(data, &settings); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", format, err)
	}
	return New(settings), nil
}
