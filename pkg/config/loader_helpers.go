package config

import (
	"os"

	"gopkg.in/yaml.v3"

	gerrors "github.com/odvcencio/grepline/pkg/errors"
)

// loadAndMerge loads a YAML file and merges it into the config.
func loadAndMerge(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var override Config
	if err := yaml.Unmarshal(data, &override); err != nil {
		return gerrors.Wrap(err, gerrors.ErrCodeConfigParse, "parsing YAML")
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return gerrors.Wrap(err, gerrors.ErrCodeConfigParse, "parsing YAML")
	}

	mergeConfigs(cfg, &override, raw)
	return nil
}

// mergeConfigs merges override into base. Scalars only replace the base value
// when the key was present in the file, so an explicit zero still wins.
func mergeConfigs(base, override *Config, raw map[string]any) {
	if override == nil {
		return
	}

	if fieldSet(raw, "color") {
		base.Color = override.Color
	}
	if fieldSet(raw, "colors") {
		base.Colors = override.Colors
	}
	if fieldSet(raw, "engine") {
		base.Engine = override.Engine
	}
	if fieldSet(raw, "buffer_size") {
		base.BufferSize = override.BufferSize
	}
	if fieldSet(raw, "log", "file") {
		base.Log.File = override.Log.File
	}
	if fieldSet(raw, "log", "level") {
		base.Log.Level = override.Log.Level
	}
	if fieldSet(raw, "log", "max_size_mb") {
		base.Log.MaxSizeMB = override.Log.MaxSizeMB
	}
	if fieldSet(raw, "log", "max_backups") {
		base.Log.MaxBackups = override.Log.MaxBackups
	}
}

func fieldSet(raw map[string]any, path ...string) bool {
	if len(raw) == 0 || len(path) == 0 {
		return false
	}
	current := raw
	for i, key := range path {
		val, ok := current[key]
		if !ok {
			return false
		}
		if i == len(path)-1 {
			return true
		}
		next, ok := val.(map[string]any)
		if !ok {
			return false
		}
		current = next
	}
	return false
}

