package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML config key names used for shallow merge.
const (
	keyTable   = "table"
	keyFetch   = "fetch"
	keyLogging = "logging"
)

// MergeOverlayYAML loads a YAML file and merges its top-level sections onto
// target. Fields an overlay section sets replace the target's; fields it
// omits keep their current value. Unknown keys are ignored.
func MergeOverlayYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in MergeOverlayYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]yaml.Node
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	for key, node := range overlay {
		if err = unmarshalSection(target, key, &node); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}
	return nil
}

// unmarshalSection decodes node over a copy of the target section and stores
// the copy back only when decoding succeeds.
func unmarshalSection(target *Config, key string, node *yaml.Node) error {
	switch key {
	case keyTable:
		v := target.Table
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Table = v
	case keyFetch:
		v := target.Fetch
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Fetch = v
	case keyLogging:
		v := target.Logging
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Logging = v
	}
	return nil
}
