package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"bennypowers.dev/embedfmt/internal/log"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// FileNames are the project configuration files looked up in the project root, in order
var FileNames = []string{".embedfmt.yaml", ".embedfmt.yml"}

// Load builds the configuration for a project rooted at root.
// Sources are applied in order, later ones winning: defaults, the
// package.json "embedfmt" field, the first of FileNames found in root,
// then explicit, if not empty. A missing source is not an error, except
// for explicit.
func Load(root, explicit string) (*Config, error) {
	cfg := Default()

	if root != "" {
		pkg, err := ReadPackageJSON(root)
		if err != nil {
			return nil, err
		}
		if err := cfg.Apply("package.json", pkg); err != nil {
			return nil, err
		}

		for _, name := range FileNames {
			path := filepath.Join(root, name)
			values, err := ReadFile(path)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return nil, err
			}
			if err := cfg.Apply(name, values); err != nil {
				return nil, err
			}
			log.Debug("Loaded configuration from %s", path)
			break
		}
	}

	if explicit != "" {
		values, err := ReadFile(explicit)
		if err != nil {
			return nil, err
		}
		if err := cfg.Apply(explicit, values); err != nil {
			return nil, err
		}
		log.Debug("Loaded configuration from %s", explicit)
	}

	return cfg, nil
}

// ReadPackageJSON returns the "embedfmt" field of root/package.json.
// Returns nil if the file or the field doesn't exist (not an error).
func ReadPackageJSON(root string) (map[string]any, error) {
	path := filepath.Join(root, "package.json")
	data, err := os.ReadFile(path) //nolint:gosec // G304: Reading workspace package.json - local trusted environment
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read package.json: %w", err)
	}

	// Parse as JSONC (allows comments)
	var pkg map[string]json.RawMessage
	if err := json.Unmarshal(jsonc.ToJSON(data), &pkg); err != nil {
		return nil, fmt.Errorf("failed to parse package.json: %w", err)
	}

	raw, ok := pkg[Key]
	if !ok {
		return nil, nil
	}
	var values map[string]any
	if err := json.Unmarshal(raw, &values); err != nil || values == nil {
		return nil, &ValidationError{Source: "package.json", Err: fmt.Errorf("%s must be an object", Key)}
	}
	return values, nil
}

// ReadFile reads a configuration file. Files ending in .json are parsed as
// JSONC, everything else as YAML.
func ReadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: User-specified config file
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var values map[string]any
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(jsonc.ToJSON(data), &values)
	} else {
		err = yaml.Unmarshal(data, &values)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return values, nil
}

// SettingsValues extracts the "embedfmt" section from editor settings as sent
// with workspace/didChangeConfiguration. Returns nil when the section is absent.
func SettingsValues(settings any) (map[string]any, error) {
	root, ok := settings.(map[string]any)
	if !ok || root == nil {
		return nil, nil
	}
	section, ok := root[Key]
	if !ok || section == nil {
		return nil, nil
	}
	values, ok := section.(map[string]any)
	if !ok {
		return nil, &ValidationError{Source: "settings", Err: fmt.Errorf("%s must be an object", Key)}
	}
	return values, nil
}
