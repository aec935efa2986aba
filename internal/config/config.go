// Package config loads embedfmt configuration from package.json, YAML files
// and editor settings, validating every source against an embedded schema.
package config

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"time"

	"bennypowers.dev/embedfmt/internal/engine"
	"bennypowers.dev/embedfmt/internal/format"
)

// Key is the package.json field and the editor settings section holding configuration
const Key = "embedfmt"

// Config is the user configuration
type Config struct {
	// Extensions are the file extensions that get formatted
	Extensions []string `json:"extensions"`
	// FormatOnSave formats documents before the editor saves them
	FormatOnSave bool `json:"formatOnSave"`
	// Engine is the selected engine name
	Engine string `json:"engine"`
	// Timeout bounds one format call, as a Go duration string
	Timeout     string `json:"timeout"`
	SyntaxCheck bool   `json:"syntaxCheck"`
	// Commands override the command line of external engines
	Commands map[string][]string `json:"commands,omitempty"`
	Globals  []string            `json:"globals,omitempty"`
	Envs     []string            `json:"envs,omitempty"`
}

// Default returns the configuration used when no source sets a value
func Default() *Config {
	return &Config{
		Extensions:  slices.Clone(format.DefaultExtensions),
		Engine:      engine.Standard.String(),
		Timeout:     "10s",
		SyntaxCheck: true,
	}
}

// Clone returns a deep copy of c
func (c *Config) Clone() *Config {
	clone := *c
	clone.Extensions = slices.Clone(c.Extensions)
	clone.Globals = slices.Clone(c.Globals)
	clone.Envs = slices.Clone(c.Envs)
	if c.Commands != nil {
		clone.Commands = make(map[string][]string, len(c.Commands))
		for name, argv := range c.Commands {
			clone.Commands[name] = slices.Clone(argv)
		}
	}
	return &clone
}

// Apply validates values from source and overlays them on c.
// Fields absent from values keep their current value; commands merge per engine.
func (c *Config) Apply(source string, values map[string]any) error {
	if len(values) == 0 {
		return nil
	}
	data, doc, err := normalize(values)
	if err != nil {
		return &ValidationError{Source: source, Err: err}
	}
	if err := validate(source, doc); err != nil {
		return err
	}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to decode configuration from %s: %w", source, err)
	}
	return nil
}

// Selection returns the configured engine
func (c *Config) Selection() (engine.Selection, error) {
	return engine.ParseSelection(c.Engine)
}

// TimeoutDuration returns the configured timeout
func (c *Config) TimeoutDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid timeout %q: must be positive", c.Timeout)
	}
	return d, nil
}

// RegistryOptions converts the engine related settings, running commands in dir
func (c *Config) RegistryOptions(dir string) (engine.RegistryOptions, error) {
	opts := engine.RegistryOptions{
		Dir: dir,
		Lint: engine.LintConfig{
			Fix:     true,
			Globals: slices.Clone(c.Globals),
			Envs:    slices.Clone(c.Envs),
		},
	}
	for _, name := range slices.Sorted(maps.Keys(c.Commands)) {
		sel, err := engine.ParseSelection(name)
		if err != nil {
			return engine.RegistryOptions{}, fmt.Errorf("invalid command override: %w", err)
		}
		if opts.Commands == nil {
			opts.Commands = map[engine.Selection][]string{}
		}
		opts.Commands[sel] = slices.Clone(c.Commands[name])
	}
	return opts, nil
}

// Formatter builds a formatter for the configured engine.
// External engines run in dir, usually the project root.
func (c *Config) Formatter(dir string, notifier format.Notifier) (*format.Formatter, error) {
	sel, err := c.Selection()
	if err != nil {
		return nil, err
	}
	opts, err := c.RegistryOptions(dir)
	if err != nil {
		return nil, err
	}
	registry, err := engine.DefaultRegistry(opts)
	if err != nil {
		return nil, err
	}
	return format.New(registry, sel,
		format.WithExtensions(c.Extensions...),
		format.WithSyntaxCheck(c.SyntaxCheck),
		format.WithNotifier(notifier),
	)
}
