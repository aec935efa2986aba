package engine

import (
	"fmt"
	"maps"
	"slices"
)

var (
	javaScriptLanguages = []string{"javascript", "javascriptreact"}
	prettierLanguages   = []string{"javascript", "javascriptreact", "typescript", "css", "scss", "less"}
)

// DefaultCommands are the programs run for each external engine unless configuration overrides them
var DefaultCommands = map[Selection][]string{
	Standard: {
		"npx", "--no-install", "eslint", "--stdin", "--stdin-filename", FilenamePlaceholder,
		"--fix-dry-run", "--format", "json", "--no-eslintrc",
		"--config", "node_modules/eslint-config-standard/.eslintrc.json",
	},
	Semistandard: {
		"npx", "--no-install", "eslint", "--stdin", "--stdin-filename", FilenamePlaceholder,
		"--fix-dry-run", "--format", "json", "--no-eslintrc",
		"--config", "node_modules/eslint-config-semistandard/.eslintrc.json",
	},
	Prettier: {
		"npx", "--no-install", "prettier", "--stdin-filepath", FilenamePlaceholder,
	},
}

// Registry maps each selection to the engine that serves it.
// It is built once from configuration; lookups never load anything.
type Registry struct {
	engines map[Selection]Engine
}

// NewRegistry creates a registry from explicit engines
func NewRegistry(engines map[Selection]Engine) *Registry {
	r := &Registry{engines: map[Selection]Engine{}}
	maps.Copy(r.engines, engines)
	return r
}

// RegistryOptions configures DefaultRegistry
type RegistryOptions struct {
	// Commands overrides DefaultCommands per selection
	Commands map[Selection][]string
	// Dir is the working directory for command engines
	Dir  string
	Lint LintConfig
}

// DefaultRegistry creates a registry with every selection wired to its default engine
func DefaultRegistry(opts RegistryOptions) (*Registry, error) {
	command := func(sel Selection) (Command, error) {
		argv := DefaultCommands[sel]
		if override, ok := opts.Commands[sel]; ok {
			argv = override
		}
		if len(argv) == 0 {
			return Command{}, fmt.Errorf("empty command for engine %s", sel)
		}
		return Command{Argv: slices.Clone(argv), Dir: opts.Dir}, nil
	}

	r := NewRegistry(nil)
	r.Register(Whitespace, NewWhitespace())
	for _, sel := range []Selection{Standard, Semistandard} {
		cmd, err := command(sel)
		if err != nil {
			return nil, err
		}
		r.Register(sel, LintCommand(sel.String(), javaScriptLanguages, opts.Lint, cmd))
	}
	cmd, err := command(Prettier)
	if err != nil {
		return nil, err
	}
	r.Register(Prettier, TransformCommand(Prettier.String(), prettierLanguages, cmd))

	return r, nil
}

// Register sets the engine for a selection, replacing any previous one
func (r *Registry) Register(sel Selection, e Engine) {
	r.engines[sel] = e
}

// Lookup returns the engine for a selection
func (r *Registry) Lookup(sel Selection) (Engine, error) {
	e, ok := r.engines[sel]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEngine, sel)
	}
	return e, nil
}
