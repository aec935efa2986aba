// Package engine adapts external formatters and linters to a single
// text-in, text-out contract.
package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// Sentinel errors for error type checking
var (
	// ErrEngineFailed indicates the engine could not produce output for its input
	ErrEngineFailed = errors.New("engine failed")

	// ErrUnknownEngine indicates a selection with no engine registered for it
	ErrUnknownEngine = errors.New("unknown engine")
)

// EngineError wraps a failure reported by a specific engine
type EngineError struct {
	Engine string
	Err    error
	// Stderr is the diagnostic output of a command engine, if any
	Stderr string
}

func (e *EngineError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s: %v: %s", e.Engine, e.Err, e.Stderr)
	}
	return fmt.Sprintf("%s: %v", e.Engine, e.Err)
}

func (e *EngineError) Unwrap() []error {
	return []error{ErrEngineFailed, e.Err}
}

// NewEngineError creates a new engine error
func NewEngineError(engine string, err error) error {
	return &EngineError{Engine: engine, Err: err}
}

// Request is a unit of code to format
type Request struct {
	Text string
	// Language is the language identifier of Text, e.g. "javascript"
	Language string
	// Filename hints the file type to engines that infer parsers from it.
	// It need not exist on disk.
	Filename string
}

// Diagnostic is a problem an engine reported
type Diagnostic struct {
	// Line is 1-based, relative to the text the engine was given
	Line    int
	Column  int
	Message string
	RuleID  string
	// Fatal marks problems the engine could not parse past or fix
	Fatal bool
}

// Result is the output of an engine run
type Result struct {
	Text        string
	Diagnostics []Diagnostic
}

// Fatal returns the fatal diagnostics of the result
func (r Result) Fatal() []Diagnostic {
	var fatal []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Fatal {
			fatal = append(fatal, d)
		}
	}
	return fatal
}

// Engine formats code. Transform engines and fix+lint engines are both
// presented through this interface so callers never branch on engine kind.
type Engine interface {
	Name() string
	Kind() Kind
	// Supports reports whether the engine understands language
	Supports(language string) bool
	Run(ctx context.Context, req Request) (Result, error)
}

// Kind is the shape of an engine's native contract
type Kind int

const (
	// KindTransform engines return formatted text or fail
	KindTransform Kind = iota
	// KindFixAndLint engines return fixed text along with diagnostics
	KindFixAndLint
)

func (k Kind) String() string {
	if k == KindFixAndLint {
		return "fix+lint"
	}
	return "transform"
}

// LintConfig is passed to fix+lint engines on every run
type LintConfig struct {
	// Fix asks the engine to apply automatic fixes
	Fix bool
	// Globals are identifiers the linter should treat as defined
	Globals []string
	// Envs are predefined global environments, e.g. "browser"
	Envs []string
}

// TransformFunc formats text or returns an error
type TransformFunc func(ctx context.Context, req Request) (string, error)

// FixAndLintFunc fixes text according to cfg and reports remaining problems
type FixAndLintFunc func(ctx context.Context, req Request, cfg LintConfig) (Result, error)

type funcEngine struct {
	name      string
	kind      Kind
	languages []string
	run       func(ctx context.Context, req Request) (Result, error)
}

func (e *funcEngine) Name() string { return e.name }

func (e *funcEngine) Kind() Kind { return e.kind }

func (e *funcEngine) Supports(language string) bool {
	return len(e.languages) == 0 || slices.Contains(e.languages, language)
}

func (e *funcEngine) Run(ctx context.Context, req Request) (Result, error) {
	return e.run(ctx, req)
}

// Transform adapts a transform function. An empty languages list accepts every language.
func Transform(name string, languages []string, fn TransformFunc) Engine {
	return &funcEngine{
		name:      name,
		kind:      KindTransform,
		languages: languages,
		run: func(ctx context.Context, req Request) (Result, error) {
			text, err := fn(ctx, req)
			if err != nil {
				return Result{}, err
			}
			return Result{Text: text}, nil
		},
	}
}

// FixAndLint adapts a fix+lint function, binding the configuration it runs with
func FixAndLint(name string, languages []string, cfg LintConfig, fn FixAndLintFunc) Engine {
	return &funcEngine{
		name:      name,
		kind:      KindFixAndLint,
		languages: languages,
		run: func(ctx context.Context, req Request) (Result, error) {
			return fn(ctx, req, cfg)
		},
	}
}
