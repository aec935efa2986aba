package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"slices"
	"strings"

	"bennypowers.dev/embedfmt/internal/log"
	"github.com/tidwall/gjson"
)

// FilenamePlaceholder in a command's arguments is replaced with Request.Filename
const FilenamePlaceholder = "{filename}"

// Command describes an external program that reads code on stdin
type Command struct {
	// Argv is the program and its arguments
	Argv []string
	// Dir is the working directory; empty means the current directory
	Dir string
}

func (c Command) String() string {
	return strings.Join(c.Argv, " ")
}

// run executes the command with text on stdin and returns stdout, stderr and the exit code.
// A non-nil error means the process could not be run at all.
func (c Command) run(ctx context.Context, req Request, extra ...string) ([]byte, string, int, error) {
	if len(c.Argv) == 0 {
		return nil, "", 0, errors.New("empty command")
	}

	args := make([]string, 0, len(c.Argv)+len(extra))
	for _, arg := range slices.Concat(c.Argv[1:], extra) {
		args = append(args, strings.ReplaceAll(arg, FilenamePlaceholder, req.Filename))
	}

	cmd := exec.CommandContext(ctx, c.Argv[0], args...) //nolint:gosec // G204: command comes from user configuration
	cmd.Dir = c.Dir
	cmd.Stdin = strings.NewReader(req.Text)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug("Running %s %s", c.Argv[0], strings.Join(args, " "))
	err := cmd.Run()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stdout.Bytes(), strings.TrimSpace(stderr.String()), exitErr.ExitCode(), nil
	}
	if err != nil {
		return nil, "", 0, err
	}
	return stdout.Bytes(), strings.TrimSpace(stderr.String()), 0, nil
}

// TransformCommand runs a formatter that prints the formatted text on stdout.
// Any non-zero exit status is a failure.
func TransformCommand(name string, languages []string, cmd Command) Engine {
	return Transform(name, languages, func(ctx context.Context, req Request) (string, error) {
		stdout, stderr, code, err := cmd.run(ctx, req)
		if err != nil {
			return "", &EngineError{Engine: name, Err: err}
		}
		if code != 0 {
			return "", &EngineError{Engine: name, Err: fmt.Errorf("exit status %d", code), Stderr: stderr}
		}
		return string(stdout), nil
	})
}

// LintCommand runs a linter that prints an ESLint JSON report on stdout:
// an array whose first entry carries the fixed "output" (absent when
// nothing was fixed) and the remaining "messages". Exit status 1 means
// problems were found and is not a failure.
func LintCommand(name string, languages []string, cfg LintConfig, cmd Command) Engine {
	return FixAndLint(name, languages, cfg, func(ctx context.Context, req Request, cfg LintConfig) (Result, error) {
		stdout, stderr, code, err := cmd.run(ctx, req, lintArgs(cfg)...)
		if err != nil {
			return Result{}, &EngineError{Engine: name, Err: err}
		}
		if code > 1 {
			return Result{}, &EngineError{Engine: name, Err: fmt.Errorf("exit status %d", code), Stderr: stderr}
		}
		result, err := ParseLintReport(stdout, req.Text)
		if err != nil {
			return Result{}, &EngineError{Engine: name, Err: err, Stderr: stderr}
		}
		if !cfg.Fix {
			result.Text = req.Text
		}
		return result, nil
	})
}

// lintArgs turns a LintConfig into ESLint command-line flags
func lintArgs(cfg LintConfig) []string {
	var args []string
	if len(cfg.Globals) > 0 {
		args = append(args, "--global", strings.Join(cfg.Globals, ","))
	}
	for _, env := range cfg.Envs {
		args = append(args, "--env", env)
	}
	return args
}

// ParseLintReport reads an ESLint JSON report for a single input.
// original is returned as the text when the report has no output.
func ParseLintReport(report []byte, original string) (Result, error) {
	if !gjson.ValidBytes(report) {
		return Result{}, errors.New("lint report is not valid JSON")
	}
	parsed := gjson.ParseBytes(report)
	if !parsed.IsArray() {
		return Result{}, errors.New("lint report is not an array")
	}
	entry := parsed.Get("0")
	if !entry.Exists() {
		return Result{}, errors.New("lint report is empty")
	}

	result := Result{Text: original}
	if output := entry.Get("output"); output.Exists() {
		result.Text = output.String()
	}

	for _, msg := range entry.Get("messages").Array() {
		result.Diagnostics = append(result.Diagnostics, Diagnostic{
			Line:    int(msg.Get("line").Int()),
			Column:  int(msg.Get("column").Int()),
			Message: msg.Get("message").String(),
			RuleID:  msg.Get("ruleId").String(),
			Fatal:   msg.Get("fatal").Bool(),
		})
	}
	return result, nil
}
