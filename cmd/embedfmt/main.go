// Command embedfmt formats code embedded in markup files, and pure JavaScript
// and CSS files, with standard, semistandard, prettier or a whitespace fixer.
//
// Usage:
//
//	embedfmt [flags] <file|dir|glob>...
//	embedfmt lsp [-config file] [-log-level level]
//	embedfmt version
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"bennypowers.dev/embedfmt/internal/config"
	"bennypowers.dev/embedfmt/internal/documents"
	"bennypowers.dev/embedfmt/internal/format"
	"bennypowers.dev/embedfmt/internal/log"
	"bennypowers.dev/embedfmt/internal/version"
	"bennypowers.dev/embedfmt/lsp"
	"github.com/pmezard/go-difflib/difflib"
)

// Exit codes
const (
	exitOK      = 0
	exitChanged = 1 // -l found files that need formatting
	exitError   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "lsp":
			return runLSP(args[1:], stderr)
		case "version":
			fmt.Fprintf(stdout, "embedfmt %s\n", version.Get())
			return exitOK
		}
	}
	return runFormat(args, stdout, stderr)
}

type options struct {
	write      bool
	diff       bool
	list       bool
	engine     string
	configPath string
	logLevel   string
	paths      []string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("embedfmt", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&opts.write, "w", false, "Write result to the source file instead of stdout")
	fs.BoolVar(&opts.diff, "d", false, "Print unified diffs instead of rewriting files")
	fs.BoolVar(&opts.list, "l", false, "List files whose formatting differs; exit 1 if any")
	fs.StringVar(&opts.engine, "engine", "", "Engine to use (standard, semistandard, prettier, whitespace)")
	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "embedfmt - format code embedded in markup\n\n")
		fmt.Fprintf(stderr, "Usage:\n")
		fmt.Fprintf(stderr, "  embedfmt [options] <file|dir|glob>...\n")
		fmt.Fprintf(stderr, "  embedfmt lsp [-config file] [-log-level level]\n")
		fmt.Fprintf(stderr, "  embedfmt version\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  embedfmt -w src/App.vue        Format a file in place\n")
		fmt.Fprintf(stderr, "  embedfmt -l 'src/**/*.html'    List unformatted files\n")
		fmt.Fprintf(stderr, "  embedfmt -d -engine prettier .  Show what prettier would change\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	opts.paths = fs.Args()
	if len(opts.paths) == 0 {
		fs.Usage()
		return opts, errors.New("no files given")
	}
	return opts, nil
}

func setLogLevel(name string) error {
	level, err := log.ParseLevel(name)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	return nil
}

func runFormat(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitError
	}
	if err := setLogLevel(opts.logLevel); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	root, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	cfg, err := config.Load(root, opts.configPath)
	if err == nil && opts.engine != "" {
		err = cfg.Apply("command line", map[string]any{"engine": opts.engine})
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	// Fatal diagnostics are reported for the file being formatted
	var current string
	notifier := format.NotifierFunc(func(message string) {
		fmt.Fprintf(stderr, "%s:\n%s\n", current, message)
	})
	formatter, err := cfg.Formatter(root, notifier)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	files, err := expandPaths(opts.paths, formatter.Eligible)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	code := exitOK
	for _, path := range files {
		current = path
		changed, err := processFile(path, formatter, timeout, opts, stdout)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %s: %v\n", path, err)
			code = exitError
			continue
		}
		if changed && opts.list && code == exitOK {
			code = exitChanged
		}
	}
	return code
}

// processFile formats one file and reports whether its content changed.
// Output depends on opts: a listing, a diff, a rewrite, or the formatted text.
func processFile(path string, formatter *format.Formatter, timeout time.Duration, opts options, stdout io.Writer) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	data, err := os.ReadFile(path) //nolint:gosec // G304: Formatting user-specified files
	if err != nil {
		return false, err
	}
	original := string(data)
	doc := documents.NewFileDocument(path, original)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Regions that could not be mapped are reported; the rest are still formatted
	report, formatErr := formatter.Format(ctx, doc)
	if report.Skipped {
		log.Info("Skipping %s: extension not enabled", path)
	}

	formatted := doc.Text()
	changed := formatted != original

	if opts.list && changed {
		fmt.Fprintln(stdout, path)
	}
	if opts.diff && changed {
		diff, err := unifiedDiff(path, original, formatted)
		if err != nil {
			return changed, err
		}
		fmt.Fprint(stdout, diff)
	}
	if opts.write && changed {
		if err := os.WriteFile(path, []byte(formatted), info.Mode().Perm()); err != nil {
			return changed, err
		}
		log.Info("Formatted %s", path)
	}
	if !opts.list && !opts.diff && !opts.write {
		fmt.Fprint(stdout, formatted)
	}
	return changed, formatErr
}

func unifiedDiff(path, original, formatted string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(formatted),
		FromFile: path + ".orig",
		ToFile:   path,
		Context:  3,
	})
}

func runLSP(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("embedfmt lsp", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to configuration file")
	logLevel := fs.String("log-level", "info", "Log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitError
	}
	if err := setLogLevel(*logLevel); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	// Create and run the LSP server
	server, err := lsp.NewServer(lsp.Options{ConfigPath: *configPath})
	if err != nil {
		log.Error("Failed to create LSP server: %v", err)
		return exitError
	}

	// Run with stdio transport (for VSCode and other editors)
	if err := server.RunStdio(); err != nil {
		log.Error("Server error: %v", err)
		return exitError
	}
	return exitOK
}
