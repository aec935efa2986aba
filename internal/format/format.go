// Package format runs a formatting engine over a document: the whole text
// for pure-code files, each embedded block for markup files.
package format

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"path/filepath"
	"strings"

	"bennypowers.dev/embedfmt/internal/collections"
	"bennypowers.dev/embedfmt/internal/documents"
	"bennypowers.dev/embedfmt/internal/engine"
	"bennypowers.dev/embedfmt/internal/log"
	"bennypowers.dev/embedfmt/internal/remap"
	"bennypowers.dev/embedfmt/internal/scanner"
	"bennypowers.dev/embedfmt/internal/syntax"
)

var (
	// ErrSyntaxRegressed indicates an engine returned code that no longer parses
	ErrSyntaxRegressed = errors.New("engine output does not parse")

	// ErrEmptyOutput indicates an engine returned nothing for non-blank input
	ErrEmptyOutput = errors.New("engine returned empty output")
)

// DefaultExtensions are the file extensions formatted when none are configured
var DefaultExtensions = []string{".js", ".jsx", ".html", ".vue"}

// Formatter formats documents with one engine. It holds no per-document
// state and may be reused, but a single Format call must not overlap
// another call on the same document.
type Formatter struct {
	engine      engine.Engine
	extensions  collections.Set[string]
	notifier    Notifier
	syntaxCheck bool
	scan        func(text string) iter.Seq[scanner.Region]
}

// Option configures a Formatter
type Option func(*Formatter)

// WithExtensions sets the file extensions eligible for formatting.
// Extensions are matched case-insensitively, with or without the leading dot.
func WithExtensions(extensions ...string) Option {
	return func(f *Formatter) {
		f.extensions = collections.NewSet[string]()
		for _, ext := range extensions {
			f.extensions.Add(NormalizeExtension(ext))
		}
	}
}

// WithNotifier sets where fatal diagnostics are reported
func WithNotifier(n Notifier) Option {
	return func(f *Formatter) {
		f.notifier = n
	}
}

// WithSyntaxCheck rejects engine output that no longer parses when the input did
func WithSyntaxCheck(enabled bool) Option {
	return func(f *Formatter) {
		f.syntaxCheck = enabled
	}
}

// WithScanner replaces the block scanner
func WithScanner(scan func(text string) iter.Seq[scanner.Region]) Option {
	return func(f *Formatter) {
		f.scan = scan
	}
}

// New resolves the selected engine from registry and creates a Formatter
func New(registry *engine.Registry, sel engine.Selection, opts ...Option) (*Formatter, error) {
	e, err := registry.Lookup(sel)
	if err != nil {
		return nil, err
	}
	return NewWithEngine(e, opts...), nil
}

// NewWithEngine creates a Formatter for an already resolved engine
func NewWithEngine(e engine.Engine, opts ...Option) *Formatter {
	f := &Formatter{
		engine: e,
		scan:   scanner.Scan,
	}
	WithExtensions(DefaultExtensions...)(f)
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NormalizeExtension lower-cases ext and ensures a leading dot
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Eligible reports whether a document at path would be formatted at all
func (f *Formatter) Eligible(path string) bool {
	return path != "" && f.extensions.Has(NormalizeExtension(filepath.Ext(path)))
}

// Format formats doc in place and restores its caret afterwards.
//
// Engine failures keep the original text of the affected block and never
// abort the call. The returned error is non-nil only when a region could not
// be mapped onto the document; other regions are still formatted. Fatal
// diagnostics are reported to the Notifier once, after all blocks ran.
func (f *Formatter) Format(ctx context.Context, doc Document) (*Report, error) {
	report := &Report{Engine: f.engine.Name()}

	path := doc.Path()
	if !f.Eligible(path) {
		log.Debug("Not formatting %q: extension not in %v", path, collections.Sorted(f.extensions))
		report.Skipped = true
		return report, nil
	}

	caret := doc.Caret()
	defer doc.SetCaret(caret)

	var err error
	if documents.IsCodeLanguage(doc.LanguageID()) {
		f.formatWhole(ctx, doc, report)
	} else {
		err = f.formatBlocks(ctx, doc, report)
	}

	if len(report.Fatal) > 0 && f.notifier != nil {
		f.notifier.ReportError(FatalMessage(report.Fatal))
	}

	log.Debug("Formatted %s with %s: %d formatted, %d unchanged, %d skipped, %d failed",
		path, report.Engine, report.Count(BlockFormatted), report.Count(BlockUnchanged),
		report.Count(BlockSkipped), report.Count(BlockFailed))
	return report, err
}

// formatWhole runs the engine over the entire document
func (f *Formatter) formatWhole(ctx context.Context, doc Document, report *Report) {
	text := doc.Text()
	language := doc.LanguageID()
	block := Block{Region: scanner.Region{Start: 0, End: len(text), Language: language}}

	if !f.engine.Supports(language) {
		block.Status = BlockSkipped
		report.Blocks = append(report.Blocks, block)
		return
	}

	result, err := f.invoke(ctx, engine.Request{Text: text, Language: language, Filename: doc.Path()})
	if err != nil {
		log.Warn("Error formatting %s: %v", doc.Path(), err)
		block.Status, block.Err = BlockFailed, err
		report.Blocks = append(report.Blocks, block)
		return
	}

	report.Fatal = append(report.Fatal, result.Fatal()...)
	if result.Text == text {
		block.Status = BlockUnchanged
	} else {
		doc.SetText(result.Text)
		block.Status = BlockFormatted
	}
	report.Blocks = append(report.Blocks, block)
}

// formatBlocks runs the engine over each embedded block in document order.
// Offsets of later regions are shifted by the size change of every earlier
// write, so a write that adds or removes lines cannot misplace them.
func (f *Formatter) formatBlocks(ctx context.Context, doc Document, report *Report) error {
	var errs []error
	delta := 0

	for scanned := range f.scan(doc.Text()) {
		region := scanned.Shift(delta)
		block, written, err := f.formatBlock(ctx, doc, region, &report.Fatal)
		if err != nil {
			log.Error("Skipping block %s in %s: %v", region, doc.Path(), err)
			errs = append(errs, err)
		}
		delta += written
		report.Blocks = append(report.Blocks, block)
	}

	return errors.Join(errs...)
}

// formatBlock formats one region and returns how many bytes the document grew by.
// Only consistency failures are returned as errors.
func (f *Formatter) formatBlock(ctx context.Context, doc Document, region scanner.Region, fatal *[]engine.Diagnostic) (Block, int, error) {
	block := Block{Region: region, Status: BlockSkipped}
	if !f.engine.Supports(region.Language) {
		return block, 0, nil
	}

	ov, err := remap.ToOverwriteRange(doc, region)
	if err != nil {
		block.Status, block.Err = BlockInconsistent, err
		return block, 0, err
	}
	if !ov.Interior {
		return block, 0, nil
	}

	target := ov.SourceRange()
	source, err := doc.TextInRange(target)
	if err != nil {
		err = fmt.Errorf("%w: %w", remap.ErrStaleRegion, err)
		block.Status, block.Err = BlockInconsistent, err
		return block, 0, err
	}

	result, err := f.invoke(ctx, engine.Request{
		Text:     source,
		Language: region.Language,
		Filename: filenameFor(doc.Path(), region.Language),
	})
	if err != nil {
		log.Warn("Error formatting block %s in %s: %v", region, doc.Path(), err)
		block.Status, block.Err = BlockFailed, err
		return block, 0, nil
	}

	for _, d := range result.Fatal() {
		// Engine lines are 1-based within source, which starts at row ov.Start.Row
		d.Line += ov.Start.Row
		*fatal = append(*fatal, d)
	}

	replacement := withTerminator(result.Text, lineTerminator(source))
	if replacement == source {
		block.Status = BlockUnchanged
		return block, 0, nil
	}
	if err := doc.SetTextInRange(target, replacement); err != nil {
		err = fmt.Errorf("%w: %w", remap.ErrStaleRegion, err)
		block.Status, block.Err = BlockInconsistent, err
		return block, 0, err
	}

	block.Status = BlockFormatted
	return block, len(replacement) - len(source), nil
}

// lineTerminator returns the line ending text ends with, if any
func lineTerminator(text string) string {
	switch {
	case strings.HasSuffix(text, "\r\n"):
		return "\r\n"
	case strings.HasSuffix(text, "\n"):
		return "\n"
	}
	return ""
}

// withTerminator replaces the final line ending of text with terminator
func withTerminator(text, terminator string) string {
	text = strings.TrimSuffix(text, lineTerminator(text))
	return text + terminator
}

// invoke runs the engine, turning panics, empty output and syntax regressions into engine errors
func (f *Formatter) invoke(ctx context.Context, req engine.Request) (result engine.Result, err error) {
	name := f.engine.Name()
	defer func() {
		if r := recover(); r != nil {
			result, err = engine.Result{}, engine.NewEngineError(name, fmt.Errorf("panic: %v", r))
		}
	}()

	result, err = f.engine.Run(ctx, req)
	if err != nil {
		if !errors.Is(err, engine.ErrEngineFailed) {
			err = engine.NewEngineError(name, err)
		}
		return engine.Result{}, err
	}
	if result.Text == "" && strings.TrimSpace(req.Text) != "" {
		return engine.Result{}, engine.NewEngineError(name, ErrEmptyOutput)
	}
	if f.syntaxCheck && syntax.Regressed(req.Language, req.Text, result.Text) {
		return engine.Result{}, engine.NewEngineError(name, ErrSyntaxRegressed)
	}
	return result, nil
}

// FatalMessage renders fatal diagnostics as one notification, one line per diagnostic
func FatalMessage(diagnostics []engine.Diagnostic) string {
	lines := make([]string, 0, len(diagnostics))
	for _, d := range diagnostics {
		lines = append(lines, fmt.Sprintf("line: %d, %s", d.Line, d.Message))
	}
	return strings.Join(lines, "\n")
}

var languageExtensions = map[string]string{
	documents.LanguageJavaScript:      ".js",
	documents.LanguageJavaScriptReact: ".jsx",
	documents.LanguageTypeScript:      ".ts",
	documents.LanguageCSS:             ".css",
	documents.LanguageSCSS:            ".scss",
	documents.LanguageLess:            ".less",
}

// filenameFor names a block after its document with the block's language extension,
// so engines that pick a parser by file name see App.js rather than App.vue
func filenameFor(path, language string) string {
	ext, ok := languageExtensions[language]
	if !ok {
		return path
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
