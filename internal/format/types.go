package format

import (
	"bennypowers.dev/embedfmt/internal/engine"
	"bennypowers.dev/embedfmt/internal/position"
	"bennypowers.dev/embedfmt/internal/scanner"
)

// Document is the text buffer a format operation reads and writes.
// It must not change from any other source while Format runs.
type Document interface {
	Text() string
	SetText(text string)
	TextInRange(r position.Range) (string, error)
	SetTextInRange(r position.Range, text string) error
	PositionForOffset(offset int) (position.Position, error)
	LineLength(row int) int
	// Path returns "" for documents that were never saved
	Path() string
	// LanguageID is the declared content type, e.g. "javascript" or "vue"
	LanguageID() string
	Caret() position.Position
	SetCaret(pos position.Position)
}

// Notifier surfaces problems to the user
type Notifier interface {
	ReportError(message string)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(message string)

// ReportError calls f
func (f NotifierFunc) ReportError(message string) {
	f(message)
}

// BlockStatus is the outcome for one block
type BlockStatus int

const (
	// BlockUnchanged means the engine returned the input as-is
	BlockUnchanged BlockStatus = iota
	// BlockFormatted means new text was written
	BlockFormatted
	// BlockSkipped means the block had nothing to format or an unsupported language
	BlockSkipped
	// BlockFailed means the engine failed and the original text was kept
	BlockFailed
	// BlockInconsistent means the region did not fit the document
	BlockInconsistent
)

func (s BlockStatus) String() string {
	switch s {
	case BlockUnchanged:
		return "unchanged"
	case BlockFormatted:
		return "formatted"
	case BlockSkipped:
		return "skipped"
	case BlockFailed:
		return "failed"
	case BlockInconsistent:
		return "inconsistent"
	}
	return "unknown"
}

// Block records what happened to one region, or to the whole document for pure-code files
type Block struct {
	Region scanner.Region
	Status BlockStatus
	Err    error
}

// Report summarizes one Format call
type Report struct {
	// Engine is the name of the engine that ran
	Engine string
	// Skipped is set when the document was not eligible for formatting at all
	Skipped bool
	Blocks  []Block
	// Fatal holds the fatal diagnostics reported to the user, in document line numbers
	Fatal []engine.Diagnostic
}

// Changed reports whether any block was rewritten
func (r *Report) Changed() bool {
	for _, b := range r.Blocks {
		if b.Status == BlockFormatted {
			return true
		}
	}
	return false
}

// Count returns the number of blocks with the given status
func (r *Report) Count(status BlockStatus) int {
	n := 0
	for _, b := range r.Blocks {
		if b.Status == status {
			n++
		}
	}
	return n
}
