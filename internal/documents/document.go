package documents

import (
	"fmt"

	"bennypowers.dev/embedfmt/internal/position"
	"bennypowers.dev/embedfmt/internal/uriutil"
)

// Document is an in-memory text buffer with a line table and a caret.
// It is not safe for concurrent use; the Manager hands out snapshots.
type Document struct {
	uri        string
	path       string
	languageID string
	content    string
	version    int
	lines      *position.Lines
	caret      position.Position
}

// NewDocument creates a new document. The file path is derived from uri;
// documents with a non-file URI have no path.
func NewDocument(uri, languageID string, version int, content string) *Document {
	return &Document{
		uri:        uri,
		path:       uriutil.URIToPath(uri),
		languageID: languageID,
		version:    version,
		content:    content,
		lines:      position.NewLines(content),
	}
}

// NewFileDocument creates a document for a file on disk, detecting its language from the extension
func NewFileDocument(path, content string) *Document {
	doc := NewDocument(uriutil.PathToURI(path), LanguageForPath(path), 0, content)
	doc.path = path
	return doc
}

// URI returns the document's URI
func (d *Document) URI() string {
	return d.uri
}

// Path returns the file system path, or "" for documents that were never saved
func (d *Document) Path() string {
	return d.path
}

// LanguageID returns the document's language identifier
func (d *Document) LanguageID() string {
	return d.languageID
}

// Version returns the document's version
func (d *Document) Version() int {
	return d.version
}

// Content returns the document's current content
func (d *Document) Content() string {
	return d.content
}

// Text returns the document's current content
func (d *Document) Text() string {
	return d.content
}

// SetContent updates the document's content and version.
// Returns an error if the provided version is older than the current document version,
// preventing stale updates from being applied.
func (d *Document) SetContent(content string, version int) error {
	if version < d.version {
		return fmt.Errorf("rejected stale update: document version is %d but update version is %d", d.version, version)
	}
	d.SetText(content)
	d.version = version
	return nil
}

// SetText replaces the whole content. The caret is clamped into the new text.
func (d *Document) SetText(text string) {
	d.content = text
	d.lines = position.NewLines(text)
	d.caret = d.lines.Clamp(d.caret)
}

// TextInRange returns the text between two positions
func (d *Document) TextInRange(r position.Range) (string, error) {
	start, end, err := d.offsets(r)
	if err != nil {
		return "", err
	}
	return d.content[start:end], nil
}

// SetTextInRange replaces the text between two positions
func (d *Document) SetTextInRange(r position.Range, text string) error {
	start, end, err := d.offsets(r)
	if err != nil {
		return err
	}
	d.SetText(d.content[:start] + text + d.content[end:])
	return nil
}

func (d *Document) offsets(r position.Range) (int, int, error) {
	start, err := d.lines.OffsetForPosition(r.Start)
	if err != nil {
		return 0, 0, fmt.Errorf("range start: %w", err)
	}
	end, err := d.lines.OffsetForPosition(r.End)
	if err != nil {
		return 0, 0, fmt.Errorf("range end: %w", err)
	}
	if end < start {
		return 0, 0, fmt.Errorf("inverted range %s", r)
	}
	return start, end, nil
}

// PositionForOffset converts a byte offset into a row/column position
func (d *Document) PositionForOffset(offset int) (position.Position, error) {
	return d.lines.PositionForOffset(offset)
}

// LineLength returns the byte length of row, excluding its line terminator
func (d *Document) LineLength(row int) int {
	return d.lines.LineLength(row)
}

// Lines returns the line table for the current content
func (d *Document) Lines() *position.Lines {
	return d.lines
}

// Caret returns the caret position
func (d *Document) Caret() position.Position {
	return d.caret
}

// SetCaret moves the caret, clamped to the document bounds
func (d *Document) SetCaret(pos position.Position) {
	d.caret = d.lines.Clamp(pos)
}

// Clone returns an independent copy of the document
func (d *Document) Clone() *Document {
	c := *d
	return &c
}
