package documents

import (
	"fmt"
	"sync"

	"bennypowers.dev/embedfmt/internal/position"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Manager tracks the documents an editor has open
type Manager struct {
	documents map[string]*Document
	mu        sync.RWMutex
}

// NewManager creates a new document manager
func NewManager() *Manager {
	return &Manager{
		documents: make(map[string]*Document),
	}
}

// Get retrieves a document by URI
func (m *Manager) Get(uri string) *Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.documents[uri]
}

// Snapshot returns a private copy of the document, safe to format while
// further changes arrive. Returns nil if the document is not open.
func (m *Manager) Snapshot(uri string) *Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.documents[uri]
	if !ok {
		return nil
	}
	return doc.Clone()
}

// DidOpen handles the textDocument/didOpen notification
func (m *Manager) DidOpen(uri, languageID string, version int, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.documents[uri] = NewDocument(uri, languageID, version, content)
	return nil
}

// DidClose handles the textDocument/didClose notification
func (m *Manager) DidClose(uri string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.documents[uri]; !exists {
		return fmt.Errorf("document not found: %s", uri)
	}

	delete(m.documents, uri)
	return nil
}

// DidChange handles the textDocument/didChange notification.
// Changes are either whole-document replacements or ranged edits in UTF-16 positions.
func (m *Manager) DidChange(uri string, version int, changes []any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, exists := m.documents[uri]
	if !exists {
		return fmt.Errorf("document not found: %s", uri)
	}

	content := doc.Content()
	for _, change := range changes {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			content = c.Text
		case protocol.TextDocumentContentChangeEvent:
			if c.Range == nil {
				content = c.Text
				continue
			}
			updated, err := applyIncrementalChange(content, *c.Range, c.Text)
			if err != nil {
				return fmt.Errorf("failed to apply changes: %w", err)
			}
			content = updated
		}
	}

	if err := doc.SetContent(content, version); err != nil {
		return fmt.Errorf("failed to set document content: %w", err)
	}
	return nil
}

// applyIncrementalChange applies a single ranged edit to content
func applyIncrementalChange(content string, r protocol.Range, text string) (string, error) {
	lines := position.NewLines(content)

	start, err := lspOffset(lines, r.Start)
	if err != nil {
		return "", fmt.Errorf("start: %w", err)
	}
	end, err := lspOffset(lines, r.End)
	if err != nil {
		return "", fmt.Errorf("end: %w", err)
	}
	if end < start {
		return "", fmt.Errorf("inverted range %d:%d-%d:%d", r.Start.Line, r.Start.Character, r.End.Line, r.End.Character)
	}

	return content[:start] + text + content[end:], nil
}

// lspOffset converts an LSP position into a byte offset.
// A position one row past the last row is accepted as the end of the document.
func lspOffset(lines *position.Lines, p protocol.Position) (int, error) {
	row := int(p.Line)
	if row == lines.Count() && p.Character == 0 {
		end := lines.End()
		return lines.OffsetForPosition(end)
	}
	if row > lines.Count() {
		return 0, fmt.Errorf("line %d out of bounds (total lines: %d)", row, lines.Count())
	}
	col := position.ByteColumn(lines.Line(row), int(p.Character))
	return lines.OffsetForPosition(position.Position{Row: row, Column: col})
}

// LSPRange converts a byte-column range of lines into an LSP range with UTF-16 columns
func LSPRange(lines *position.Lines, r position.Range) protocol.Range {
	return protocol.Range{
		Start: lspPosition(lines, r.Start),
		End:   lspPosition(lines, r.End),
	}
}

func lspPosition(lines *position.Lines, p position.Position) protocol.Position {
	return protocol.Position{
		Line:      protocol.UInteger(p.Row),                                          //nolint:gosec // G115: rows are bounded by file size
		Character: protocol.UInteger(position.UTF16Column(lines.Line(p.Row), p.Column)), //nolint:gosec // G115: columns are bounded by line length
	}
}
