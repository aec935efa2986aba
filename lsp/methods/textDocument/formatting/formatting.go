// Package formatting answers textDocument/formatting and
// textDocument/willSaveWaitUntil with a single whole-document edit.
package formatting

import (
	"context"
	"fmt"

	"bennypowers.dev/embedfmt/internal/documents"
	"bennypowers.dev/embedfmt/internal/log"
	"bennypowers.dev/embedfmt/internal/position"
	"bennypowers.dev/embedfmt/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Formatting handles the textDocument/formatting request
func Formatting(req *types.RequestContext, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	return formatDocument(req, params.TextDocument.URI)
}

// WillSaveWaitUntil handles the textDocument/willSaveWaitUntil request.
// It formats only when formatOnSave is enabled.
func WillSaveWaitUntil(req *types.RequestContext, params *protocol.WillSaveTextDocumentParams) ([]protocol.TextEdit, error) {
	if !req.Server.Config().FormatOnSave {
		return nil, nil
	}
	return formatDocument(req, params.TextDocument.URI)
}

// formatDocument formats a snapshot of the open document and returns the
// edit replacing its whole text, or no edits when nothing changed
func formatDocument(req *types.RequestContext, uri string) ([]protocol.TextEdit, error) {
	doc := req.Server.DocumentManager().Snapshot(uri)
	if doc == nil {
		return nil, fmt.Errorf("document not found: %s", uri)
	}

	cfg := req.Server.Config()
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	formatter, err := cfg.Formatter(req.Server.RootPath(), req)
	if err != nil {
		return nil, err
	}

	original := doc.Text()
	lines := doc.Lines()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Regions that could not be mapped are skipped; the rest are still returned
	if _, err := formatter.Format(ctx, doc); err != nil {
		req.AddWarning(err)
	}

	if doc.Text() == original {
		log.Debug("No formatting changes for %s", uri)
		return nil, nil
	}

	return []protocol.TextEdit{{
		Range:   documents.LSPRange(lines, position.Range{End: lines.End()}),
		NewText: doc.Text(),
	}}, nil
}
