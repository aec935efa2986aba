package formatting_test

import (
	"testing"

	"bennypowers.dev/embedfmt/lsp/methods/textDocument/formatting"
	"bennypowers.dev/embedfmt/lsp/testutil"
	"bennypowers.dev/embedfmt/lsp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const uri = "file:///workspace/App.vue"

func newServer(t *testing.T, text string) *testutil.MockServerContext {
	t.Helper()
	server := testutil.NewMockServerContext()
	cfg := server.Config()
	cfg.Engine = "whitespace"
	server.SetConfig(cfg)
	require.NoError(t, server.DocumentManager().DidOpen(uri, "vue", 1, text))
	return server
}

func formattingParams() *protocol.DocumentFormattingParams {
	return &protocol.DocumentFormattingParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}
}

func TestFormatting(t *testing.T) {
	text := "<template><p>x</p></template>\n<script>\nvar a = 1   \n</script><!--é-->"
	server := newServer(t, text)

	edits, err := formatting.Formatting(types.NewRequestContext(server, nil, "textDocument/formatting"), formattingParams())
	require.NoError(t, err)
	require.Len(t, edits, 1)

	assert.Equal(t, "<template><p>x</p></template>\n<script>\nvar a = 1\n</script><!--é-->", edits[0].NewText)
	assert.Equal(t, protocol.Position{Line: 0, Character: 0}, edits[0].Range.Start)
	// "é" is two bytes but one UTF-16 code unit
	assert.Equal(t, protocol.Position{Line: 3, Character: 17}, edits[0].Range.End)

	// The open document is untouched until the client applies the edit
	assert.Equal(t, text, server.Document(uri).Text())
}

func TestFormattingNoChanges(t *testing.T) {
	server := newServer(t, "<script>\nvar a = 1\n</script>\n")

	edits, err := formatting.Formatting(types.NewRequestContext(server, nil, "textDocument/formatting"), formattingParams())
	require.NoError(t, err)
	assert.Empty(t, edits)
}

func TestFormattingUnknownDocument(t *testing.T) {
	server := testutil.NewMockServerContext()

	_, err := formatting.Formatting(types.NewRequestContext(server, nil, "textDocument/formatting"), formattingParams())
	assert.Error(t, err)
}

func TestFormattingDisabledExtension(t *testing.T) {
	server := newServer(t, "<script>\nvar a = 1   \n</script>\n")
	cfg := server.Config()
	cfg.Extensions = []string{".html"}
	server.SetConfig(cfg)

	edits, err := formatting.Formatting(types.NewRequestContext(server, nil, "textDocument/formatting"), formattingParams())
	require.NoError(t, err)
	assert.Empty(t, edits)
}

func TestWillSaveWaitUntil(t *testing.T) {
	params := &protocol.WillSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Reason:       protocol.TextDocumentSaveReasonManual,
	}

	t.Run("format on save disabled", func(t *testing.T) {
		server := newServer(t, "<script>\nvar a = 1   \n</script>\n")

		edits, err := formatting.WillSaveWaitUntil(types.NewRequestContext(server, nil, "test"), params)
		require.NoError(t, err)
		assert.Empty(t, edits)
	})

	t.Run("format on save enabled", func(t *testing.T) {
		server := newServer(t, "<script>\nvar a = 1   \n</script>\n")
		cfg := server.Config()
		cfg.FormatOnSave = true
		server.SetConfig(cfg)

		edits, err := formatting.WillSaveWaitUntil(types.NewRequestContext(server, nil, "test"), params)
		require.NoError(t, err)
		require.Len(t, edits, 1)
		assert.Equal(t, "<script>\nvar a = 1\n</script>\n", edits[0].NewText)
	})
}
