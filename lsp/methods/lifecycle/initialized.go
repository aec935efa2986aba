package lifecycle

import (
	"bennypowers.dev/embedfmt/internal/log"
	"bennypowers.dev/embedfmt/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Initialized handles the LSP initialized notification
func Initialized(req *types.RequestContext, params *protocol.InitializedParams) error {
	// Store context for notifications sent outside a request
	req.Server.SetGLSPContext(req.GLSP)

	cfg := req.Server.Config()
	log.Info("Server initialized (engine: %s, format on save: %t)", cfg.Engine, cfg.FormatOnSave)
	return nil
}
