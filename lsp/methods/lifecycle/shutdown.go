package lifecycle

import (
	"bennypowers.dev/embedfmt/internal/log"
	"bennypowers.dev/embedfmt/lsp/types"
)

// Shutdown handles the LSP shutdown request
func Shutdown(req *types.RequestContext) error {
	log.Info("Server shutting down")
	req.Server.Shutdown()
	return nil
}

// Exit handles the LSP exit notification
func Exit(req *types.RequestContext) error {
	log.Info("Server exiting")
	req.Server.Exit()
	return nil
}
