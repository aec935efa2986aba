package types

import (
	"bennypowers.dev/embedfmt/internal/config"
	"bennypowers.dev/embedfmt/internal/documents"
	"github.com/tliron/glsp"
)

// ServerContext provides all dependencies needed for LSP handlers.
// Handlers depend on this interface rather than the concrete server so they
// can be tested with a mock.
type ServerContext interface {
	// Document operations
	Document(uri string) *documents.Document
	DocumentManager() *documents.Manager

	// Workspace operations
	RootURI() string
	RootPath() string
	SetRootURI(uri string)
	SetRootPath(path string)

	// Configuration. Config returns a private copy.
	Config() *config.Config
	// LoadConfig rebuilds the configuration from the workspace files and the
	// last settings received from the client
	LoadConfig() error
	// SetSettings stores client settings and reloads the configuration
	SetSettings(values map[string]any) error

	// LSP context (for notifications outside a request)
	GLSPContext() *glsp.Context
	SetGLSPContext(ctx *glsp.Context)

	// Lifecycle
	Shutdown()
	Exit()
}
