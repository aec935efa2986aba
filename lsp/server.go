// Package lsp serves embedfmt over the Language Server Protocol: documents
// are formatted on request and, when configured, before they are saved.
package lsp

import (
	"os"
	"sync"

	"bennypowers.dev/embedfmt/internal/config"
	"bennypowers.dev/embedfmt/internal/documents"
	"bennypowers.dev/embedfmt/internal/log"
	"bennypowers.dev/embedfmt/lsp/methods/lifecycle"
	"bennypowers.dev/embedfmt/lsp/methods/textDocument"
	"bennypowers.dev/embedfmt/lsp/methods/textDocument/formatting"
	"bennypowers.dev/embedfmt/lsp/methods/workspace"
	"bennypowers.dev/embedfmt/lsp/types"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

// Name is the server name reported to clients
const Name = "embedfmt"

// Verify that Server implements ServerContext interface
var _ types.ServerContext = (*Server)(nil)

// Server is the embedfmt language server
type Server struct {
	documents  *documents.Manager
	glspServer *server.Server
	context    *glsp.Context
	rootURI    string
	rootPath   string
	configPath string         // Explicit configuration file from the command line
	settings   map[string]any // Last settings received from the client
	config     *config.Config
	shutdown   bool
	exit       func(code int)
	mu         sync.RWMutex // Protects everything above except documents and glspServer
}

// Options configures a Server
type Options struct {
	// ConfigPath is an explicit configuration file layered over the workspace configuration
	ConfigPath string
	// Exit terminates the process; defaults to os.Exit
	Exit func(code int)
}

// NewServer creates a new language server
func NewServer(opts Options) (*Server, error) {
	s := &Server{
		documents:  documents.NewManager(),
		configPath: opts.ConfigPath,
		config:     config.Default(),
		exit:       opts.Exit,
	}
	if s.exit == nil {
		s.exit = os.Exit
	}

	// Create the GLSP server with our handlers wrapped with middleware
	handler := protocol.Handler{
		Initialize:                      method(s, "initialize", lifecycle.Initialize),
		Initialized:                     notify(s, "initialized", lifecycle.Initialized),
		Shutdown:                        noParam(s, "shutdown", lifecycle.Shutdown),
		Exit:                            noParam(s, "exit", lifecycle.Exit),
		SetTrace:                        notify(s, "$/setTrace", lifecycle.SetTrace),
		WorkspaceDidChangeConfiguration: notify(s, "workspace/didChangeConfiguration", workspace.DidChangeConfiguration),
		TextDocumentDidOpen:             notify(s, "textDocument/didOpen", textDocument.DidOpen),
		TextDocumentDidChange:           notify(s, "textDocument/didChange", textDocument.DidChange),
		TextDocumentDidClose:            notify(s, "textDocument/didClose", textDocument.DidClose),
		TextDocumentFormatting:          method(s, "textDocument/formatting", formatting.Formatting),
		TextDocumentWillSaveWaitUntil:   method(s, "textDocument/willSaveWaitUntil", formatting.WillSaveWaitUntil),
	}

	s.glspServer = server.NewServer(&handler, Name, false)

	return s, nil
}

// RunStdio starts the LSP server using stdio transport
func (s *Server) RunStdio() error {
	return s.glspServer.RunStdio()
}

// Document returns the document with the given URI
func (s *Server) Document(uri string) *documents.Document {
	return s.documents.Get(uri)
}

// DocumentManager returns the document manager
func (s *Server) DocumentManager() *documents.Manager {
	return s.documents
}

// RootURI returns the workspace root URI
func (s *Server) RootURI() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rootURI
}

// RootPath returns the workspace root path
func (s *Server) RootPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rootPath
}

// SetRootURI sets the workspace root URI
func (s *Server) SetRootURI(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rootURI = uri
}

// SetRootPath sets the workspace root path
func (s *Server) SetRootPath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rootPath = path
}

// Config returns a copy of the current configuration
func (s *Server) Config() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.Clone()
}

// LoadConfig rebuilds the configuration: workspace files first, then the
// explicit configuration file, then client settings. On error the previous
// configuration stays in effect.
func (s *Server) LoadConfig() error {
	s.mu.RLock()
	root, explicit, settings := s.rootPath, s.configPath, s.settings
	s.mu.RUnlock()

	cfg, err := config.Load(root, explicit)
	if err != nil {
		return err
	}
	if err := cfg.Apply("client settings", settings); err != nil {
		return err
	}

	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()

	log.Info("Using engine %s for extensions %v", cfg.Engine, cfg.Extensions)
	return nil
}

// SetSettings stores client settings and reloads the configuration.
// Settings that fail validation are not kept.
func (s *Server) SetSettings(values map[string]any) error {
	if err := config.Validate("client settings", values); err != nil {
		return err
	}

	s.mu.Lock()
	s.settings = values
	s.mu.Unlock()

	return s.LoadConfig()
}

// GLSPContext returns the GLSP context
func (s *Server) GLSPContext() *glsp.Context {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.context
}

// SetGLSPContext sets the GLSP context
func (s *Server) SetGLSPContext(ctx *glsp.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.context = ctx
}

// Shutdown records that the client asked the server to shut down
func (s *Server) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shutdown = true
}

// Exit terminates the process, with status 1 unless Shutdown came first
func (s *Server) Exit() {
	s.mu.RLock()
	code := 1
	if s.shutdown {
		code = 0
	}
	exit := s.exit
	s.mu.RUnlock()

	exit(code)
}
