// Package testutil provides a ServerContext for handler tests
package testutil

import (
	"bennypowers.dev/embedfmt/internal/config"
	"bennypowers.dev/embedfmt/internal/documents"
	"bennypowers.dev/embedfmt/lsp/types"
	"github.com/tliron/glsp"
)

var _ types.ServerContext = (*MockServerContext)(nil)

// MockServerContext implements types.ServerContext for testing.
// It keeps all state in memory and records lifecycle calls.
type MockServerContext struct {
	docs        *documents.Manager
	rootURI     string
	rootPath    string
	config      *config.Config
	settings    map[string]any
	glspContext *glsp.Context

	// Optional callback replacing LoadConfig
	LoadConfigFunc func() error

	// Tracking flags for tests that need to verify methods were called
	LoadConfigCalled bool
	ShutdownCalled   bool
	ExitCalled       bool
}

// NewMockServerContext creates a new mock server context with the default configuration
func NewMockServerContext() *MockServerContext {
	return &MockServerContext{
		docs:   documents.NewManager(),
		config: config.Default(),
	}
}

// Document returns the document with the given URI
func (m *MockServerContext) Document(uri string) *documents.Document {
	return m.docs.Get(uri)
}

// DocumentManager returns the document manager
func (m *MockServerContext) DocumentManager() *documents.Manager {
	return m.docs
}

// RootURI returns the workspace root URI
func (m *MockServerContext) RootURI() string {
	return m.rootURI
}

// RootPath returns the workspace root path
func (m *MockServerContext) RootPath() string {
	return m.rootPath
}

// SetRootURI sets the workspace root URI
func (m *MockServerContext) SetRootURI(uri string) {
	m.rootURI = uri
}

// SetRootPath sets the workspace root path
func (m *MockServerContext) SetRootPath(path string) {
	m.rootPath = path
}

// Config returns a copy of the configuration
func (m *MockServerContext) Config() *config.Config {
	return m.config.Clone()
}

// SetConfig replaces the configuration
func (m *MockServerContext) SetConfig(cfg *config.Config) {
	m.config = cfg
}

// Settings returns the last settings passed to SetSettings
func (m *MockServerContext) Settings() map[string]any {
	return m.settings
}

// LoadConfig loads configuration from the root path and settings
func (m *MockServerContext) LoadConfig() error {
	m.LoadConfigCalled = true
	if m.LoadConfigFunc != nil {
		return m.LoadConfigFunc()
	}
	cfg, err := config.Load(m.rootPath, "")
	if err != nil {
		return err
	}
	if err := cfg.Apply("client settings", m.settings); err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// SetSettings stores settings and reloads the configuration
func (m *MockServerContext) SetSettings(values map[string]any) error {
	if err := config.Validate("client settings", values); err != nil {
		return err
	}
	m.settings = values
	return m.LoadConfig()
}

// GLSPContext returns the GLSP context
func (m *MockServerContext) GLSPContext() *glsp.Context {
	return m.glspContext
}

// SetGLSPContext sets the GLSP context
func (m *MockServerContext) SetGLSPContext(ctx *glsp.Context) {
	m.glspContext = ctx
}

// Shutdown records the call
func (m *MockServerContext) Shutdown() {
	m.ShutdownCalled = true
}

// Exit records the call
func (m *MockServerContext) Exit() {
	m.ExitCalled = true
}
