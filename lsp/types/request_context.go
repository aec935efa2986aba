package types

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// RequestContext contains all request-scoped data for an LSP method call.
// It wraps both the server-wide context and the GLSP protocol context,
// and collects non-fatal warnings the middleware logs once the handler returns.
type RequestContext struct {
	Server ServerContext // Server-wide context (documents, config)
	GLSP   *glsp.Context // GLSP protocol context (Notify, Call methods); nil in tests
	Method string

	warnings []error
}

// NewRequestContext creates a new request context
func NewRequestContext(server ServerContext, glsp *glsp.Context, method string) *RequestContext {
	return &RequestContext{
		Server: server,
		GLSP:   glsp,
		Method: method,
	}
}

// AddWarning adds a non-fatal warning to this request
func (r *RequestContext) AddWarning(err error) {
	if err != nil {
		r.warnings = append(r.warnings, err)
	}
}

// Warnings returns all warnings collected during this request
func (r *RequestContext) Warnings() []error {
	return r.warnings
}

// ReportError shows message to the user as an error popup.
// It satisfies format.Notifier; without a client connection it does nothing.
func (r *RequestContext) ReportError(message string) {
	if r.GLSP == nil || r.GLSP.Notify == nil {
		return
	}
	go r.GLSP.Notify(protocol.ServerWindowShowMessage, &protocol.ShowMessageParams{
		Type:    protocol.MessageTypeError,
		Message: message,
	})
}
