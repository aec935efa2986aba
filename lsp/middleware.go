package lsp

import (
	"fmt"
	"runtime/debug"

	"bennypowers.dev/embedfmt/internal/log"
	"bennypowers.dev/embedfmt/lsp/methods/workspace"
	"bennypowers.dev/embedfmt/lsp/types"
	"github.com/tliron/glsp"
)

// recoverPanic turns a handler panic into an error and reports it to the client
func recoverPanic(ctx *glsp.Context, methodName string, err *error) {
	if r := recover(); r != nil {
		log.Error("PANIC in %s: %v\nStack trace:\n%s", methodName, r, debug.Stack())
		workspace.LogError(ctx, "Internal error in %s: %v", methodName, r)
		*err = fmt.Errorf("internal error in %s", methodName)
	}
}

// finish logs the outcome of a handler and wraps its error with the method name
func finish(req *types.RequestContext, err error) error {
	if err != nil {
		workspace.LogError(req.GLSP, "%s: %v", req.Method, err)
		return fmt.Errorf("%s: %w", req.Method, err)
	}
	for _, warning := range req.Warnings() {
		workspace.LogWarning(req.GLSP, "%s: %v", req.Method, warning)
	}
	log.Debug("%s completed", req.Method)
	return nil
}

// method wraps an LSP handler that returns (result, error) with middleware.
// Returns the underlying function type so it's compatible with protocol.Handler field types.
func method[P, R any](
	s types.ServerContext,
	methodName string,
	handler func(*types.RequestContext, P) (R, error),
) func(*glsp.Context, P) (R, error) {
	return func(ctx *glsp.Context, params P) (result R, err error) {
		defer func() {
			if err != nil {
				var zero R
				result = zero
			}
		}()
		defer recoverPanic(ctx, methodName, &err)

		log.Debug("%s started", methodName)
		req := types.NewRequestContext(s, ctx, methodName)
		result, err = handler(req, params)
		return result, finish(req, err)
	}
}

// notify wraps an LSP notification handler that returns only error
func notify[P any](
	s types.ServerContext,
	methodName string,
	handler func(*types.RequestContext, P) error,
) func(*glsp.Context, P) error {
	return func(ctx *glsp.Context, params P) (err error) {
		defer recoverPanic(ctx, methodName, &err)

		log.Debug("%s started", methodName)
		req := types.NewRequestContext(s, ctx, methodName)
		return finish(req, handler(req, params))
	}
}

// noParam wraps an LSP handler that takes no params (like Shutdown)
func noParam(
	s types.ServerContext,
	methodName string,
	handler func(*types.RequestContext) error,
) func(*glsp.Context) error {
	return func(ctx *glsp.Context) (err error) {
		defer recoverPanic(ctx, methodName, &err)

		log.Debug("%s started", methodName)
		req := types.NewRequestContext(s, ctx, methodName)
		return finish(req, handler(req))
	}
}
