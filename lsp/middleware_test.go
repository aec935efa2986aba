package lsp

import (
	"bytes"
	"errors"
	"testing"

	"bennypowers.dev/embedfmt/internal/log"
	"bennypowers.dev/embedfmt/lsp/testutil"
	"bennypowers.dev/embedfmt/lsp/types"
	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T, level log.Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	previous := log.GetLevel()
	log.SetOutput(&buf)
	log.SetLevel(level)
	t.Cleanup(func() {
		log.SetOutput(nil)
		log.SetLevel(previous)
	})
	return &buf
}

func TestMethod_PanicRecovery(t *testing.T) {
	logBuf := captureLog(t, log.LevelInfo)

	panicHandler := func(req *types.RequestContext, params string) (string, error) {
		panic("test panic")
	}
	wrapped := method(testutil.NewMockServerContext(), "testMethod", panicHandler)

	// nil context: the panic is recovered without notifying a client
	result, err := wrapped(nil, "test params")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "internal error")
	assert.Contains(t, err.Error(), "testMethod")
	assert.Empty(t, result)
	assert.Contains(t, logBuf.String(), "PANIC")
}

func TestMethod_ErrorWrapping(t *testing.T) {
	logBuf := captureLog(t, log.LevelInfo)

	sentinel := errors.New("handler error")
	errHandler := func(req *types.RequestContext, params string) (string, error) {
		return "partial", sentinel
	}
	wrapped := method(testutil.NewMockServerContext(), "testMethod", errHandler)

	result, err := wrapped(nil, "params")

	assert.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), "testMethod")
	assert.Empty(t, result)
	assert.Contains(t, logBuf.String(), "ERROR: testMethod: handler error")
}

func TestMethod_SuccessLogging(t *testing.T) {
	logBuf := captureLog(t, log.LevelDebug)

	successHandler := func(req *types.RequestContext, params string) (string, error) {
		assert.Equal(t, "testMethod", req.Method)
		return "success result", nil
	}
	wrapped := method(testutil.NewMockServerContext(), "testMethod", successHandler)

	result, err := wrapped(nil, "params")

	assert.NoError(t, err)
	assert.Equal(t, "success result", result)
	assert.Contains(t, logBuf.String(), "started")
	assert.Contains(t, logBuf.String(), "completed")
}

func TestMethod_Warnings(t *testing.T) {
	logBuf := captureLog(t, log.LevelInfo)

	handler := func(req *types.RequestContext, params string) (string, error) {
		req.AddWarning(errors.New("stale region"))
		return "ok", nil
	}
	wrapped := method(testutil.NewMockServerContext(), "textDocument/formatting", handler)

	result, err := wrapped(nil, "params")

	assert.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Contains(t, logBuf.String(), "WARN: textDocument/formatting: stale region")
}

func TestNotify_PanicRecovery(t *testing.T) {
	logBuf := captureLog(t, log.LevelInfo)

	panicHandler := func(req *types.RequestContext, params int) error {
		panic("notify panic")
	}
	wrapped := notify(testutil.NewMockServerContext(), "testNotify", panicHandler)

	err := wrapped(nil, 42)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "internal error")
	assert.Contains(t, logBuf.String(), "PANIC")
}

func TestNotify_ErrorWrapping(t *testing.T) {
	captureLog(t, log.LevelInfo)

	wrapped := notify(testutil.NewMockServerContext(), "textDocument/didClose", func(req *types.RequestContext, params int) error {
		return errors.New("document not found")
	})

	err := wrapped(nil, 1)
	assert.EqualError(t, err, "textDocument/didClose: document not found")
}

func TestNoParam_PanicRecovery(t *testing.T) {
	logBuf := captureLog(t, log.LevelInfo)

	panicHandler := func(req *types.RequestContext) error {
		panic("noParam panic")
	}
	wrapped := noParam(testutil.NewMockServerContext(), "shutdown", panicHandler)

	err := wrapped(nil)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "internal error")
	assert.Contains(t, logBuf.String(), "PANIC")
}

func TestNoParam_Success(t *testing.T) {
	logBuf := captureLog(t, log.LevelDebug)

	wrapped := noParam(testutil.NewMockServerContext(), "shutdown", func(req *types.RequestContext) error {
		return nil
	})

	assert.NoError(t, wrapped(nil))
	assert.Contains(t, logBuf.String(), "completed")
}
