package workspace

import (
	"bytes"
	"testing"
	"time"

	"bennypowers.dev/embedfmt/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestLogError_NilContext(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(nil)

	LogError(nil, "test error: %s", "message")
	assert.Contains(t, buf.String(), "ERROR: test error: message")
}

func TestLogWarning_NilContext(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(nil)

	LogWarning(nil, "test warning: %s", "message")
	assert.Contains(t, buf.String(), "WARN: test warning: message")
}

func TestLogError_EmptyContext(t *testing.T) {
	// A context without a connection has no Notify func
	assert.NotPanics(t, func() {
		LogError(&glsp.Context{}, "test error")
	})
}

func TestLogWarning_WithContext(t *testing.T) {
	log.SetOutput(&bytes.Buffer{})
	defer log.SetOutput(nil)

	sent := make(chan *protocol.LogMessageParams, 1)
	ctx := &glsp.Context{
		Notify: func(method string, params any) {
			assert.Equal(t, protocol.ServerWindowLogMessage, method)
			sent <- params.(*protocol.LogMessageParams)
		},
	}

	LogWarning(ctx, "engine %s failed", "prettier")

	select {
	case params := <-sent:
		assert.Equal(t, protocol.MessageTypeWarning, params.Type)
		assert.Equal(t, "engine prettier failed", params.Message)
	case <-time.After(time.Second):
		t.Fatal("no log message sent")
	}
}
