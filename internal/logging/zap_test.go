package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_LevelsAndFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := NewZapLogger(zap.New(core))
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)

	assert.Equal(t, "dbg", entries[0].Message)
	assert.Equal(t, zap.DebugLevel, entries[0].Level)
	assert.Equal(t, int64(1), entries[0].ContextMap()["a"])
	assert.Equal(t, zap.ErrorLevel, entries[3].Level)
	assert.Equal(t, int64(4), entries[3].ContextMap()["d"])
}

func TestZapLogger_With(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := NewZapLogger(zap.New(core)).With("module", "grpc_server")

	log.Info(context.Background(), "hello", "k", "v")

	entries := logs.AllUntimed()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "grpc_server", fields["module"])
	assert.Equal(t, "v", fields["k"])
}

func TestNew_Backends(t *testing.T) {
	for _, backend := range []string{BackendZap, BackendSlog} {
		t.Run(backend, func(t *testing.T) {
			var buf bytes.Buffer
			log, err := New(backend, "info", &buf)
			require.NoError(t, err)

			log.Debug(context.Background(), "hidden")
			log.Info(context.Background(), "shown", "user", "alice")

			out := buf.String()
			assert.NotContains(t, out, "hidden")
			assert.Contains(t, out, "shown")
			assert.True(t, strings.Contains(out, `"user":"alice"`), out)
		})
	}
}

func TestNew_Errors(t *testing.T) {
	_, err := New("logrus", "info", &bytes.Buffer{})
	assert.Error(t, err)

	_, err = New(BackendZap, "loud", &bytes.Buffer{})
	assert.Error(t, err)

	_, err = New(BackendSlog, "loud", &bytes.Buffer{})
	assert.Error(t, err)
}
