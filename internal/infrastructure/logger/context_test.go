package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithCabinet(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	ctx, log := WithCabinet(context.Background(), base, "cab-123")
	log.Info("syncing")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "cab-123", entry.ContextMap()["cabinet_id"])
	assert.Equal(t, "cab-123", GetCabinetID(ctx))
}

func TestWithStage(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	ctx, log := WithStage(context.Background(), base, "fetching_cards")
	log.Info("stage started")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "fetching_cards", logs.All()[0].ContextMap()["stage"])
	assert.Equal(t, "fetching_cards", GetStage(ctx))
}

func TestFromContext_Fallback(t *testing.T) {
	log := FromContext(context.Background())
	assert.NotNil(t, log)
	// no-op logger must not panic
	log.Info("ignored")
}

func TestNew_Levels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "unknown"} {
		log, err := New(&Config{Level: level, Format: "json", Output: "stdout", TimeFormat: "2006-01-02"})
		require.NoError(t, err)
		assert.NotNil(t, log)
	}
}
