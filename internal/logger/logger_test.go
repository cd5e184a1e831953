package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestContextCarriesLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := zap.New(core)

	ctx := NewContext(context.Background(), l.With(zap.String("layer", "background")))
	L(ctx).Info("painted")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "painted", entries[0].Message)
		assert.Equal(t, "background", entries[0].ContextMap()["layer"])
	}
}

func TestFallsBackToGlobal(t *testing.T) {
	assert.Same(t, zap.L(), L(context.Background()))
}
