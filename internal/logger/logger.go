// Package logger carries a zap logger through contexts.
package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// New builds the process logger: development output when debug is set,
// JSON production output otherwise.
func New(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// NewContext returns a copy of ctx carrying l.
func NewContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// L returns the logger carried by ctx, falling back to the global logger.
func L(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok && l != nil {
			return l
		}
	}
	return zap.L()
}
