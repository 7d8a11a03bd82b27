// Package logctx carries a request-scoped zap logger on the context.
package logctx

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey int8

const ctxKeyLogger ctxKey = iota

func With(ctx context.Context, logger *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, ctxKeyLogger, logger)
}

// From returns the logger stored on ctx, or a no-op logger.
func From(ctx context.Context) *zap.SugaredLogger {
	if logger, ok := ctx.Value(ctxKeyLogger).(*zap.SugaredLogger); ok {
		return logger
	}
	return zap.NewNop().Sugar()
}
