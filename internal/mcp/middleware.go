package mcp

import (
	"context"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// LoggingMiddleware returns middleware that logs every incoming method call
// with its duration. Logging goes to slog (stderr or the configured file),
// never stdout; stdout carries the protocol stream.
func LoggingMiddleware() sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			start := time.Now()
			result, err := next(ctx, method, req)
			elapsed := time.Since(start)

			if err != nil {
				slog.LogAttrs(ctx, slog.LevelError, "request failed",
					slog.String("method", method),
					slog.Int64("duration_ms", elapsed.Milliseconds()),
					slog.String("error", err.Error()),
				)
				return result, err
			}

			slog.LogAttrs(ctx, slog.LevelInfo, "request completed",
				slog.String("method", method),
				slog.Int64("duration_ms", elapsed.Milliseconds()),
			)
			return result, err
		}
	}
}
