package veloxide

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"
)

// ValidationMiddleware validates commands before execution. Commands that
// fail structural validation are rejected without touching the event log.
func ValidationMiddleware() Middleware {
	return func(next ExecuteFunc) ExecuteFunc {
		return func(ctx context.Context, aggregateID string, cmd Command, metadata Metadata) error {
			if err := cmd.Validate(); err != nil {
				return err
			}
			return next(ctx, aggregateID, cmd, metadata)
		}
	}
}

// LoggingMiddleware logs each command execution with its outcome and
// duration.
func LoggingMiddleware(logger Logger) Middleware {
	if logger == nil {
		logger = &noopLogger{}
	}
	return func(next ExecuteFunc) ExecuteFunc {
		return func(ctx context.Context, aggregateID string, cmd Command, metadata Metadata) error {
			start := time.Now()
			err := next(ctx, aggregateID, cmd, metadata)
			elapsed := time.Since(start)

			if err != nil {
				logger.Warn("command failed",
					"command_type", cmd.CommandType(),
					"aggregate_id", aggregateID,
					"duration", elapsed.String(),
					"error", err)
				return err
			}

			logger.Info("command executed",
				"command_type", cmd.CommandType(),
				"aggregate_id", aggregateID,
				"duration", elapsed.String())
			return nil
		}
	}
}

// RecoveryMiddleware converts panics during command execution into errors so
// a misbehaving handler cannot take the process down. The optional onPanic
// callback receives the recovered error.
func RecoveryMiddleware(onPanic func(err error)) Middleware {
	return func(next ExecuteFunc) ExecuteFunc {
		return func(ctx context.Context, aggregateID string, cmd Command, metadata Metadata) (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("veloxide: panic while executing %q: %v\n%s",
						cmd.CommandType(), r, debug.Stack())
					if onPanic != nil {
						onPanic(err)
					}
				}
			}()
			return next(ctx, aggregateID, cmd, metadata)
		}
	}
}
