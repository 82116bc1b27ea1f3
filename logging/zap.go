// Package logging provides a zap-backed implementation of the veloxide
// Logger interface.
package logging

import (
	"go.uber.org/zap"

	"github.com/liamwh/veloxide"
)

// ZapLogger adapts a zap.SugaredLogger to the veloxide.Logger interface.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger wraps an existing zap logger.
func NewZapLogger(logger *zap.Logger) *ZapLogger {
	return &ZapLogger{sugar: logger.Sugar()}
}

// NewDevelopment returns a logger with zap's development configuration:
// human-readable console output at debug level.
func NewDevelopment() (*ZapLogger, error) {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return NewZapLogger(logger), nil
}

// NewProduction returns a logger with zap's production configuration:
// JSON output at info level.
func NewProduction() (*ZapLogger, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return NewZapLogger(logger), nil
}

func (l *ZapLogger) Debug(msg string, args ...interface{}) { l.sugar.Debugw(msg, args...) }
func (l *ZapLogger) Info(msg string, args ...interface{})  { l.sugar.Infow(msg, args...) }
func (l *ZapLogger) Warn(msg string, args ...interface{})  { l.sugar.Warnw(msg, args...) }
func (l *ZapLogger) Error(msg string, args ...interface{}) { l.sugar.Errorw(msg, args...) }

// Sync flushes any buffered log entries.
func (l *ZapLogger) Sync() error { return l.sugar.Sync() }

var _ veloxide.Logger = (*ZapLogger)(nil)
