package logger

import (
	"github.com/showroomhq/commission-service/internal/domain/ports"
	"go.uber.org/zap"
)

// ZapAdapter adapts zap.Logger to our Logger port interface
type ZapAdapter struct {
	logger *zap.Logger
}

// NewZap creates a new ZapAdapter
func NewZap(logger *zap.Logger) *ZapAdapter {
	return &ZapAdapter{logger: logger}
}

// NewZapDevelopment creates a development logger
func NewZapDevelopment() (*ZapAdapter, error) {
	l, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return &ZapAdapter{logger: l}, nil
}

// NewZapProduction creates a production logger
func NewZapProduction() (*ZapAdapter, error) {
	l, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return &ZapAdapter{logger: l}, nil
}

// Info logs an info message
func (z *ZapAdapter) Info(msg string, fields ...ports.Field) {
	z.logger.Info(msg, convertFields(fields)...)
}

// Error logs an error message
func (z *ZapAdapter) Error(msg string, fields ...ports.Field) {
	z.logger.Error(msg, convertFields(fields)...)
}

// Warn logs a warning message
func (z *ZapAdapter) Warn(msg string, fields ...ports.Field) {
	z.logger.Warn(msg, convertFields(fields)...)
}

// Debug logs a debug message
func (z *ZapAdapter) Debug(msg string, fields ...ports.Field) {
	z.logger.Debug(msg, convertFields(fields)...)
}

// convertFields converts our Field type to zap.Field
func convertFields(fields []ports.Field) []zap.Field {
	zapFields := make([]zap.Field, len(fields))
	for i, f := range fields {
		zapFields[i] = zap.Any(f.Key, f.Value)
	}
	return zapFields
}
