package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapAdapter is a zapcore.Core that forwards zap records to a service Logger,
// so packages that log through zap share the service's output and level.
type ZapAdapter struct {
	logger *Logger
	fields []zapcore.Field
}

// NewZapAdapter creates a new zapcore.Core backed by the given Logger.
func NewZapAdapter(logger *Logger) *ZapAdapter {
	return &ZapAdapter{logger: logger}
}

// NewZapLogger returns a *zap.Logger that writes through the given Logger.
func NewZapLogger(logger *Logger) *zap.Logger {
	return zap.New(NewZapAdapter(logger))
}

func adaptLevel(level zapcore.Level) LogLevel {
	switch level {
	case zapcore.DebugLevel:
		return DebugLevel
	case zapcore.InfoLevel:
		return InfoLevel
	case zapcore.WarnLevel:
		return WarnLevel
	default:
		return ErrorLevel
	}
}

// Enabled implements zapcore.Core.
func (a *ZapAdapter) Enabled(level zapcore.Level) bool {
	return a.logger.shouldLog(adaptLevel(level))
}

// With implements zapcore.Core.
func (a *ZapAdapter) With(fields []zapcore.Field) zapcore.Core {
	clone := &ZapAdapter{logger: a.logger}
	clone.fields = append(append([]zapcore.Field(nil), a.fields...), fields...)
	return clone
}

// Check implements zapcore.Core.
func (a *ZapAdapter) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if a.Enabled(entry.Level) {
		return ce.AddCore(entry, a)
	}
	return ce
}

// Write implements zapcore.Core.
func (a *ZapAdapter) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range a.fields {
		f.AddTo(enc)
	}
	for _, f := range fields {
		f.AddTo(enc)
	}
	if entry.LoggerName != "" {
		enc.Fields["logger"] = entry.LoggerName
	}

	switch entry.Level {
	case zapcore.DebugLevel:
		a.logger.Debug(entry.Message, enc.Fields)
	case zapcore.InfoLevel:
		a.logger.Info(entry.Message, enc.Fields)
	case zapcore.WarnLevel:
		a.logger.Warn(entry.Message, enc.Fields)
	default:
		a.logger.Error(entry.Message, enc.Fields)
	}
	return nil
}

// Sync implements zapcore.Core.
func (a *ZapAdapter) Sync() error {
	return nil
}
