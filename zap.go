package adminauth

import "go.uber.org/zap"

var _ Logger = (*ZapLogger)(nil)

// ZapLogger adapts a zap logger to the package Logger interface.
type ZapLogger struct {
	log *zap.SugaredLogger
}

// NewZapLogger wraps l for use anywhere the package accepts a Logger.
func NewZapLogger(l *zap.Logger) *ZapLogger {
	return &ZapLogger{log: l.Sugar()}
}

func (z *ZapLogger) Debug(format string, args ...any) {
	z.log.Debugf(format, args...)
}

func (z *ZapLogger) Info(format string, args ...any) {
	z.log.Infof(format, args...)
}

func (z *ZapLogger) Warn(format string, args ...any) {
	z.log.Warnf(format, args...)
}

func (z *ZapLogger) Error(format string, args ...any) {
	z.log.Errorf(format, args...)
}
