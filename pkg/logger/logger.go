package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nikmy/klaro/pkg/environment"
	"github.com/nikmy/klaro/pkg/errors"
)

type Logger interface {
	With(label string) Logger

	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Panicf(format string, args ...any)

	Debug(err error)
	Info(err error)
	Warn(err error)
	Error(err error)
	Panic(err error)
}

func New(env environment.Env) (Logger, error) {
	var logger *zap.Logger
	var err error

	switch env {
	case environment.Production:
		logger, err = zap.NewProduction()
	case environment.Testing:
		logger = zap.NewNop()
	default:
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		return nil, errors.WrapFail(err, "init logger")
	}

	return FromZap(logger), nil
}

// FromZap wraps an already configured zap logger.
func FromZap(logger *zap.Logger) Logger {
	return &wrapper{base: logger.Sugar()}
}

type wrapper struct {
	base *zap.SugaredLogger
}

func (w *wrapper) With(label string) Logger {
	return &wrapper{w.base.Named(label)}
}

func (w *wrapper) enabled(lvl zapcore.Level) bool {
	return w.base.Desugar().Core().Enabled(lvl)
}

func (w *wrapper) logf(lvl zapcore.Level, write func(string, ...any), format string, args ...any) {
	if !w.enabled(lvl) {
		return
	}
	write(format, args...)
	_ = w.base.Sync()
}

func (w *wrapper) Debug(err error) { w.logf(zap.DebugLevel, w.base.Debugf, "%s", err) }
func (w *wrapper) Info(err error)  { w.logf(zap.InfoLevel, w.base.Infof, "%s", err) }
func (w *wrapper) Warn(err error)  { w.logf(zap.WarnLevel, w.base.Warnf, "%s", err) }
func (w *wrapper) Error(err error) { w.logf(zap.ErrorLevel, w.base.Errorf, "%s", err) }
func (w *wrapper) Panic(err error) { w.logf(zap.PanicLevel, w.base.Panicf, "%s", err) }

func (w *wrapper) Debugf(format string, args ...any) {
	w.logf(zap.DebugLevel, w.base.Debugf, format, args...)
}
func (w *wrapper) Infof(format string, args ...any) {
	w.logf(zap.InfoLevel, w.base.Infof, format, args...)
}
func (w *wrapper) Warnf(format string, args ...any) {
	w.logf(zap.WarnLevel, w.base.Warnf, format, args...)
}
func (w *wrapper) Errorf(format string, args ...any) {
	w.logf(zap.ErrorLevel, w.base.Errorf, format, args...)
}
func (w *wrapper) Panicf(format string, args ...any) {
	w.logf(zap.PanicLevel, w.base.Panicf, format, args...)
}
