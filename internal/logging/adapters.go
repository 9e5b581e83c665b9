package logging

import "go.uber.org/zap"

// Leveled adapts a zap logger to the key/value logger interface used by
// hashicorp/go-retryablehttp.
type Leveled struct {
	s *zap.SugaredLogger
}

// NewLeveled wraps l for retryablehttp.
func NewLeveled(l *zap.Logger) *Leveled {
	return &Leveled{s: OrNop(l).Sugar()}
}

func (l *Leveled) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }
func (l *Leveled) Info(msg string, kv ...interface{})  { l.s.Debugw(msg, kv...) }
func (l *Leveled) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
func (l *Leveled) Warn(msg string, kv ...interface{})  { l.s.Warnw(msg, kv...) }

// Printf adapts a zap logger to the printf-style logger used by resty.
type Printf struct {
	s *zap.SugaredLogger
}

// NewPrintf wraps l for resty.
func NewPrintf(l *zap.Logger) *Printf {
	return &Printf{s: OrNop(l).Sugar()}
}

func (p *Printf) Errorf(format string, v ...interface{}) { p.s.Errorf(format, v...) }
func (p *Printf) Warnf(format string, v ...interface{})  { p.s.Warnf(format, v...) }
func (p *Printf) Debugf(format string, v ...interface{}) { p.s.Debugf(format, v...) }
