// Package logging provides the structured logging sink used across lurkr.
//
// It wraps logrus the way the proxy's ambient stack calls for: a small
// Level type distinct from logrus's own, fields-based structured entries,
// and a single process-wide sink built once in main and threaded down by
// reference, never recreated per connection.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Level controls verbosity. Only two levels are meaningful to the CLI
// surface (spec.md's --debug flag raises info to debug); logrus itself
// still understands the full gamut for entries logged at warn/error.
type Level uint8

const (
	Info Level = iota
	Debug
)

// Sink is the opaque logging collaborator every core package receives by
// reference. It is deliberately narrow: callers do not get to reconfigure
// it, only to log through it.
type Sink struct {
	l *logrus.Logger
}

// New builds a Sink writing to w (os.Stderr in production, a buffer in
// tests) at the given level.
func New(w io.Writer, lvl Level) *Sink {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	if lvl == Debug {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}
	return &Sink{l: l}
}

// Default builds a Sink writing to stderr, convenient for tests and
// package examples that don't care about capturing output.
func Default(lvl Level) *Sink {
	return New(os.Stderr, lvl)
}

// Fields is a lightweight alias over logrus.Fields so callers outside
// this package never need to import logrus directly.
type Fields = logrus.Fields

// Logger is the narrow logging surface every core package depends on.
// Both *Sink and *logrus.Entry (returned by Sink.WithFields) satisfy it,
// so a connection handler can attach per-connection fields once and
// pass the result down to a dispatcher without either side needing to
// know which concrete type it's holding.
type Logger interface {
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
}

func (s *Sink) Debug(args ...interface{})                { s.l.Debug(args...) }
func (s *Sink) Debugf(format string, args ...interface{}) { s.l.Debugf(format, args...) }
func (s *Sink) Info(args ...interface{})                  { s.l.Info(args...) }
func (s *Sink) Infof(format string, args ...interface{})  { s.l.Infof(format, args...) }
func (s *Sink) Warn(args ...interface{})                  { s.l.Warn(args...) }
func (s *Sink) Warnf(format string, args ...interface{})  { s.l.Warnf(format, args...) }
func (s *Sink) Error(args ...interface{})                 { s.l.Error(args...) }
func (s *Sink) Errorf(format string, args ...interface{}) { s.l.Errorf(format, args...) }

// WithFields returns an Entry carrying structured fields attached to
// every subsequent call, mirroring logrus's own WithFields idiom.
func (s *Sink) WithFields(f Fields) *logrus.Entry {
	return s.l.WithFields(f)
}

// WithField is the single-key convenience form.
func (s *Sink) WithField(key string, value interface{}) *logrus.Entry {
	return s.l.WithField(key, value)
}
