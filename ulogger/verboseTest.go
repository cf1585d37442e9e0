package ulogger

import (
	"sync"
	"testing"
)

// VerboseTestLogger routes log output through testing.TB, so it only appears
// for failing tests or under -test.v. Safe for concurrent use.
type VerboseTestLogger struct {
	tb      testing.TB
	service string
	mu      *sync.Mutex
}

func NewVerboseTestLogger(tb testing.TB) *VerboseTestLogger {
	return &VerboseTestLogger{tb: tb, service: "test", mu: &sync.Mutex{}}
}

func (l *VerboseTestLogger) LogLevel() int { return 0 }

func (l *VerboseTestLogger) SetLogLevel(_ string) {}

func (l *VerboseTestLogger) New(service string, _ ...Option) Logger {
	return &VerboseTestLogger{tb: l.tb, service: service, mu: l.mu}
}

func (l *VerboseTestLogger) Duplicate(_ ...Option) Logger {
	return l
}

func (l *VerboseTestLogger) logf(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.tb.Logf(level+" ["+l.service+"] "+format, args...)
}

func (l *VerboseTestLogger) Debugf(format string, args ...interface{}) {
	l.logf("DEBUG", format, args...)
}

func (l *VerboseTestLogger) Infof(format string, args ...interface{}) {
	l.logf("INFO", format, args...)
}

func (l *VerboseTestLogger) Warnf(format string, args ...interface{}) {
	l.logf("WARN", format, args...)
}

func (l *VerboseTestLogger) Errorf(format string, args ...interface{}) {
	l.logf("ERROR", format, args...)
}

func (l *VerboseTestLogger) Fatalf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.tb.Fatalf("FATAL ["+l.service+"] "+format, args...)
}
