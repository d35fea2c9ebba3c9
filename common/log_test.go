package common

import "testing"

type recordingLogger struct {
	lastLevel string
	lastMsg   string
}

func (r *recordingLogger) Error(format string, args ...interface{}) {
	r.lastLevel, r.lastMsg = "error", format
}
func (r *recordingLogger) Warning(format string, args ...interface{}) {
	r.lastLevel, r.lastMsg = "warning", format
}
func (r *recordingLogger) Info(format string, args ...interface{}) {
	r.lastLevel, r.lastMsg = "info", format
}
func (r *recordingLogger) Debug(format string, args ...interface{}) {
	r.lastLevel, r.lastMsg = "debug", format
}
func (r *recordingLogger) Trace(format string, args ...interface{}) {
	r.lastLevel, r.lastMsg = "trace", format
}

func TestSetLoggerReplacesPackageLogger(t *testing.T) {
	orig := Log
	defer SetLogger(orig)

	rec := &recordingLogger{}
	SetLogger(rec)
	Log.Error("boom %d", 1)
	if rec.lastLevel != "error" {
		t.Errorf("lastLevel = %q, want %q", rec.lastLevel, "error")
	}
}

func TestDummyLoggerIsSilent(t *testing.T) {
	var l Logger = DummyLogger{}
	l.Error("should not panic")
	l.Warning("should not panic")
	l.Info("should not panic")
	l.Debug("should not panic")
	l.Trace("should not panic")
}

func TestConsoleLoggerRespectsLevel(t *testing.T) {
	l := NewConsoleLogger(LogLevelError)
	if l.Level != LogLevelError {
		t.Errorf("Level = %v, want LogLevelError", l.Level)
	}
	// Below the configured level: must not panic, and is filtered inside print.
	l.Debug("filtered out")
	l.Error("emitted")
}
