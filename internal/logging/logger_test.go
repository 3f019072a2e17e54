package logging

import (
	"testing"

	"github.com/go-logr/logr"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" DEBUG ": zapcore.DebugLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"info":    zapcore.InfoLevel,
		"bogus":   zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewFallsBackToDefault(t *testing.T) {
	l := New(logr.Logger{})
	if l.log.GetSink() == nil {
		t.Fatalf("expected default sink")
	}
}

func TestForLevelDebugEnablesVerbose(t *testing.T) {
	l := New(ForLevel("debug"))
	if !l.log.V(1).Enabled() {
		t.Fatalf("expected V(1) enabled at debug level")
	}
	l = New(ForLevel("info"))
	if l.log.V(1).Enabled() {
		t.Fatalf("expected V(1) disabled at info level")
	}
}
