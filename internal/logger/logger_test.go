package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestForEnv(t *testing.T) {
	if ForEnv("production", "").Development {
		t.Fatal("production must not use development mode")
	}
	if !ForEnv("dev", "").Development {
		t.Fatal("dev must use development mode")
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := New(Config{Level: "loud"}); err == nil {
		t.Fatal("expected level parse error")
	}
	l, err := New(Config{Development: true, Level: "warn"})
	if err != nil {
		t.Fatal(err)
	}
	if l.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("debug should be disabled at warn")
	}
}
