package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestToZapLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		DebugLevel: zapcore.DebugLevel,
		InfoLevel:  zapcore.InfoLevel,
		WarnLevel:  zapcore.WarnLevel,
		ErrorLevel: zapcore.ErrorLevel,
		"bogus":    zapcore.InfoLevel,
		"":         zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := toZapLevel(in); got != want {
			t.Errorf("toZapLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestGet_ReturnsSingleton(t *testing.T) {
	a := Get(DebugLevel)
	b := Get(ErrorLevel)
	if a != b {
		t.Fatal("expected Get to return the same instance")
	}
}

func TestNop_With(t *testing.T) {
	l := Nop().With("user_id", 1)
	if l == nil || l.SugaredLogger == nil {
		t.Fatal("expected usable child logger")
	}
	l.Infow("discarded", "k", "v")
}

func TestSync_Deferrable(t *testing.T) {
	log := Nop()
	defer log.Sync()
	log.Debugw("flushed_on_return")
}
