package logging

import "testing"

func TestNewZapLoggerLevels(t *testing.T) {
	for _, level := range []string{"", "debug", "info", "warn", "error"} {
		l, err := NewZapLogger(level, false)
		if err != nil {
			t.Fatalf("NewZapLogger(%q): %v", level, err)
		}
		l.Debug("level check", "level", level)
	}
	if _, err := NewZapLogger("loud", false); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}
