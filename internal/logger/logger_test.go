package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(WithOutput(&buf), WithLevel(WARN))
	l.Info("hidden")
	l.Warn("shown %d", 1)
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered: %q", out)
	}
	if !strings.Contains(out, "WARN  shown 1") {
		t.Fatalf("expected warn line, got %q", out)
	}
}

func TestPrefixAndFieldsAreSorted(t *testing.T) {
	var buf bytes.Buffer
	l := New(WithOutput(&buf), WithLevel(DEBUG)).WithPrefix("round").WithField("term", "Hund").WithField("attempt", 2)
	l.Debug("scored")
	out := buf.String()
	if !strings.Contains(out, "[round] scored attempt=2 term=Hund") {
		t.Fatalf("unexpected line: %q", out)
	}
}

func TestContextCarrier(t *testing.T) {
	var buf bytes.Buffer
	l := New(WithOutput(&buf), WithLevel(DEBUG))
	ctx := NewContext(context.Background(), l)
	if FromContext(ctx) != l {
		t.Fatalf("expected logger from context")
	}
	if FromContext(context.Background()) != Default() {
		t.Fatalf("expected default logger without carrier")
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"debug": DEBUG, "INFO": INFO, "warning": WARN, "Error": ERROR, "": INFO} {
		got, ok := ParseLevel(in)
		if !ok || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v", in, got, ok)
		}
	}
	if _, ok := ParseLevel("loud"); ok {
		t.Fatalf("expected unknown level to fail")
	}
}
