package clog

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, false)
	SetLevel(INFO)
	defer SetLevel(INFO)

	Debug("hidden %d", 1)
	Info("shown %d", 2)
	Warning("careful")
	Error("broken")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line logged at INFO level: %q", out)
	}
	for _, want := range []string{"level=INFO", `msg="shown 2"`, "level=WARNING", "level=ERROR"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}
}

func TestColorTags(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, true)
	defer SetOutput(&buf, false)

	Warning("tagged")
	// The text handler quotes the escape sequence
	if !strings.Contains(buf.String(), "[93mWARNING") {
		t.Errorf("missing colour tag in %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in    string
		level LogLevel
		ok    bool
	}{
		{"debug", DEBUG, true},
		{"INFO", INFO, true},
		{"warn", WARNING, true},
		{"Warning", WARNING, true},
		{"error", ERROR, true},
		{"loud", DEBUG, false},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			level, err := ParseLevel(tc.in)
			if (err == nil) != tc.ok {
				t.Fatalf("unexpected error: %v", err)
			}
			if level != tc.level {
				t.Errorf("got %v, expected %v", level, tc.level)
			}
		})
	}
}
