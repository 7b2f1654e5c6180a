package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug": zerolog.DebugLevel,
		"WARN":  zerolog.WarnLevel,
		" Info": zerolog.InfoLevel,
		"error": zerolog.ErrorLevel,
		"":      zerolog.InfoLevel,
		"loud":  zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("%q: expected %v, got %v", in, want, got)
		}
	}
}

func TestJSONFormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New("warn", "json", &buf)

	l.Info().Msg("hidden")
	l.With("dir", "/photos").Warn().Int("rows", 2).Msg("moved")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d: %q", len(lines), buf.String())
	}

	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("Expected JSON output, got %q", lines[0])
	}
	if rec["dir"] != "/photos" || rec["message"] != "moved" || rec["level"] != "warn" {
		t.Errorf("Unexpected record %v", rec)
	}
}

func TestSetOutputKeepsLevel(t *testing.T) {
	var first, second bytes.Buffer
	l := New("error", "text", &first)
	l.SetOutput(&second)

	l.Warnf("dropped %d", 1)
	l.Errorf("kept %d", 2)

	if first.Len() != 0 {
		t.Errorf("Expected nothing on the old writer, got %q", first.String())
	}
	if !strings.Contains(second.String(), "kept 2") || strings.Contains(second.String(), "dropped") {
		t.Errorf("Unexpected output %q", second.String())
	}
}

func TestNop(t *testing.T) {
	l := OrNop(nil)
	l.Error().Msg("nothing")
	if l.Output() == nil {
		t.Error("Expected a writer")
	}
}
