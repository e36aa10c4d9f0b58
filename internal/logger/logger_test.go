package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestLogger_WritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf).With(String("component", "collector"))

	l.Warn("fetch failed",
		String("symbol", "SPY"),
		Int("attempt", 2),
		Float("threshold", 0.1),
		Duration("elapsed", 1500*time.Millisecond),
		Error(errors.New("boom")),
	)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	want := map[string]interface{}{
		"level":     "warn",
		"message":   "fetch failed",
		"component": "collector",
		"symbol":    "SPY",
		"attempt":   float64(2),
		"threshold": 0.1,
		"error":     "boom",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s: expected %v, got %v", k, v, entry[k])
		}
	}
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	if _, err := New(&Config{Level: "loud"}); err == nil {
		t.Error("expected error for invalid level")
	}
}
