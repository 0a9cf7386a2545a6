package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestJSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelInfo)
	log.Info("trained", "merges", 3)

	out := buf.String()
	if !strings.Contains(out, `"msg":"trained"`) || !strings.Contains(out, `"merges":3`) {
		t.Fatalf("unexpected JSON output: %s", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := Text(&buf, slog.LevelWarn)
	log.Info("hidden")
	log.Debug("hidden too")
	if buf.Len() > 0 {
		t.Fatalf("expected no output below warn, got: %s", buf.String())
	}
	log.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("expected warn output, got: %s", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	t.Parallel()
	log := Discard()
	log.Error("nothing happens")
	log.With("k", "v").WithGroup("g").Info("still nothing")
}

func TestForFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format string
		want   string
	}{
		{format: "json", want: `"level":"DEBUG"`},
		{format: "text", want: "level=DEBUG"},
		{format: "pretty", want: "DEBUG"},
		{format: "", want: "DEBUG"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		ForFormat(&buf, tt.format, "debug").Debug("probe")
		if !strings.Contains(buf.String(), tt.want) || !strings.Contains(buf.String(), "probe") {
			t.Fatalf("format %q: expected %q in %s", tt.format, tt.want, buf.String())
		}
	}
}

func TestWithAndGroup(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelInfo).With("component", "trainer").WithGroup("step")
	log.Info("merge", "id", 256)

	out := buf.String()
	if !strings.Contains(out, `"component":"trainer"`) || !strings.Contains(out, `"step":{"id":256}`) {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	ctx := WithContext(context.Background(), JSON(&buf, slog.LevelInfo))
	FromContext(ctx).Info("via context")
	if !strings.Contains(buf.String(), "via context") {
		t.Fatalf("expected message via context logger, got: %s", buf.String())
	}
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext without logger returned nil")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tc := range tests {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestPrettyHandler(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	log := slog.New(h.WithAttrs([]slog.Attr{slog.String("vocab", "telugu")}).WithGroup("train"))
	log.Debug("merged", "pair", "(97,97)", "note", "two words")

	out := buf.String()
	for _, want := range []string{"DEBUG", "merged", "vocab=telugu", "train.pair=(97,97)", `train.note="two words"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got: %s", want, out)
		}
	}
}

func TestPrettyHandlerEnabled(t *testing.T) {
	t.Parallel()
	h := NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled at warn level")
	}
	if NewPrettyHandler(&bytes.Buffer{}, nil).WithGroup("") == nil {
		t.Error("WithGroup(\"\") returned nil")
	}
}
