package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewWithWriter(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		logLevel slog.Level
		message  string
		want     bool // whether the message should appear in output
	}{
		{
			name:     "info logged at default level",
			cfg:      Config{},
			logLevel: slog.LevelInfo,
			message:  "corpus rebuilt",
			want:     true,
		},
		{
			name:     "debug suppressed at default level",
			cfg:      Config{},
			logLevel: slog.LevelDebug,
			message:  "adapter skipped",
			want:     false,
		},
		{
			name:     "debug logged when level lowered",
			cfg:      Config{Level: slog.LevelDebug},
			logLevel: slog.LevelDebug,
			message:  "adapter skipped",
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewWithWriter(&buf, tt.cfg)

			logger.Log(t.Context(), tt.logLevel, tt.message)

			got := strings.Contains(buf.String(), tt.message)
			if got != tt.want {
				t.Errorf("message %q in output = %v, want %v (output: %q)",
					tt.message, got, tt.want, buf.String())
			}
		})
	}
}

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, Config{JSON: true})

	logger.Info("built", "fragments", 42)

	out := buf.String()
	if !strings.Contains(out, `"msg":"built"`) {
		t.Errorf("expected JSON output, got %q", out)
	}
	if !strings.Contains(out, `"fragments":42`) {
		t.Errorf("expected fragments attribute, got %q", out)
	}
}

func TestNewNop(t *testing.T) {
	logger := NewNop()
	// Must not panic and must not write anywhere observable.
	logger.Info("discarded")
	logger.Error("also discarded")
}
