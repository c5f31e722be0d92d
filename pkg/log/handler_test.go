package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestErrFmtHandler_AddsStacktrace(t *testing.T) {
	var buf bytes.Buffer
	handler := WrapByErrFmtHandler(slog.NewJSONHandler(&buf, nil))
	logger := slog.New(handler)

	err := errors.New("refit failed")
	logger.LogAttrs(context.Background(), slog.LevelError, "estimation error", ErrAttr(err))

	var record map[string]any
	if jsonErr := json.Unmarshal(buf.Bytes(), &record); jsonErr != nil {
		t.Fatalf("failed to parse log output: %v", jsonErr)
	}

	if record[ErrAttrKey] == nil {
		t.Error("expected error attribute in log record")
	}
	if _, ok := record[StacktraceAttrKey].(string); !ok {
		t.Error("expected stacktrace attribute extracted from cockroachdb error")
	}
}

func TestToLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		if got := ToLogLevel(tt.in); got != tt.want {
			t.Errorf("ToLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
