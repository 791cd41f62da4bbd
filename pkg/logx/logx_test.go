package logx

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf)
	logger.Info().Str("user", "42").Msg("balance recalculated")
	out := buf.String()
	if !strings.Contains(out, "balance recalculated") || !strings.Contains(out, `"user":"42"`) {
		t.Fatalf("unexpected log output: %s", out)
	}
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf)
	ctx := WithContext(context.Background(), logger)
	got := FromContext(ctx)
	got.Info().Msg("from context")
	if !strings.Contains(buf.String(), "from context") {
		t.Fatalf("context logger did not write to the original buffer: %s", buf.String())
	}
}
