package batch

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogProgress_EmitsEvents(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	lp := NewLogProgress(logger, slog.LevelInfo)

	lp.OnStart(3)
	lp.OnProgress(1, 3, "33.3%")
	lp.OnItemError(1, "bad payload", errors.New("boom"))
	lp.OnComplete(2, 1, 3)

	out := buf.String()
	assert.Contains(t, out, "batch started")
	assert.Contains(t, out, "33.3%")
	assert.Contains(t, out, "batch item failed")
	assert.Contains(t, out, "batch completed")
}

func TestMultiProgress_FansOut(t *testing.T) {
	var a, b bytes.Buffer
	mp := NewMultiProgress(
		NewConsoleProgress(&a, ""),
		NewConsoleProgress(&b, ""),
	)

	mp.OnStart(2)
	mp.OnProgress(2, 2, "100.0%")
	mp.OnComplete(2, 0, 2)

	for _, buf := range []*bytes.Buffer{&a, &b} {
		assert.Contains(t, buf.String(), "Generating 2 codes")
		assert.Contains(t, buf.String(), "2/2 (100.0%)")
	}
}
