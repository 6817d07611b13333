// Package batch generates many codes in one run with cooperative
// cancellation and per-item progress reporting.
package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

// ProgressCallback receives events from one batch run. Events are delivered
// in order from a single goroutine; counts never decrease.
type ProgressCallback interface {
	// OnStart is called once before the first item with the total count.
	OnStart(total int)

	// OnProgress is called after every item, whether it succeeded or not.
	// percent is pre-formatted for display.
	OnProgress(current, total int, percent string)

	// OnItemError is called when one item fails. The run continues.
	OnItemError(index int, payload string, err error)

	// OnComplete is called exactly once at the end of the run. When the run
	// was stopped early the counts are partial; they are never inflated to
	// look finished.
	OnComplete(completed, failed, total int)
}

// NoOpProgress implements ProgressCallback and does nothing.
type NoOpProgress struct{}

func (NoOpProgress) OnStart(total int)                           {}
func (NoOpProgress) OnProgress(current, total int, percent string) {}
func (NoOpProgress) OnItemError(index int, payload string, err error) {}
func (NoOpProgress) OnComplete(completed, failed, total int)     {}

// ConsoleProgress prints run progress to a writer.
type ConsoleProgress struct {
	writer    io.Writer
	prefix    string
	mutex     sync.Mutex
	startTime time.Time
}

// NewConsoleProgress creates a console progress reporter. A nil writer
// defaults to stderr.
func NewConsoleProgress(writer io.Writer, prefix string) *ConsoleProgress {
	if writer == nil {
		writer = os.Stderr
	}
	return &ConsoleProgress{writer: writer, prefix: prefix}
}

func (c *ConsoleProgress) OnStart(total int) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.startTime = time.Now()
	_, _ = fmt.Fprintf(c.writer, "%sGenerating %d codes\n", c.prefix, total)
}

func (c *ConsoleProgress) OnProgress(current, total int, percent string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	_, _ = fmt.Fprintf(c.writer, "\r%s%d/%d (%s)", c.prefix, current, total, percent)
}

func (c *ConsoleProgress) OnItemError(index int, payload string, err error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	_, _ = fmt.Fprintf(c.writer, "\n%sitem %d failed: %v\n", c.prefix, index+1, err)
}

func (c *ConsoleProgress) OnComplete(completed, failed, total int) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	elapsed := time.Since(c.startTime).Round(time.Millisecond)
	_, _ = fmt.Fprintf(c.writer, "\n%sDone: %d generated, %d failed of %d in %v\n",
		c.prefix, completed, failed, total, elapsed)
}

// LogProgress reports run progress through slog.
type LogProgress struct {
	logger *slog.Logger
	level  slog.Level
}

// NewLogProgress creates a slog-based progress reporter.
func NewLogProgress(logger *slog.Logger, level slog.Level) *LogProgress {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogProgress{logger: logger, level: level}
}

func (l *LogProgress) OnStart(total int) {
	l.logger.Log(context.Background(), l.level, "batch started", "total", total)
}

func (l *LogProgress) OnProgress(current, total int, percent string) {
	l.logger.Log(context.Background(), l.level, "batch progress",
		"current", current, "total", total, "percent", percent)
}

func (l *LogProgress) OnItemError(index int, payload string, err error) {
	l.logger.Log(context.Background(), slog.LevelError, "batch item failed",
		"index", index, "payload", payload, "error", err)
}

func (l *LogProgress) OnComplete(completed, failed, total int) {
	l.logger.Log(context.Background(), l.level, "batch completed",
		"completed", completed, "failed", failed, "total", total)
}

// MultiProgress fans events out to several callbacks.
type MultiProgress struct {
	callbacks []ProgressCallback
}

// NewMultiProgress creates a callback that reports to every argument.
func NewMultiProgress(callbacks ...ProgressCallback) *MultiProgress {
	return &MultiProgress{callbacks: callbacks}
}

func (m *MultiProgress) OnStart(total int) {
	for _, cb := range m.callbacks {
		cb.OnStart(total)
	}
}

func (m *MultiProgress) OnProgress(current, total int, percent string) {
	for _, cb := range m.callbacks {
		cb.OnProgress(current, total, percent)
	}
}

func (m *MultiProgress) OnItemError(index int, payload string, err error) {
	for _, cb := range m.callbacks {
		cb.OnItemError(index, payload, err)
	}
}

func (m *MultiProgress) OnComplete(completed, failed, total int) {
	for _, cb := range m.callbacks {
		cb.OnComplete(completed, failed, total)
	}
}
