package batch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/qrstudio/qrstudio/internal/model"
	"github.com/qrstudio/qrstudio/internal/render"
	"github.com/qrstudio/qrstudio/internal/store"
)

// Task is one batch run. Each invocation gets its own Task, so stopping one
// run can never leak into the next.
type Task struct {
	ID        string
	outputDir string
	history   *store.Store
	progress  ProgressCallback
	log       *slog.Logger
	stopped   atomic.Bool
}

// Summary reports what one run actually did.
type Summary struct {
	RunID     string   `json:"run_id"`
	Total     int      `json:"total"`
	Completed int      `json:"completed"`
	Failed    int      `json:"failed"`
	Stopped   bool     `json:"stopped"`
	Outputs   []string `json:"outputs"`
}

// Option configures a Task.
type Option func(*Task)

// WithHistory records every generated code in the store. A nil store is
// accepted and ignored.
func WithHistory(s *store.Store) Option {
	return func(t *Task) { t.history = s }
}

// WithProgress sets the progress callback.
func WithProgress(cb ProgressCallback) Option {
	return func(t *Task) { t.progress = cb }
}

// WithLogger sets the task logger.
func WithLogger(log *slog.Logger) Option {
	return func(t *Task) { t.log = log }
}

// NewTask creates a run writing into outputDir.
func NewTask(outputDir string, opts ...Option) *Task {
	t := &Task{
		ID:        uuid.NewString(),
		outputDir: outputDir,
		progress:  NoOpProgress{},
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Stop requests cooperative cancellation. Safe from any goroutine; the item
// in flight finishes, later items are skipped.
func (t *Task) Stop() {
	t.stopped.Store(true)
}

// Stopped reports whether cancellation was requested.
func (t *Task) Stopped() bool {
	return t.stopped.Load()
}

// Run generates one output file per record. A failing item is reported and
// counted, never aborts the run. The completion event always fires, with
// partial counts when the run was stopped.
func (t *Task) Run(records []model.Record) Summary {
	summary := Summary{RunID: t.ID, Total: len(records)}

	if err := os.MkdirAll(t.outputDir, 0o755); err != nil {
		t.log.Error("creating output directory", "dir", t.outputDir, "error", err)
		summary.Failed = len(records)
		t.progress.OnComplete(0, summary.Failed, summary.Total)
		return summary
	}

	t.progress.OnStart(summary.Total)
	for i, rec := range records {
		if t.Stopped() {
			summary.Stopped = true
			break
		}

		path := filepath.Join(t.outputDir, render.Filename(rec))
		if err := render.Save(rec, path); err != nil {
			summary.Failed++
			t.progress.OnItemError(i, rec.Data, err)
			t.log.Warn("batch item failed", "run", t.ID, "index", i, "error", err)
		} else {
			summary.Completed++
			summary.Outputs = append(summary.Outputs, path)
			if t.history != nil {
				t.history.Save(rec)
			}
		}

		done := i + 1
		t.progress.OnProgress(done, summary.Total, percentOf(done, summary.Total))
	}

	t.progress.OnComplete(summary.Completed, summary.Failed, summary.Total)
	t.log.Info("batch run finished",
		"run", t.ID,
		"completed", summary.Completed,
		"failed", summary.Failed,
		"total", summary.Total,
		"stopped", summary.Stopped)
	return summary
}

func percentOf(current, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(current)/float64(total)*100)
}
