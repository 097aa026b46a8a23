package tracking

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryTracker is an in-process Tracker for tests and offline use.
type MemoryTracker struct {
	mu      sync.Mutex
	runs    map[string]*Run
	metrics map[string][]Metric
	tables  map[string][]*Table
}

var _ Tracker = (*MemoryTracker)(nil)

// NewMemoryTracker creates an empty MemoryTracker.
func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{
		runs:    make(map[string]*Run),
		metrics: make(map[string][]Metric),
		tables:  make(map[string][]*Table),
	}
}

// StartRun implements Tracker.
func (t *MemoryTracker) StartRun(ctx context.Context, name string, params map[string]string) (*Run, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	// Copy params so later caller mutations cannot change the stored run.
	run := &Run{
		ID:        uuid.NewString(),
		Name:      name,
		Params:    maps.Clone(params),
		Status:    RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	t.runs[run.ID] = run

	return copyRun(run), nil
}

// LogMetric implements Tracker.
func (t *MemoryTracker) LogMetric(ctx context.Context, runID, key string, value float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.writableRun(runID); err != nil {
		return err
	}
	t.metrics[runID] = append(t.metrics[runID], Metric{Key: key, Value: value})
	return nil
}

// LogTable implements Tracker.
func (t *MemoryTracker) LogTable(ctx context.Context, runID string, table *Table) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.writableRun(runID); err != nil {
		return err
	}
	t.tables[runID] = append(t.tables[runID], copyTable(table))
	return nil
}

// FinishRun implements Tracker.
func (t *MemoryTracker) FinishRun(ctx context.Context, runID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.writableRun(runID); err != nil {
		return err
	}
	run := t.runs[runID]
	run.Status = RunStatusFinished
	run.FinishedAt = time.Now().UTC()
	return nil
}

// GetRun implements Tracker.
func (t *MemoryTracker) GetRun(ctx context.Context, runID string) (*Run, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	run, ok := t.runs[runID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return copyRun(run), nil
}

// GetMetrics implements Tracker.
func (t *MemoryTracker) GetMetrics(ctx context.Context, runID string) ([]Metric, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.runs[runID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return append([]Metric(nil), t.metrics[runID]...), nil
}

// GetTables implements Tracker.
func (t *MemoryTracker) GetTables(ctx context.Context, runID string) ([]*Table, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.runs[runID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	tables := make([]*Table, len(t.tables[runID]))
	for i, table := range t.tables[runID] {
		tables[i] = copyTable(table)
	}
	return tables, nil
}

// writableRun checks that a run exists and is still running.
// Caller must hold the mutex.
func (t *MemoryTracker) writableRun(runID string) error {
	run, ok := t.runs[runID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if run.Status == RunStatusFinished {
		return fmt.Errorf("%w: %s", ErrRunFinished, runID)
	}
	return nil
}

func copyRun(run *Run) *Run {
	copied := *run
	copied.Params = maps.Clone(run.Params)
	return &copied
}

// copyTable deep-copies a table so stored data stays frozen.
func copyTable(table *Table) *Table {
	copied := &Table{
		Name:    table.Name,
		Columns: append([]string(nil), table.Columns...),
		Rows:    make([][]string, len(table.Rows)),
	}
	for i, row := range table.Rows {
		copied.Rows[i] = append([]string(nil), row...)
	}
	return copied
}
