// Copyright 2026 Crenna Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package tracking

import (
	"context"
	"time"
)

// RunStatus is the lifecycle state of a tracked run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusFinished RunStatus = "finished"
)

// Run is one experiment run. Once finished, a run is immutable.
type Run struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Params     map[string]string `json:"params,omitempty"`
	Status     RunStatus         `json:"status"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at,omitzero"`
}

// Metric is a single named value logged to a run.
type Metric struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// Table is a named grid of results logged to a run.
type Table struct {
	Name    string     `json:"name"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Tracker records evaluation runs. Implementations: the HTTP Client for
// a tracking server and MemoryTracker for tests.
type Tracker interface {
	// StartRun opens a new run and returns it with its ID assigned.
	StartRun(ctx context.Context, name string, params map[string]string) (*Run, error)

	// LogMetric records a metric on a running run.
	// Returns ErrRunFinished if the run is already finished.
	LogMetric(ctx context.Context, runID, key string, value float64) error

	// LogTable records a result table on a running run.
	LogTable(ctx context.Context, runID string, table *Table) error

	// FinishRun marks a run finished, freezing it.
	FinishRun(ctx context.Context, runID string) error

	// GetRun reads a run back. Returns ErrRunNotFound for unknown IDs.
	GetRun(ctx context.Context, runID string) (*Run, error)

	// GetMetrics reads back the metrics logged to a run.
	GetMetrics(ctx context.Context, runID string) ([]Metric, error)

	// GetTables reads back the tables logged to a run.
	GetTables(ctx context.Context, runID string) ([]*Table, error)
}
