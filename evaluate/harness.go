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


package evaluate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/crenna/ragpipe/ai"
	"github.com/crenna/ragpipe/core"
	"github.com/crenna/ragpipe/query"
	"github.com/crenna/ragpipe/storage"
	"github.com/crenna/ragpipe/tracking"
)

// defaultKs are the ranks metrics are computed at.
var defaultKs = []int{1, 2, 3}

// Sample is one evaluation case: a question and the sources a correct
// retrieval must surface.
type Sample struct {
	Question        string   `json:"question"`
	ExpectedSources []string `json:"expected_sources"`
}

// SampleResult holds the metrics for one sample.
type SampleResult struct {
	Question  string
	Retrieved []string

	// Per-k retrieval metrics
	Precision map[int]float64
	Recall    map[int]float64
	NDCG      map[int]float64

	// Answer-quality mode only
	Reply      string
	NoAnswer   bool
	JudgeScore float64
	Latency    time.Duration
}

// Report is the outcome of an evaluation run.
type Report struct {
	RunID      string
	Ks         []int
	AnswerMode bool
	Samples    []*SampleResult

	// Means maps metric names like "precision@1" to the mean over all
	// samples.
	Means map[string]float64
}

// Harness runs retrieval and answer-quality evaluation over a sample
// set and logs the results as an immutable tracking run.
type Harness struct {
	repo     storage.DocumentRepository
	embedder ai.Embedder
	tracker  tracking.Tracker
	logger   *slog.Logger

	ks        []int
	generator ai.Generator
	judge     ai.Judge
	progress  io.Writer
}

// Option configures a Harness.
type Option func(*Harness) error

// WithKs sets the ranks metrics are computed at.
func WithKs(ks []int) Option {
	return func(h *Harness) error {
		if len(ks) == 0 {
			return fmt.Errorf("at least one k is required")
		}
		for _, k := range ks {
			if k < 1 {
				return fmt.Errorf("k must be at least 1, got %d", k)
			}
		}
		sorted := append([]int(nil), ks...)
		sort.Ints(sorted)
		h.ks = sorted
		return nil
	}
}

// WithAnswerQuality enables answer-quality mode: every sample is also
// answered by the generator, scored by the judge, and timed.
func WithAnswerQuality(generator ai.Generator, judge ai.Judge) Option {
	return func(h *Harness) error {
		if generator == nil || judge == nil {
			return fmt.Errorf("answer-quality mode needs a generator and a judge")
		}
		h.generator = generator
		h.judge = judge
		return nil
	}
}

// WithTracker sets where runs are logged. Defaults to an in-memory
// tracker.
func WithTracker(tracker tracking.Tracker) Option {
	return func(h *Harness) error {
		if tracker == nil {
			return fmt.Errorf("tracker cannot be nil")
		}
		h.tracker = tracker
		return nil
	}
}

// WithProgress writes progress lines to w while evaluating.
func WithProgress(w io.Writer) Option {
	return func(h *Harness) error {
		h.progress = w
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) error {
		h.logger = logger.With("component", "evaluate")
		return nil
	}
}

// NewHarness creates a Harness over a document store.
func NewHarness(repo storage.DocumentRepository, embedder ai.Embedder, opts ...Option) (*Harness, error) {
	if repo == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	h := &Harness{
		repo:     repo,
		embedder: embedder,
		tracker:  tracking.NewMemoryTracker(),
		logger:   slog.Default().With("component", "evaluate"),
		ks:       defaultKs,
		progress: io.Discard,
	}
	for _, opt := range opts {
		if err := opt(h); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// Run evaluates all samples and returns the report. The run, its mean
// metrics, and the per-sample table are logged to the tracker before
// the run is finished.
func (h *Harness) Run(ctx context.Context, name string, samples []*Sample) (*Report, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: no samples", ErrInvalidSample)
	}
	for i, s := range samples {
		if s.Question == "" {
			return nil, fmt.Errorf("%w: sample %d has no question", ErrInvalidSample, i)
		}
		if len(s.ExpectedSources) == 0 {
			return nil, fmt.Errorf("%w: sample %d has no expected sources", ErrInvalidSample, i)
		}
	}

	mode := "retrieval"
	if h.answerMode() {
		mode = "answer-quality"
	}
	run, err := h.tracker.StartRun(ctx, name, map[string]string{
		"mode":    mode,
		"ks":      formatKs(h.ks),
		"samples": strconv.Itoa(len(samples)),
	})
	if err != nil {
		return nil, fmt.Errorf("start tracking run: %w", err)
	}

	h.logger.Info("evaluation started", "run_id", run.ID, "mode", mode, "samples", len(samples))

	var engine *query.Engine
	if h.answerMode() {
		engine, err = query.NewEngine(h.repo, h.embedder, h.generator, query.WithTopK(h.maxK()))
		if err != nil {
			return nil, err
		}
	}

	progress := NewProgressTracker(h.progress, len(samples), 1)
	progress.Start()

	report := &Report{
		RunID:      run.ID,
		Ks:         h.ks,
		AnswerMode: h.answerMode(),
	}

	for _, sample := range samples {
		result, err := h.evaluateSample(ctx, engine, sample)
		if err != nil {
			return nil, fmt.Errorf("sample %q: %w", sample.Question, err)
		}
		report.Samples = append(report.Samples, result)
		progress.Increment(1)
	}
	progress.Finish()

	report.Means = computeMeans(report)

	for _, key := range sortedKeys(report.Means) {
		if err := h.tracker.LogMetric(ctx, run.ID, key, report.Means[key]); err != nil {
			return nil, fmt.Errorf("log metric %s: %w", key, err)
		}
	}
	if err := h.tracker.LogTable(ctx, run.ID, report.Table()); err != nil {
		return nil, fmt.Errorf("log result table: %w", err)
	}
	if err := h.tracker.FinishRun(ctx, run.ID); err != nil {
		return nil, fmt.Errorf("finish tracking run: %w", err)
	}

	h.logger.Info("evaluation finished", "run_id", run.ID, "elapsed", progress.Elapsed())

	return report, nil
}

// evaluateSample runs one sample through retrieval (and, in
// answer-quality mode, generation plus judging).
func (h *Harness) evaluateSample(ctx context.Context, engine *query.Engine, sample *Sample) (*SampleResult, error) {
	expected := make(map[string]bool, len(sample.ExpectedSources))
	for _, s := range sample.ExpectedSources {
		expected[s] = true
	}

	result := &SampleResult{
		Question:  sample.Question,
		Precision: make(map[int]float64, len(h.ks)),
		Recall:    make(map[int]float64, len(h.ks)),
		NDCG:      make(map[int]float64, len(h.ks)),
	}

	var docs []*core.ScoredDocument
	if engine != nil {
		started := time.Now()
		answer, err := engine.Ask(ctx, sample.Question)
		if err != nil {
			return nil, err
		}
		result.Latency = time.Since(started)
		result.Reply = answer.Reply
		result.NoAnswer = answer.NoAnswer
		docs = answer.Documents

		contexts := make([]string, len(docs))
		for i, d := range docs {
			contexts[i] = d.Document.Content
		}
		score, err := h.judge.ScoreRelevance(ctx, sample.Question, answer.Reply, contexts)
		if err != nil {
			return nil, fmt.Errorf("judge: %w", err)
		}
		result.JudgeScore = score
	} else {
		vector, err := h.embedder.EmbedText(ctx, sample.Question)
		if err != nil {
			return nil, fmt.Errorf("embed question: %w", err)
		}
		docs, err = h.repo.FindSimilar(ctx, vector, h.maxK())
		if err != nil {
			return nil, fmt.Errorf("retrieve: %w", err)
		}
	}

	retrieved, err := sourceLabels(docs)
	if err != nil {
		return nil, err
	}
	result.Retrieved = retrieved

	for _, k := range h.ks {
		result.Precision[k] = PrecisionAtK(retrieved, expected, k)
		result.Recall[k] = RecallAtK(retrieved, expected, k)
		result.NDCG[k] = NDCGAtK(retrieved, expected, k)
	}

	return result, nil
}

// sourceLabels extracts the ranked, deduplicated source labels of the
// retrieved chunks. A chunk without a source is a hard error: metrics
// over unlabeled results would be meaningless.
func sourceLabels(docs []*core.ScoredDocument) ([]string, error) {
	var labels []string
	seen := make(map[string]bool)
	for _, d := range docs {
		if d.Document.Source == "" {
			return nil, fmt.Errorf("%w: retrieved document %d has no source", core.ErrMissingSource, d.Document.Id)
		}
		if seen[d.Document.Source] {
			continue
		}
		seen[d.Document.Source] = true
		labels = append(labels, d.Document.Source)
	}
	return labels, nil
}

func (h *Harness) answerMode() bool { return h.generator != nil && h.judge != nil }

func (h *Harness) maxK() int { return h.ks[len(h.ks)-1] }

// Table renders the report as one row per sample with a precision,
// recall, and nDCG column per k, plus judge score and latency in
// answer-quality mode.
func (r *Report) Table() *tracking.Table {
	columns := []string{"question"}
	for _, k := range r.Ks {
		columns = append(columns,
			fmt.Sprintf("precision@%d", k),
			fmt.Sprintf("recall@%d", k),
			fmt.Sprintf("ndcg@%d", k))
	}
	if r.AnswerMode {
		columns = append(columns, "judge_score", "latency_ms")
	}

	table := &tracking.Table{Name: "results", Columns: columns}
	for _, s := range r.Samples {
		row := []string{s.Question}
		for _, k := range r.Ks {
			row = append(row,
				formatMetric(s.Precision[k]),
				formatMetric(s.Recall[k]),
				formatMetric(s.NDCG[k]))
		}
		if r.AnswerMode {
			row = append(row,
				formatMetric(s.JudgeScore),
				strconv.FormatInt(s.Latency.Milliseconds(), 10))
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func computeMeans(report *Report) map[string]float64 {
	means := make(map[string]float64)
	n := float64(len(report.Samples))
	for _, k := range report.Ks {
		var p, rec, ndcg float64
		for _, s := range report.Samples {
			p += s.Precision[k]
			rec += s.Recall[k]
			ndcg += s.NDCG[k]
		}
		means[fmt.Sprintf("precision@%d", k)] = p / n
		means[fmt.Sprintf("recall@%d", k)] = rec / n
		means[fmt.Sprintf("ndcg@%d", k)] = ndcg / n
	}
	if report.AnswerMode {
		var judge, latency float64
		for _, s := range report.Samples {
			judge += s.JudgeScore
			latency += float64(s.Latency.Milliseconds())
		}
		means["judge_score"] = judge / n
		means["latency_ms"] = latency / n
	}
	return means
}

func formatMetric(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func formatKs(ks []int) string {
	parts := make([]string, len(ks))
	for i, k := range ks {
		parts[i] = strconv.Itoa(k)
	}
	return strings.Join(parts, ",")
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
