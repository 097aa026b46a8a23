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


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/crenna/ragpipe"
	"github.com/crenna/ragpipe/ai"
	"github.com/crenna/ragpipe/evaluate"
	"github.com/crenna/ragpipe/ingest"
	"github.com/crenna/ragpipe/query"
	"github.com/crenna/ragpipe/storage"
	"github.com/crenna/ragpipe/tracking"
)

func main() {
	app := &cli.App{
		Name:  "ragpipe",
		Usage: "Retrieval-augmented document store and query engine",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Fetch, convert, chunk, embed and store documents",
				ArgsUsage: "SOURCE [SOURCE...]",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "host",
						Usage: "OpenAI-compatible service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "api-key",
						Usage: "API key for the AI services",
					},
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Chunk size in words",
						Value: 200,
					},
					&cli.IntFlag{
						Name:  "chunk-overlap",
						Usage: "Overlap between consecutive chunks in words",
						Value: 20,
					},
					&cli.StringFlag{
						Name:  "on-duplicate",
						Usage: "Duplicate handling: skip, overwrite, fail",
						Value: "skip",
					},
				},
			},
			{
				Name:      "query",
				Usage:     "Answer a question from the stored documents",
				ArgsUsage: "QUESTION",
				Action:    queryCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "host",
						Usage: "OpenAI-compatible service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "generator-model",
						Usage:    "Generation model name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "api-key",
						Usage: "API key for the AI services",
					},
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Number of chunks to retrieve as context",
						Value:   3,
					},
					&cli.BoolFlag{
						Name:  "show-sources",
						Usage: "Print the sources the answer was built from",
						Value: true,
					},
				},
			},
			{
				Name:   "eval",
				Usage:  "Run the retrieval evaluation harness over a sample file",
				Action: evalCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "samples",
						Aliases:  []string{"s"},
						Usage:    "Path to a JSON file of evaluation samples",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "run-name",
						Usage: "Name for the tracking run",
						Value: "eval",
					},
					&cli.StringFlag{
						Name:  "host",
						Usage: "OpenAI-compatible service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "generator-model",
						Usage: "Generation model name (required with --answer-quality)",
					},
					&cli.StringFlag{
						Name:  "judge-model",
						Usage: "Judge model name (defaults to the generator model)",
					},
					&cli.StringFlag{
						Name:  "api-key",
						Usage: "API key for the AI services",
					},
					&cli.IntSliceFlag{
						Name:  "k",
						Usage: "Cutoffs for precision/recall/NDCG",
						Value: cli.NewIntSlice(1, 2, 3),
					},
					&cli.BoolFlag{
						Name:  "answer-quality",
						Usage: "Also generate answers and score them with the judge model",
					},
					&cli.StringFlag{
						Name:  "tracking-url",
						Usage: "Base URL of a tracking server; runs are kept in memory when unset",
					},
					&cli.StringFlag{
						Name:  "tracking-api-key",
						Usage: "Bearer token for the tracking server",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openStore(c *cli.Context) (*ragpipe.Store, error) {
	cfgOpts := []ai.ConfigOption{
		ai.WithHost(c.String("host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	}
	if model := c.String("generator-model"); model != "" {
		cfgOpts = append(cfgOpts, ai.WithGeneratorModel(model))
	}
	if c.IsSet("judge-model") {
		cfgOpts = append(cfgOpts, ai.WithJudgeModel(c.String("judge-model")))
	}
	if key := c.String("api-key"); key != "" {
		cfgOpts = append(cfgOpts, ai.WithAPIKey(key))
	}

	cfg := ai.NewConfig(cfgOpts...)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	store, err := ragpipe.Open(c.String("db"), ragpipe.WithAIConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return store, nil
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	sources := c.Args().Slice()
	if len(sources) == 0 {
		return fmt.Errorf("at least one source (file path or URL) is required")
	}

	policy, err := storage.ParseDuplicatePolicy(c.String("on-duplicate"))
	if err != nil {
		return err
	}

	store, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	pipe, err := store.NewIngestionPipeline(
		ingest.WithChunkSize(c.Int("chunk-size")),
		ingest.WithChunkOverlap(c.Int("chunk-overlap")),
		ingest.WithDuplicatePolicy(policy),
	)
	if err != nil {
		return fmt.Errorf("failed to build ingestion pipeline: %w", err)
	}

	result, err := pipe.Run(ctx, sources)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Stored %d chunks, skipped %d duplicates\n", len(result.Written), result.Skipped)
	for _, failure := range result.Failures {
		fmt.Fprintf(os.Stderr, "Failed: %s: %v\n", failure.Source, failure.Err)
	}
	if len(result.Failures) > 0 {
		return fmt.Errorf("%d of %d sources failed", len(result.Failures), len(sources))
	}
	return nil
}

func queryCommand(c *cli.Context) error {
	ctx := context.Background()

	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	store, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	engine, err := store.NewQueryEngine(query.WithTopK(c.Int("top-k")))
	if err != nil {
		return fmt.Errorf("failed to build query engine: %w", err)
	}

	answer, err := engine.Ask(ctx, question)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if answer.NoAnswer {
		fmt.Println("The stored documents do not answer this question.")
		return nil
	}

	fmt.Println(answer.Reply)
	if c.Bool("show-sources") {
		sources := answer.Sources()
		if len(sources) > 0 {
			fmt.Println()
			fmt.Println("Sources:")
			for _, src := range sources {
				fmt.Printf("  %s\n", src)
			}
		}
	}
	return nil
}

func evalCommand(c *cli.Context) error {
	ctx := context.Background()

	samples, err := loadSamples(c.String("samples"))
	if err != nil {
		return err
	}

	answerQuality := c.Bool("answer-quality")
	if answerQuality && c.String("generator-model") == "" {
		return fmt.Errorf("generator-model is required with --answer-quality")
	}

	store, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	harnessOpts := []evaluate.Option{
		evaluate.WithKs(c.IntSlice("k")),
		evaluate.WithProgress(os.Stderr),
	}
	if trackingURL := c.String("tracking-url"); trackingURL != "" {
		var clientOpts []tracking.ClientOption
		if key := c.String("tracking-api-key"); key != "" {
			clientOpts = append(clientOpts, tracking.WithAPIKey(key))
		}
		harnessOpts = append(harnessOpts, evaluate.WithTracker(tracking.NewClient(trackingURL, clientOpts...)))
	}

	var harness *evaluate.Harness
	if answerQuality {
		harness, err = store.NewAnswerQualityHarness(harnessOpts...)
	} else {
		harness, err = store.NewHarness(harnessOpts...)
	}
	if err != nil {
		return fmt.Errorf("failed to build harness: %w", err)
	}

	report, err := harness.Run(ctx, c.String("run-name"), samples)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Run: %s (%d samples)\n", report.RunID, len(report.Samples))
	printMeans(report.Means)
	return nil
}

func loadSamples(path string) ([]*evaluate.Sample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read samples file: %w", err)
	}

	var samples []*evaluate.Sample
	if err := json.Unmarshal(data, &samples); err != nil {
		return nil, fmt.Errorf("failed to parse samples file %s: %w", path, err)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("samples file %s contains no samples", path)
	}
	return samples, nil
}

func printMeans(means map[string]float64) {
	keys := make([]string, 0, len(means))
	for key := range means {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("%-16s %.4f\n", key, means[key])
	}
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
