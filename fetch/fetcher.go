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


package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/crenna/ragpipe/pipeline"
)

const (
	defaultPoolSize    = 8
	defaultHTTPTimeout = 30 * time.Second

	// maxPayloadSize bounds how much we read from a remote source.
	maxPayloadSize = 64 << 20
)

// Payload is the raw content retrieved from a single source, before
// conversion.
type Payload struct {
	// Source is the URL or file path the bytes came from.
	Source string

	// Data holds the raw bytes.
	Data []byte

	// ContentType is the MIME type reported by the server, or derived
	// from the file extension for local files. May be empty.
	ContentType string
}

// Failure records a source that could not be fetched. Failures are
// reported alongside successful payloads so one broken source does not
// abort a batch.
type Failure struct {
	Source string
	Err    error
}

// Fetcher retrieves raw bytes from a list of sources. HTTP and HTTPS
// URLs are fetched over the network; everything else is treated as a
// local file path. Sources are fetched concurrently on a worker pool,
// but results keep the input order.
//
// Ports: inputs "sources" ([]string), outputs "payloads" ([]*Payload)
// and "failures" ([]*Failure).
type Fetcher struct {
	client   *http.Client
	poolSize int
	logger   *slog.Logger
}

var _ pipeline.Component = (*Fetcher)(nil)

// Option configures a Fetcher.
type Option func(*Fetcher) error

// WithHTTPClient replaces the HTTP client used for remote sources.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) error {
		if client == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		f.client = client
		return nil
	}
}

// WithPoolSize sets the number of concurrent fetch workers.
func WithPoolSize(n int) Option {
	return func(f *Fetcher) error {
		if n < 1 {
			return fmt.Errorf("pool size must be at least 1, got %d", n)
		}
		f.poolSize = n
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) error {
		f.logger = logger.With("component", "fetcher")
		return nil
	}
}

// New creates a Fetcher with the given options.
func New(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		client:   &http.Client{Timeout: defaultHTTPTimeout},
		poolSize: defaultPoolSize,
		logger:   slog.Default().With("component", "fetcher"),
	}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// InputPorts implements pipeline.Component.
func (f *Fetcher) InputPorts() []string { return []string{"sources"} }

// OutputPorts implements pipeline.Component.
func (f *Fetcher) OutputPorts() []string { return []string{"payloads", "failures"} }

// Run fetches all sources. A failing source produces a Failure entry
// instead of an error; Run itself only errors on malformed input or a
// broken worker pool.
func (f *Fetcher) Run(ctx context.Context, inputs pipeline.Inputs) (pipeline.Outputs, error) {
	raw, ok := inputs["sources"]
	if !ok {
		return nil, fmt.Errorf("missing input: sources")
	}
	sources, ok := raw.([]string)
	if !ok {
		return nil, fmt.Errorf("sources: expected []string, got %T", raw)
	}

	payloads := make([]*Payload, len(sources))
	failures := make([]*Failure, len(sources))

	pool, err := ants.NewPool(f.poolSize)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, source := range sources {
		wg.Add(1)
		i, source := i, source
		submitErr := pool.Submit(func() {
			defer wg.Done()
			payload, err := f.fetchOne(ctx, source)
			if err != nil {
				f.logger.Warn("fetch failed", "source", source, "error", err)
				failures[i] = &Failure{Source: source, Err: err}
				return
			}
			payloads[i] = payload
		})
		if submitErr != nil {
			wg.Done()
			return nil, fmt.Errorf("submit fetch task: %w", submitErr)
		}
	}
	wg.Wait()

	// Compact the slots, preserving input order
	okPayloads := make([]*Payload, 0, len(sources))
	for _, p := range payloads {
		if p != nil {
			okPayloads = append(okPayloads, p)
		}
	}
	okFailures := make([]*Failure, 0)
	for _, fl := range failures {
		if fl != nil {
			okFailures = append(okFailures, fl)
		}
	}

	f.logger.Debug("fetch complete", "sources", len(sources), "fetched", len(okPayloads), "failed", len(okFailures))

	return pipeline.Outputs{
		"payloads": okPayloads,
		"failures": okFailures,
	}, nil
}

// fetchOne retrieves a single source.
func (f *Fetcher) fetchOne(ctx context.Context, source string) (*Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return f.fetchURL(ctx, source)
	}
	return f.fetchFile(source)
}

func (f *Fetcher) fetchURL(ctx context.Context, url string) (*Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("fetch %s: status %d: %s", url, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadSize))
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", url, err)
	}

	contentType := resp.Header.Get("Content-Type")
	if idx := strings.IndexByte(contentType, ';'); idx >= 0 {
		contentType = strings.TrimSpace(contentType[:idx])
	}

	return &Payload{Source: url, Data: data, ContentType: contentType}, nil
}

func (f *Fetcher) fetchFile(path string) (*Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &Payload{Source: path, Data: data}, nil
}
