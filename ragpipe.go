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


package ragpipe

import (
	"log/slog"

	"github.com/crenna/ragpipe/ai"
	"github.com/crenna/ragpipe/ai/openai"
	"github.com/crenna/ragpipe/evaluate"
	"github.com/crenna/ragpipe/ingest"
	"github.com/crenna/ragpipe/query"
	"github.com/crenna/ragpipe/storage"
	"github.com/crenna/ragpipe/storage/badger"
)

// Store bundles the vector store and the model provider behind one
// handle. It is the entry point for embedding this library.
type Store struct {
	backend  *badger.Backend
	repo     storage.DocumentRepository
	provider ai.Provider
	logger   *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*storeOptions)

type storeOptions struct {
	aiConfig *ai.Config
	inMemory bool
	provider ai.Provider
}

// WithAIConfig sets the model endpoints and names.
func WithAIConfig(config *ai.Config) StoreOption {
	return func(o *storeOptions) {
		o.aiConfig = config
	}
}

// WithInMemory keeps the store in memory instead of on disk.
func WithInMemory() StoreOption {
	return func(o *storeOptions) {
		o.inMemory = true
	}
}

// WithProvider injects a model provider, bypassing the OpenAI-compatible
// client. Used by tests and offline tooling.
func WithProvider(provider ai.Provider) StoreOption {
	return func(o *storeOptions) {
		o.provider = provider
	}
}

// Open opens (or creates) a store at filePath.
func Open(filePath string, opts ...StoreOption) (*Store, error) {
	options := &storeOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	repo, err := badger.NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			repo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Store{
		backend:  backend,
		repo:     repo,
		provider: provider,
		logger:   slog.Default(),
	}, nil
}

// Close releases the provider, the repository, and the backend.
func (s *Store) Close() error {
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing model provider", "err", err)
	}
	if err := s.repo.Close(); err != nil {
		s.logger.Error("error closing document repository", "err", err)
		return err
	}
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// DocumentRepository exposes the underlying repository.
func (s *Store) DocumentRepository() storage.DocumentRepository {
	return s.repo
}

// NewIngestionPipeline builds an ingestion pipeline over this store.
func (s *Store) NewIngestionPipeline(opts ...ingest.Option) (*ingest.Pipeline, error) {
	return ingest.NewPipeline(s.repo, s.provider.Embedder(), opts...)
}

// NewQueryEngine builds a query engine over this store.
func (s *Store) NewQueryEngine(opts ...query.Option) (*query.Engine, error) {
	return query.NewEngine(s.repo, s.provider.Embedder(), s.provider.Generator(), opts...)
}

// NewHarness builds an evaluation harness over this store.
func (s *Store) NewHarness(opts ...evaluate.Option) (*evaluate.Harness, error) {
	return evaluate.NewHarness(s.repo, s.provider.Embedder(), opts...)
}

// NewAnswerQualityHarness builds a harness that also generates and
// judges answers with this store's models.
func (s *Store) NewAnswerQualityHarness(opts ...evaluate.Option) (*evaluate.Harness, error) {
	opts = append(opts, evaluate.WithAnswerQuality(s.provider.Generator(), s.provider.Judge()))
	return evaluate.NewHarness(s.repo, s.provider.Embedder(), opts...)
}
