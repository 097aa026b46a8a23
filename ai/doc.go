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


// Package ai provides abstractions for the external AI services ragpipe
// depends on.
//
// Three interfaces cover the service boundary:
//
//   - Embedder: generates vector embeddings from text
//   - Generator: produces text completions from prompts
//   - Judge: scores answer quality (LLM-as-judge)
//
// The Provider interface aggregates them for convenient initialization.
// Two implementation sub-packages exist:
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//   - ai/mock: test doubles for unit testing without external services
//
// Public constructors in ai/openai return the interface types to enforce
// abstraction; ai/mock constructors return concrete types so tests can
// inject behavior and assert on call counts.
//
// All methods accept context.Context. Failures from the remote services
// propagate to the caller unrecovered; this package implements no retry
// or circuit breaking.
package ai
