// Package openai implements the ai service interfaces against
// OpenAI-compatible HTTP APIs (OpenAI, Ollama, LocalAI, vLLM) via
// langchaingo. Constructors return the ai interface types.
package openai
