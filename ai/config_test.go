package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://localhost:11434/v1", cfg.GeneratorHost)
	assert.Equal(t, "embeddinggemma", cfg.EmbeddingModel)
	assert.Equal(t, "qwen2.5:3b", cfg.GeneratorModel)
	assert.Equal(t, "none", cfg.APIKey)
	require.NoError(t, cfg.Validate())
}

func TestConfig_Options(t *testing.T) {
	cfg := NewConfig(
		WithHost("http://inference.local:9100"),
		WithEmbeddingModel("text-embedding-3-small"),
		WithGeneratorModel("gpt-4o-mini"),
		WithJudgeModel("gpt-4o"),
		WithAPIKey("sk-test"),
		WithTemperature(0.2),
	)

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://inference.local:9100/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://inference.local:9100/v1", cfg.GeneratorHost)
	assert.Equal(t, "gpt-4o", cfg.JudgeModel)
	assert.Equal(t, "sk-test", cfg.APIKey)
}

func TestConfig_Normalize(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{"bare host", "http://localhost:11434", "http://localhost:11434/v1"},
		{"trailing slash", "http://localhost:11434/", "http://localhost:11434/v1"},
		{"already normalized", "http://localhost:11434/v1", "http://localhost:11434/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig(WithHost(tt.host))
			cfg.Normalize()
			assert.Equal(t, tt.want, cfg.EmbeddingHost)
			assert.Equal(t, tt.want, cfg.GeneratorHost)
		})
	}
}

func TestConfig_Normalize_JudgeFallsBackToGenerator(t *testing.T) {
	cfg := NewConfig(WithGeneratorModel("qwen2.5:7b"))
	cfg.Normalize()
	assert.Equal(t, "qwen2.5:7b", cfg.JudgeModel)
}

func TestConfig_Validate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing embedding host", func(c *Config) { c.EmbeddingHost = "" }},
		{"missing generator host", func(c *Config) { c.GeneratorHost = "" }},
		{"missing embedding model", func(c *Config) { c.EmbeddingModel = "" }},
		{"missing generator model", func(c *Config) { c.GeneratorModel = "" }},
		{"temperature too high", func(c *Config) { c.Temperature = 2.5 }},
		{"temperature negative", func(c *Config) { c.Temperature = -0.1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
