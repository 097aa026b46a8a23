package openai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "valid JSON unchanged",
			input: `{"relevance": 0.9, "reason": "grounded"}`,
			want:  `{"relevance": 0.9, "reason": "grounded"}`,
		},
		{
			name:  "missing opening quote on key",
			input: `{relevance": 0.9, "reason": "grounded"}`,
			want:  `{"relevance": 0.9, "reason": "grounded"}`,
		},
		{
			name:  "missing opening quote after comma",
			input: `{"relevance": 0.9, reason": "grounded"}`,
			want:  `{"relevance": 0.9, "reason": "grounded"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repairJSON(tt.input)
			assert.Equal(t, tt.want, got)

			var v verdict
			require.NoError(t, json.Unmarshal([]byte(got), &v))
		})
	}
}

func TestBuildJudgePrompt(t *testing.T) {
	prompt := buildJudgePrompt(
		"Which version was used?",
		"Version 22.11 was used.",
		[]string{"The author installed Stackable 22.11.", "Unrelated passage."},
	)

	assert.Contains(t, prompt, "Which version was used?")
	assert.Contains(t, prompt, "Version 22.11 was used.")
	assert.Contains(t, prompt, "[1] The author installed Stackable 22.11.")
	assert.Contains(t, prompt, "[2] Unrelated passage.")
}
