package openai

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casualjim/tally/pricing"
)

func completion(model string, prompt, completionTokens int64) *openai.ChatCompletion {
	return &openai.ChatCompletion{
		Model: model,
		Usage: openai.CompletionUsage{
			PromptTokens:     prompt,
			CompletionTokens: completionTokens,
			TotalTokens:      prompt + completionTokens,
		},
	}
}

func TestRecordFromCompletion(t *testing.T) {
	prices := pricing.NewTable(map[string]pricing.Price{
		"gpt-4o-2024-08-06": {Prompt: 0.0025, Completion: 0.01},
	})

	t.Run("maps model, tokens and cost", func(t *testing.T) {
		rec := RecordFromCompletion(completion("gpt-4o-2024-08-06", 1000, 1000), false, prices)

		assert.Equal(t, "gpt-4o-2024-08-06", rec.Model)
		assert.EqualValues(t, 1000, rec.PromptTokens)
		assert.EqualValues(t, 1000, rec.CompletionTokens)
		assert.InDelta(t, 0.0125, rec.Cost, 1e-12)
		assert.False(t, rec.FromCache)
	})

	t.Run("cache hits keep their cost attribution", func(t *testing.T) {
		rec := RecordFromCompletion(completion("gpt-4o-2024-08-06", 10, 10), true, prices)
		assert.True(t, rec.FromCache)
		assert.Greater(t, rec.Cost, 0.0)
	})

	t.Run("unpriced model records zero cost", func(t *testing.T) {
		quiet := pricing.NewTable(nil,
			pricing.WithLogger(slog.New(slog.NewTextHandler(&strings.Builder{}, nil))))
		rec := RecordFromCompletion(completion("mystery-model", 10, 10), false, quiet)
		assert.Zero(t, rec.Cost)
		assert.EqualValues(t, 10, rec.PromptTokens)
	})

	t.Run("nil lookup records zero cost", func(t *testing.T) {
		rec := RecordFromCompletion(completion("gpt-4o-2024-08-06", 10, 10), false, nil)
		assert.Zero(t, rec.Cost)
	})
}

func TestModel(t *testing.T) {
	t.Run("handles are interned", func(t *testing.T) {
		require.Same(t, Model("gpt-4o"), Model("gpt-4o"))
	})

	t.Run("helpers name the expected models", func(t *testing.T) {
		assert.Equal(t, string(openai.ChatModelGPT4o), GPT4o().Name())
		assert.Equal(t, string(openai.ChatModelGPT4oMini), GPT4oMini().Name())
		assert.Equal(t, string(openai.ChatModelO1), O1().Name())
		assert.Equal(t, string(openai.ChatModelO1Mini), O1Mini().Name())
	})
}
