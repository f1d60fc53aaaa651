package pricing

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_PriceFor(t *testing.T) {
	t.Run("exact match", func(t *testing.T) {
		table := NewTable(map[string]Price{
			"gpt-4o": {Prompt: 0.0025, Completion: 0.01},
		})

		price, ok := table.PriceFor("gpt-4o")
		require.True(t, ok)
		assert.Equal(t, Price{Prompt: 0.0025, Completion: 0.01}, price)
	})

	t.Run("azure spelling normalizes", func(t *testing.T) {
		var buf strings.Builder
		table := NewTable(map[string]Price{
			"gpt-3.5-turbo": {Prompt: 0.0005, Completion: 0.0015},
		}, WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

		price, ok := table.PriceFor("gpt-35-turbo")
		require.True(t, ok)
		assert.Equal(t, 0.0005, price.Prompt)
		assert.Contains(t, buf.String(), "normalized azure model id")
	})

	t.Run("unversioned id falls back to the latest versioned entry", func(t *testing.T) {
		var buf strings.Builder
		table := NewTable(map[string]Price{
			"gpt-4o-2024-05-13": {Prompt: 0.005, Completion: 0.015},
			"gpt-4o-2024-08-06": {Prompt: 0.0025, Completion: 0.01},
		}, WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

		price, ok := table.PriceFor("gpt-4o")
		require.True(t, ok)
		assert.Equal(t, 0.0025, price.Prompt)
		assert.Contains(t, buf.String(), "fell back to a versioned model id")
		assert.Contains(t, buf.String(), "gpt-4o-2024-08-06")
	})

	t.Run("unknown model warns and returns zero", func(t *testing.T) {
		var buf strings.Builder
		table := NewTable(nil, WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

		price, ok := table.PriceFor("llama-hand-rolled")
		assert.False(t, ok)
		assert.Zero(t, price)
		assert.Contains(t, buf.String(), "no price known")
	})
}

func TestTable_Cost(t *testing.T) {
	table := NewTable(map[string]Price{
		"gpt-4o-2024-08-06": {Prompt: 0.0025, Completion: 0.01},
	})

	t.Run("per 1K tokens", func(t *testing.T) {
		cost, ok := table.Cost("gpt-4o-2024-08-06", 1000, 1000)
		require.True(t, ok)
		assert.InDelta(t, 0.0125, cost, 1e-12)
	})

	t.Run("zero tokens cost nothing", func(t *testing.T) {
		cost, ok := table.Cost("gpt-4o-2024-08-06", 0, 0)
		require.True(t, ok)
		assert.Zero(t, cost)
	})

	t.Run("unknown model costs zero, not ok", func(t *testing.T) {
		quiet := NewTable(nil, WithLogger(slog.New(slog.NewTextHandler(&strings.Builder{}, nil))))
		cost, ok := quiet.Cost("nope", 100, 100)
		assert.False(t, ok)
		assert.Zero(t, cost)
	})
}

func TestFromJSON(t *testing.T) {
	t.Run("object price form", func(t *testing.T) {
		table, err := FromJSON(strings.NewReader(`{
			"gpt-4o": {"prompt": 0.0025, "completion": 0.01}
		}`))
		require.NoError(t, err)

		price, ok := table.PriceFor("gpt-4o")
		require.True(t, ok)
		assert.Equal(t, 0.01, price.Completion)
	})

	t.Run("pair price form", func(t *testing.T) {
		table, err := FromJSON(strings.NewReader(`{
			"gpt-4o": [0.0025, 0.01]
		}`))
		require.NoError(t, err)

		price, ok := table.PriceFor("gpt-4o")
		require.True(t, ok)
		assert.Equal(t, Price{Prompt: 0.0025, Completion: 0.01}, price)
	})

	t.Run("malformed pair", func(t *testing.T) {
		_, err := FromJSON(strings.NewReader(`{"gpt-4o": [0.0025]}`))
		require.Error(t, err)
	})

	t.Run("not json", func(t *testing.T) {
		_, err := FromJSON(strings.NewReader(`prompt,completion`))
		require.Error(t, err)
	})
}

func TestDefault(t *testing.T) {
	table := Default()

	price, ok := table.PriceFor("gpt-4o-2024-08-06")
	require.True(t, ok)
	assert.Greater(t, price.Completion, price.Prompt)
}
