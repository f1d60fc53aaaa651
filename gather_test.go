package tally

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type testEntity struct {
	meter *Meter
}

func (e *testEntity) Meter() *Meter { return e.meter }

func TestGather_Empty(t *testing.T) {
	combined := Gather()

	require.NotNil(t, combined.ExcludingCached)
	require.NotNil(t, combined.IncludingCached)
	assert.True(t, combined.ExcludingCached.Empty())
	assert.True(t, combined.IncludingCached.Empty())
	assert.Zero(t, combined.ExcludingCached.TotalCost())
	assert.Zero(t, combined.IncludingCached.TotalCost())
}

func TestGather_SkipsEntitiesWithoutMeter(t *testing.T) {
	noMeter := &testEntity{}

	withMeter := &testEntity{meter: NewMeter()}
	require.NoError(t, withMeter.meter.Record(Record{
		Model:            "gpt-4o-2024-08-06",
		PromptTokens:     25,
		CompletionTokens: 129,
		Cost:             0.154,
	}))

	combined := Gather(noMeter, withMeter, nil)

	assert.InDelta(t, 0.154, combined.ExcludingCached.TotalCost(), 1e-12)
	assert.InDelta(t, 0.154, combined.IncludingCached.TotalCost(), 1e-12)
	assert.Equal(t, []string{"gpt-4o-2024-08-06"}, combined.IncludingCached.Models())
}

func TestGather_MergesAcrossEntities(t *testing.T) {
	a := &testEntity{meter: NewMeter()}
	require.NoError(t, a.meter.Record(Record{Model: "gpt-4o", PromptTokens: 10, CompletionTokens: 10, Cost: 0.1}))
	require.NoError(t, a.meter.Record(Record{Model: "gpt-4o", PromptTokens: 10, CompletionTokens: 10, Cost: 0.1, FromCache: true}))

	b := &testEntity{meter: NewMeter()}
	require.NoError(t, b.meter.Record(Record{Model: "gpt-4o", PromptTokens: 5, CompletionTokens: 5, Cost: 0.05}))
	require.NoError(t, b.meter.Record(Record{Model: "o1", PromptTokens: 2, CompletionTokens: 2, Cost: 0.5}))

	combined := Gather(a, b)

	actual, ok := combined.ExcludingCached.Get("gpt-4o")
	require.True(t, ok)
	assert.InDelta(t, 0.15, actual.Cost, 1e-12)
	assert.EqualValues(t, 30, actual.TotalTokens)

	total, ok := combined.IncludingCached.Get("gpt-4o")
	require.True(t, ok)
	assert.InDelta(t, 0.25, total.Cost, 1e-12)
	assert.EqualValues(t, 50, total.TotalTokens)

	_, ok = combined.IncludingCached.Get("o1")
	assert.True(t, ok)
}

func TestGather_DoesNotMutateMeters(t *testing.T) {
	e := &testEntity{meter: NewMeter()}
	require.NoError(t, e.meter.Record(Record{Model: "gpt-4o", Cost: 0.1}))

	combined := Gather(e, e)
	// the same entity listed twice counts twice in the combined view
	assert.InDelta(t, 0.2, combined.IncludingCached.TotalCost(), 1e-12)

	// but the entity's own meter is untouched
	assert.InDelta(t, 0.1, e.meter.TotalUsage().TotalCost(), 1e-12)
}

func TestGatherMeters(t *testing.T) {
	m := NewMeter()
	require.NoError(t, m.Record(Record{Model: "gpt-4o", Cost: 0.1}))

	combined := GatherMeters(nil, m)
	assert.InDelta(t, 0.1, combined.IncludingCached.TotalCost(), 1e-12)
}

func TestCombined_JSONKeys(t *testing.T) {
	e := &testEntity{meter: NewMeter()}
	require.NoError(t, e.meter.Record(Record{Model: "gpt-4o", PromptTokens: 1, CompletionTokens: 1, Cost: 0.1}))

	data, err := json.Marshal(Gather(e))
	require.NoError(t, err)

	parsed := gjson.ParseBytes(data)
	require.True(t, parsed.Get("usage_excluding_cached_inference").Exists())
	require.True(t, parsed.Get("usage_including_cached_inference").Exists())
	assert.InDelta(t, 0.1, parsed.Get("usage_including_cached_inference.total_cost").Float(), 1e-12)
}
