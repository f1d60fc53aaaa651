package tally

import (
	"github.com/casualjim/tally/pkg/ledger"
)

// Metered is anything that may own a usage meter. Entities without a model
// backbone return nil and simply contribute nothing to aggregation.
type Metered interface {
	Meter() *Meter
}

// Combined is the result of aggregating usage over a set of entities. Both
// ledgers are always non-nil; aggregating nothing yields empty ledgers.
//
// The JSON field names are stable keys so downstream consumers can tell the
// two accounting modes apart.
type Combined struct {
	// ExcludingCached sums the actual ledgers: completions that invoked a
	// model.
	ExcludingCached *ledger.Ledger `json:"usage_excluding_cached_inference"`

	// IncludingCached sums the total ledgers: every completion, cache hits
	// included.
	IncludingCached *ledger.Ledger `json:"usage_including_cached_inference"`
}

// Gather combines the ledgers of the given entities into one report without
// mutating any entity's meter. Each meter is snapshotted atomically, then
// merged per model: union of model keys, elementwise sums for shared keys.
// Entities with no meter, or with nothing recorded, do not appear in the
// combined breakdown.
func Gather(entities ...Metered) Combined {
	combined := Combined{
		ExcludingCached: ledger.New(),
		IncludingCached: ledger.New(),
	}

	for _, entity := range entities {
		if entity == nil {
			continue
		}
		meter := entity.Meter()
		if meter == nil {
			continue
		}
		actual, total := meter.Snapshot()
		combined.ExcludingCached.Merge(actual)
		combined.IncludingCached.Merge(total)
	}

	return combined
}

// GatherMeters is Gather for callers holding bare meters rather than metered
// entities. Nil meters are skipped.
func GatherMeters(meters ...*Meter) Combined {
	entities := make([]Metered, 0, len(meters))
	for _, m := range meters {
		if m == nil {
			continue
		}
		entities = append(entities, meterOnly{m})
	}
	return Gather(entities...)
}

type meterOnly struct{ m *Meter }

func (o meterOnly) Meter() *Meter { return o.m }
