package tally

import (
	"sync"

	"github.com/google/uuid"

	"github.com/casualjim/tally/pkg/ledger"
	"github.com/casualjim/tally/pkg/uuidx"
)

// Meter accumulates token and cost usage for a single owning entity, a
// client or an agent. It keeps two ledgers:
//
//   - actual: completions that invoked the underlying model
//   - total: every completion, cache hits included
//
// A meter belongs to exactly one entity and is mutated only on that entity's
// completion path. All methods are safe for concurrent use; Record and the
// snapshot accessors serialize on one mutex so aggregation never observes a
// torn state between the two ledgers.
type Meter struct {
	id uuid.UUID

	mu     sync.Mutex
	actual *ledger.Ledger
	total  *ledger.Ledger
}

// NewMeter creates an empty meter with a fresh identity.
func NewMeter() *Meter {
	return &Meter{
		id:     uuidx.New(),
		actual: ledger.New(),
		total:  ledger.New(),
	}
}

// ID returns the unique identifier of this meter.
func (m *Meter) ID() uuid.UUID {
	return m.id
}

// Record folds one completion into the meter. Every well-formed record lands
// in the total ledger; records not served from cache also land in the actual
// ledger. A record with zero tokens and zero cost is valid and contributes
// zero while still marking the model as observed.
//
// Malformed records (negative counts, negative cost, empty model) are
// rejected with an error wrapping ErrInvalidRecord and leave the ledgers
// untouched.
func (m *Meter) Record(rec Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	usage := rec.usage()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.total.Add(rec.Model, usage)
	if !rec.FromCache {
		m.actual.Add(rec.Model, usage)
	}
	return nil
}

// ActualUsage returns a snapshot of the actual ledger, or nil when no
// non-cached completion was ever recorded. The nil return distinguishes
// "never invoked a model" from "invoked a model at zero cost".
func (m *Meter) ActualUsage() *ledger.Ledger {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.actual.Empty() {
		return nil
	}
	return m.actual.Clone()
}

// TotalUsage returns a snapshot of the total ledger, or nil when nothing of
// any kind was ever recorded.
func (m *Meter) TotalUsage() *ledger.Ledger {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.total.Empty() {
		return nil
	}
	return m.total.Clone()
}

// Snapshot returns deep copies of both ledgers taken under a single lock
// acquisition. Callers that need the actual and total views to be mutually
// consistent (aggregation, summaries) use this instead of two separate
// accessor calls.
func (m *Meter) Snapshot() (actual, total *ledger.Ledger) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.actual.Clone(), m.total.Clone()
}

// Clear resets both ledgers to empty, as if the meter were newly created.
// The meter keeps its identity.
func (m *Meter) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.actual.Reset()
	m.total.Reset()
}
