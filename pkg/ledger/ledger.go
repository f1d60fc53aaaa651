// Package ledger provides the per-model accounting primitives used by the
// usage meter and the aggregation helpers. A Ledger keeps running token and
// cost sums keyed by model identifier, in first-appearance order, together
// with a derived grand total.
//
// Design decisions:
//   - Insertion order: models are reported in the order they were first seen,
//     so summaries stay stable across repeated queries
//   - Value semantics: ModelUsage is a plain value, merged by elementwise sum
//   - Flat wire form: the JSON shape is "total_cost" plus one entry per model
//     at the same level, matching the programmatic report consumers expect
package ledger

import (
	"strings"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ModelUsage holds the accumulated token counts and cost for one model.
// TotalTokens always equals PromptTokens + CompletionTokens.
type ModelUsage struct {
	Cost             float64 `json:"cost"`
	PromptTokens     int64   `json:"prompt_tokens"`
	CompletionTokens int64   `json:"completion_tokens"`
	TotalTokens      int64   `json:"total_tokens"`
}

// Add returns the elementwise sum of two ModelUsage values.
func (u ModelUsage) Add(other ModelUsage) ModelUsage {
	return ModelUsage{
		Cost:             u.Cost + other.Cost,
		PromptTokens:     u.PromptTokens + other.PromptTokens,
		CompletionTokens: u.CompletionTokens + other.CompletionTokens,
		TotalTokens:      u.TotalTokens + other.TotalTokens,
	}
}

// Ledger accumulates ModelUsage values keyed by model identifier.
// The zero value is not usable, construct one with New.
type Ledger struct {
	models *orderedmap.OrderedMap[string, ModelUsage]
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{
		models: orderedmap.New[string, ModelUsage](),
	}
}

// Add merges the given usage into the entry for model, creating the entry on
// first sight. A zero usage still creates the entry, the model has been
// observed even when it cost nothing.
func (l *Ledger) Add(model string, usage ModelUsage) {
	if cur, ok := l.models.Get(model); ok {
		l.models.Set(model, cur.Add(usage))
		return
	}
	l.models.Set(model, usage)
}

// Merge folds every entry of other into this ledger, union of model keys with
// elementwise sums for shared keys. The other ledger is not modified.
func (l *Ledger) Merge(other *Ledger) {
	if other == nil {
		return
	}
	for pair := other.models.Oldest(); pair != nil; pair = pair.Next() {
		l.Add(pair.Key, pair.Value)
	}
}

// Get returns the accumulated usage for model.
func (l *Ledger) Get(model string) (ModelUsage, bool) {
	return l.models.Get(model)
}

// Len returns the number of models with at least one recorded completion.
func (l *Ledger) Len() int {
	return l.models.Len()
}

// Empty reports whether no completion has ever been added.
func (l *Ledger) Empty() bool {
	return l.models.Len() == 0
}

// TotalCost returns the sum of cost over all models.
func (l *Ledger) TotalCost() float64 {
	var total float64
	for pair := l.models.Oldest(); pair != nil; pair = pair.Next() {
		total += pair.Value.Cost
	}
	return total
}

// Models returns the model identifiers in first-appearance order.
func (l *Ledger) Models() []string {
	keys := make([]string, 0, l.models.Len())
	for pair := l.models.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Clone returns a deep copy of the ledger.
func (l *Ledger) Clone() *Ledger {
	out := New()
	for pair := l.models.Oldest(); pair != nil; pair = pair.Next() {
		out.models.Set(pair.Key, pair.Value)
	}
	return out
}

// Reset removes every entry, as if the ledger were newly created.
func (l *Ledger) Reset() {
	l.models = orderedmap.New[string, ModelUsage]()
}

// Equal reports whether both ledgers contain the same models with the same
// accumulated sums. Insertion order does not participate in equality.
func (l *Ledger) Equal(other *Ledger) bool {
	if other == nil {
		return l.Empty()
	}
	if l.models.Len() != other.models.Len() {
		return false
	}
	for pair := l.models.Oldest(); pair != nil; pair = pair.Next() {
		ov, ok := other.models.Get(pair.Key)
		if !ok || ov != pair.Value {
			return false
		}
	}
	return true
}

// escapePath escapes a model identifier for use as an sjson/gjson path
// segment. Model names like "gpt-3.5-turbo" contain dots that would
// otherwise be read as nesting.
func escapePath(model string) string {
	r := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`, "|", `\|`, "#", `\#`, "@", `\@`)
	return r.Replace(model)
}

// MarshalJSON emits the wire form: total_cost first, then one entry per model
// in first-appearance order.
func (l *Ledger) MarshalJSON() ([]byte, error) {
	result := []byte(`{}`)

	result, err := sjson.SetBytes(result, "total_cost", l.TotalCost())
	if err != nil {
		return nil, err
	}

	for pair := l.models.Oldest(); pair != nil; pair = pair.Next() {
		entry, err := json.Marshal(pair.Value)
		if err != nil {
			return nil, err
		}
		result, err = sjson.SetRawBytes(result, escapePath(pair.Key), entry)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// UnmarshalJSON reads the wire form back, preserving key order. The
// total_cost field is ignored, it is derived from the entries.
func (l *Ledger) UnmarshalJSON(data []byte) error {
	l.models = orderedmap.New[string, ModelUsage]()

	var outer error
	gjson.ParseBytes(data).ForEach(func(key, value gjson.Result) bool {
		if key.Str == "total_cost" {
			return true
		}
		var usage ModelUsage
		if err := json.Unmarshal([]byte(value.Raw), &usage); err != nil {
			outer = err
			return false
		}
		l.models.Set(key.Str, usage)
		return true
	})
	return outer
}
