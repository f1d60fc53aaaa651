// Package pricing resolves per-model token prices and computes completion
// costs. It is a swappable collaborator of the accounting core: the meter
// never looks up prices itself, the completion-execution layer computes the
// cost with a Lookup and hands the finished record over.
//
// Azure-style deployments often bill under a model identifier that lacks the
// version suffix of the published price list ("gpt-4o" instead of
// "gpt-4o-2024-08-06"). PriceFor falls back to the best-guess versioned entry
// in that case and logs a warning, so the cost is an estimate rather than
// silently zero.
package pricing

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/fogfish/opts"
	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"

	"github.com/casualjim/tally/pkg/slogx"
)

// Price is the USD price pair for one model, per 1K tokens.
type Price struct {
	Prompt     float64 `json:"prompt"`
	Completion float64 `json:"completion"`
}

// UnmarshalJSON accepts either the object form {"prompt": p, "completion": c}
// or the compact pair form [p, c] used by hand-maintained price files.
func (p *Price) UnmarshalJSON(data []byte) error {
	parsed := gjson.ParseBytes(data)
	if parsed.IsArray() {
		pair := parsed.Array()
		if len(pair) != 2 {
			return fmt.Errorf("price pair must have exactly 2 elements, got %d", len(pair))
		}
		p.Prompt = pair[0].Float()
		p.Completion = pair[1].Float()
		return nil
	}

	var tmp struct {
		Prompt     float64 `json:"prompt"`
		Completion float64 `json:"completion"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	p.Prompt = tmp.Prompt
	p.Completion = tmp.Completion
	return nil
}

// Lookup resolves the price pair for a model identifier. The second return
// is false when the model is unknown even after fallback; implementations
// return a zero Price in that case so cost computation degrades to zero with
// a warning instead of failing the completion path.
type Lookup interface {
	PriceFor(model string) (Price, bool)
}

// Table is an in-memory Lookup backed by a price map.
type Table struct {
	prices map[string]Price
	log    *slog.Logger
}

// WithLogger sets the logger used for fallback and unknown-model warnings.
var WithLogger = opts.ForName[Table, *slog.Logger]("log")

// NewTable creates a lookup over the given price map. The map is copied.
func NewTable(prices map[string]Price, options ...opts.Option[Table]) *Table {
	t := &Table{
		prices: make(map[string]Price, len(prices)),
		log:    slog.Default(),
	}
	for k, v := range prices {
		t.prices[k] = v
	}
	if err := opts.Apply(t, options); err != nil {
		panic(err)
	}
	return t
}

// FromJSON reads a price table from its JSON form: an object mapping model
// identifiers to price pairs, either {"prompt": p, "completion": c} objects
// or [p, c] arrays.
func FromJSON(r io.Reader, options ...opts.Option[Table]) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read price table: %w", err)
	}
	prices := make(map[string]Price)
	if err := json.Unmarshal(data, &prices); err != nil {
		return nil, fmt.Errorf("parse price table: %w", err)
	}
	return NewTable(prices, options...), nil
}

// Default returns a table seeded with the published prices for common OpenAI
// models, in USD per 1K tokens.
func Default(options ...opts.Option[Table]) *Table {
	return NewTable(map[string]Price{
		"gpt-4o":                 {Prompt: 0.0025, Completion: 0.01},
		"gpt-4o-2024-08-06":      {Prompt: 0.0025, Completion: 0.01},
		"gpt-4o-2024-05-13":      {Prompt: 0.005, Completion: 0.015},
		"gpt-4o-mini":            {Prompt: 0.00015, Completion: 0.0006},
		"gpt-4o-mini-2024-07-18": {Prompt: 0.00015, Completion: 0.0006},
		"o1":                     {Prompt: 0.015, Completion: 0.06},
		"o1-mini":                {Prompt: 0.003, Completion: 0.012},
		"gpt-4":                  {Prompt: 0.03, Completion: 0.06},
		"gpt-4-turbo":            {Prompt: 0.01, Completion: 0.03},
		"gpt-3.5-turbo":          {Prompt: 0.0005, Completion: 0.0015},
		"gpt-3.5-turbo-0125":     {Prompt: 0.0005, Completion: 0.0015},
	}, options...)
}

// PriceFor resolves the price pair for model. Resolution order:
//
//  1. exact match
//  2. exact match after normalizing azure spellings ("gpt-35-" -> "gpt-3.5-")
//  3. the latest versioned entry the identifier is a prefix of, e.g.
//     "gpt-4o" resolving to "gpt-4o-2024-08-06"
//
// Steps 2 and 3 log a warning since the resulting cost is a best guess.
// When nothing matches, a zero price and false are returned after a warning.
func (t *Table) PriceFor(model string) (Price, bool) {
	if price, ok := t.prices[model]; ok {
		return price, true
	}

	if normalized := normalizeAzure(model); normalized != model {
		if price, ok := t.prices[normalized]; ok {
			t.log.Warn("price lookup used normalized azure model id",
				slogx.Model(model), slog.String("resolved", normalized))
			return price, true
		}
	}

	if resolved, ok := t.latestVersioned(model); ok {
		t.log.Warn("price lookup fell back to a versioned model id",
			slogx.Model(model), slog.String("resolved", resolved))
		return t.prices[resolved], true
	}

	t.log.Warn("no price known for model, cost will be reported as zero",
		slogx.Model(model))
	return Price{}, false
}

// Cost computes the USD cost of one completion. The second return mirrors
// PriceFor: false means the model was unknown and the cost is zero.
func (t *Table) Cost(model string, promptTokens, completionTokens int64) (float64, bool) {
	price, ok := t.PriceFor(model)
	if !ok {
		return 0, false
	}
	cost := float64(promptTokens)/1000*price.Prompt + float64(completionTokens)/1000*price.Completion
	return cost, true
}

// latestVersioned finds table keys of the form model+"-<version>" and picks
// the lexicographically greatest, which for date-suffixed ids is the newest.
func (t *Table) latestVersioned(model string) (string, bool) {
	prefix := model + "-"
	var candidates []string
	for key := range t.prices {
		if strings.HasPrefix(key, prefix) {
			candidates = append(candidates, key)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}
	sort.Strings(candidates)
	return candidates[len(candidates)-1], true
}

func normalizeAzure(model string) string {
	return strings.Replace(model, "gpt-35-", "gpt-3.5-", 1)
}
