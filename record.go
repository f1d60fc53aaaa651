package tally

import (
	"errors"
	"fmt"

	"github.com/casualjim/tally/pkg/ledger"
)

// ErrInvalidRecord is returned by Meter.Record when a record carries negative
// numeric fields or no model identifier. Rejecting the record up front keeps
// the accumulated sums intact.
var ErrInvalidRecord = errors.New("invalid usage record")

// Record captures the billable outcome of a single completion call. The
// completion-execution layer resolves the model identifier, token counts and
// cost (via a price lookup) before handing the record to a Meter.
type Record struct {
	// Model identifies the billed model variant, e.g. "gpt-4o-2024-08-06".
	Model string `json:"model"`

	// PromptTokens and CompletionTokens are the token counts reported for
	// this completion.
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`

	// Cost is the amount billed for this completion. Zero is valid.
	Cost float64 `json:"cost"`

	// FromCache marks completions served from a response cache instead of an
	// actual model invocation. Cached completions count toward total usage
	// but not actual usage.
	FromCache bool `json:"from_cache"`
}

// Validate checks that the record is well formed.
func (r Record) Validate() error {
	switch {
	case r.Model == "":
		return fmt.Errorf("%w: missing model", ErrInvalidRecord)
	case r.PromptTokens < 0:
		return fmt.Errorf("%w: negative prompt tokens (%d)", ErrInvalidRecord, r.PromptTokens)
	case r.CompletionTokens < 0:
		return fmt.Errorf("%w: negative completion tokens (%d)", ErrInvalidRecord, r.CompletionTokens)
	case r.Cost < 0:
		return fmt.Errorf("%w: negative cost (%g)", ErrInvalidRecord, r.Cost)
	}
	return nil
}

// usage converts the record into the ledger entry it contributes.
func (r Record) usage() ledger.ModelUsage {
	return ledger.ModelUsage{
		Cost:             r.Cost,
		PromptTokens:     r.PromptTokens,
		CompletionTokens: r.CompletionTokens,
		TotalTokens:      r.PromptTokens + r.CompletionTokens,
	}
}
