// Package openai adapts openai-go completion responses to the accounting
// core. It never calls the API itself, it only maps an already-obtained
// response (plus a cache-hit flag and a price lookup) to a usage record.
package openai

import (
	"github.com/openai/openai-go"

	"github.com/casualjim/tally"
	"github.com/casualjim/tally/pricing"
)

// RecordFromCompletion converts a chat completion response into a usage
// record. The model identifier and token counts come from the response; the
// cost comes from the price lookup, zero when the model is not priced (the
// lookup logs the warning). fromCache marks completions that were replayed
// from a response cache rather than billed by the provider.
func RecordFromCompletion(comp *openai.ChatCompletion, fromCache bool, prices pricing.Lookup) tally.Record {
	rec := tally.Record{
		Model:            comp.Model,
		PromptTokens:     comp.Usage.PromptTokens,
		CompletionTokens: comp.Usage.CompletionTokens,
		FromCache:        fromCache,
	}
	if prices != nil {
		price, ok := prices.PriceFor(comp.Model)
		if ok {
			rec.Cost = float64(rec.PromptTokens)/1000*price.Prompt +
				float64(rec.CompletionTokens)/1000*price.Completion
		}
	}
	return rec
}
