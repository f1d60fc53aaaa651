/*
Package tally provides usage accounting for AI agent runtimes: it tracks token
and cost consumption per model, separately for completions that invoked a
model and completions that were served from a cache, and combines the books of
many agents into one report.

The package is built around two small pieces:

  - Meter: owned by each client-like entity; folds per-completion usage
    records into two ledgers, "actual" (non-cached only) and "total"
    (everything), keyed by model identifier
  - Gather: a stateless function that merges the ledgers of a collection of
    entities into one combined report

# Basic Usage

Every completion call produces a Record (model, token counts, cost, cache-hit
flag) that is fed to the owning entity's meter. Reporting is pull-based:

	meter := tally.NewMeter()

	err := meter.Record(tally.Record{
		Model:            "gpt-4o-2024-08-06",
		PromptTokens:     25,
		CompletionTokens: 129,
		Cost:             0.154,
	})
	if err != nil {
		// Handle error
	}

	meter.FprintSummary(os.Stdout)

Aggregation across agents never mutates any agent's own meter:

	combined := tally.Gather(assistant, critic, planner)
	fmt.Println(combined.IncludingCached.TotalCost())

# Supporting packages

  - pkg/ledger: the per-model accounting primitives and their wire form
  - pricing: a swappable per-model price lookup with azure-style fallback
  - agentlib: the agent library configuration file and capability factories
  - agent: a minimal metered agent built with functional options
  - provider/openai: converts openai-go completion responses into Records

The core performs no I/O, holds no global state, and has single-mutex
concurrency semantics: recording and snapshotting one meter serialize on the
meter's own lock, nothing else.
*/
package tally
