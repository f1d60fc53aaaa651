package api

import "github.com/casualjim/tally"

// Model is the minimal surface a billed model variant must expose.
// Implementations live in the provider packages; the accounting core only
// ever needs the identifier that appears in ledgers and price tables.
type Model interface {
	Name() string
}

// Agent represents a metered entity in the system. It defines the essential
// capabilities the accounting layer relies on.
//
// Design decisions:
//   - Minimal interface: only what recording and aggregation need
//   - Explicit ownership: every agent owns exactly one meter, there is no
//     process-wide registry of meters
//   - Optional backbone: agents without an associated model return a nil
//     meter and contribute nothing to aggregation
type Agent interface {
	// Name returns the agent's unique identifier.
	// This name should be consistent across sessions and is used for logging,
	// debugging, and distinguishing between multiple agents in the system.
	Name() string

	// Model returns the model backbone this agent bills against, or nil when
	// the agent performs no model invocations.
	Model() Model

	// Instructions returns the agent's system instructions.
	Instructions() string

	// Meter returns the usage meter owned by this agent, or nil when the
	// agent has no model backbone and therefore no usage to account for.
	Meter() *tally.Meter
}
