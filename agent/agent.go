package agent

import (
	"github.com/fogfish/opts"

	"github.com/casualjim/tally"
	"github.com/casualjim/tally/api"
)

var _ api.Agent = (*defaultAgent)(nil)

// defaultAgent represents a metered agent with a name, an optional model
// backbone, and system instructions. The meter is created together with the
// agent and owned exclusively by it; agents without a model backbone carry no
// meter at all.
type defaultAgent struct {
	name         string
	model        api.Model
	instructions string
	meter        *tally.Meter
}

// Name returns the agent's name.
func (a *defaultAgent) Name() string {
	return a.name
}

// Model returns the agent's model backbone, nil when it has none.
func (a *defaultAgent) Model() api.Model {
	return a.model
}

func (a *defaultAgent) Instructions() string {
	return a.instructions
}

// Meter returns the usage meter owned by this agent. Agents without a model
// backbone return nil and contribute nothing to aggregation.
func (a *defaultAgent) Meter() *tally.Meter {
	return a.meter
}

var (
	Name         = opts.ForName[defaultAgent, string]("name")
	Model        = opts.ForName[defaultAgent, api.Model]("model")
	Instructions = opts.ForName[defaultAgent, string]("instructions")
)

// New creates a new agent with the provided options. A meter is attached only
// when the agent has a model backbone, there is nothing to account for
// otherwise.
func New(options ...opts.Option[defaultAgent]) api.Agent {
	agent := &defaultAgent{}
	if err := opts.Apply(agent, options); err != nil {
		panic(err)
	}
	if agent.model != nil {
		agent.meter = tally.NewMeter()
	}
	return agent
}
