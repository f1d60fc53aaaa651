package agentlib

import (
	"errors"
	"fmt"

	"github.com/casualjim/tally/agent"
	"github.com/casualjim/tally/api"
	"github.com/casualjim/tally/internal/registry"
	"github.com/casualjim/tally/provider/openai"
)

// ErrUnknownCapability is returned by Build for entries naming a capability
// that was never registered.
var ErrUnknownCapability = errors.New("unknown capability")

// Factory builds an agent from a library entry. Capabilities register one of
// these under a stable name; entries then refer to that name instead of a
// code path.
type Factory func(Entry) (api.Agent, error)

// Capabilities maps capability names to agent factories. Each runtime owns
// its own instance, there is no process-wide registry.
type Capabilities struct {
	factories registry.Registry[Factory]
}

// NewCapabilities creates an empty capability set.
func NewCapabilities() *Capabilities {
	return &Capabilities{
		factories: registry.New[Factory](),
	}
}

// Register binds a factory to a capability name. Registering the same name
// twice is an error, the first binding wins.
func (c *Capabilities) Register(name string, f Factory) error {
	if name == "" {
		return errors.New("capability name must not be empty")
	}
	if f == nil {
		return fmt.Errorf("capability %q: factory must not be nil", name)
	}
	if _, existed := c.factories.GetOrAdd(name, func() Factory { return f }); existed {
		return fmt.Errorf("capability %q already registered", name)
	}
	return nil
}

// Names returns the registered capability names, in no particular order.
func (c *Capabilities) Names() []string {
	var names []string
	c.factories.ForEach(func(name string, _ Factory) bool {
		names = append(names, name)
		return true
	})
	return names
}

// Build instantiates every entry of the library. Entries with a capability go
// through the registered factory; the rest get the default metered agent,
// with a model backbone (and thus a meter) only when the entry names one.
func (c *Capabilities) Build(lib *Library) ([]api.Agent, error) {
	agents := make([]api.Agent, 0, lib.Len())
	for _, e := range lib.Entries() {
		built, err := c.build(e)
		if err != nil {
			return nil, err
		}
		agents = append(agents, built)
	}
	return agents, nil
}

func (c *Capabilities) build(e Entry) (api.Agent, error) {
	if e.Capability != "" {
		factory, ok := c.factories.Get(e.Capability)
		if !ok {
			return nil, fmt.Errorf("%w: %q (entry %q)", ErrUnknownCapability, e.Capability, e.Name)
		}
		return factory(e)
	}

	if e.Model == "" {
		return agent.New(
			agent.Name(e.Name),
			agent.Instructions(e.SystemMessage),
		), nil
	}
	return agent.New(
		agent.Name(e.Name),
		agent.Model(openai.Model(e.Model)),
		agent.Instructions(e.SystemMessage),
	), nil
}
