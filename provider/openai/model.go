package openai

import (
	"github.com/openai/openai-go"

	"github.com/casualjim/tally/api"
	"github.com/casualjim/tally/internal/registry"
)

var modelRegistry = registry.New[api.Model]()

func GPT4oMini() api.Model {
	return Model(openai.ChatModelGPT4oMini)
}

func GPT4o() api.Model {
	return Model(openai.ChatModelGPT4o)
}

func O1Mini() api.Model {
	return Model(openai.ChatModelO1Mini)
}

func O1() api.Model {
	return Model(openai.ChatModelO1)
}

// Model returns the shared handle for the given model name, creating it on
// first use. Handles are interned so the same name always yields the same
// api.Model value.
func Model(name string) api.Model {
	m, _ := modelRegistry.GetOrAdd(name, func() api.Model {
		return &model{name: name}
	})
	return m
}

var _ api.Model = (*model)(nil)

type model struct {
	name string
}

func (m *model) Name() string {
	return m.name
}
