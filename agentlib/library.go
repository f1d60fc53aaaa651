// Package agentlib loads the agent library configuration file: a JSON
// document describing reusable agent definitions (name, model backbone,
// system message) that a runtime can instantiate on demand.
//
// Design decisions:
//   - Static configuration: the file is data, not code; nothing in it is
//     executed or imported
//   - Explicit factories: entries that need custom construction name a
//     registered capability instead of a module path, so agent construction
//     is resolved against a registry built at start time rather than by
//     arbitrary string-driven imports
//   - Tolerant envelope: both a bare JSON array and an {"agents": [...]}
//     wrapper are accepted
package agentlib

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-openapi/strfmt"
	json "github.com/goccy/go-json"
	"github.com/invopop/jsonschema"
	"github.com/tidwall/gjson"
)

// ErrInvalidLibrary is wrapped by every validation failure during Load.
var ErrInvalidLibrary = errors.New("invalid agent library")

// Entry is one agent definition in the library file.
type Entry struct {
	// Name uniquely identifies the agent within the library.
	Name string `json:"name" jsonschema:"required"`

	// Model names the model backbone the agent bills against. Entries
	// without a model describe non-LLM agents; they get no usage meter.
	Model string `json:"model,omitempty"`

	// SystemMessage is the agent's system instructions.
	SystemMessage string `json:"system_message,omitempty"`

	// Description is a short human-readable summary, shown in catalogs.
	Description string `json:"description,omitempty"`

	// Capability names a registered factory used to build this agent. Empty
	// means the default metered agent construction.
	Capability string `json:"capability,omitempty"`

	// Tags are free-form labels for filtering.
	Tags []string `json:"tags,omitempty"`

	// CreatedAt records when the entry was added to the library.
	CreatedAt strfmt.DateTime `json:"created_at,omitempty"`
}

// Library is a parsed, validated agent library.
type Library struct {
	entries []Entry
	byName  map[string]int
}

// Load parses and validates an agent library document. It accepts a bare
// array of entries or an object with an "agents" array.
func Load(r io.Reader) (*Library, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read agent library: %w", err)
	}

	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrInvalidLibrary)
	}

	parsed := gjson.ParseBytes(data)
	if !parsed.IsArray() {
		wrapped := parsed.Get("agents")
		if !wrapped.IsArray() {
			return nil, fmt.Errorf("%w: expected an array or an object with an \"agents\" array", ErrInvalidLibrary)
		}
		data = []byte(wrapped.Raw)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLibrary, err)
	}

	lib := &Library{
		entries: entries,
		byName:  make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("%w: entry %d has no name", ErrInvalidLibrary, i)
		}
		if _, dup := lib.byName[e.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate entry %q", ErrInvalidLibrary, e.Name)
		}
		lib.byName[e.Name] = i
	}
	return lib, nil
}

// Entries returns the library entries in file order.
func (l *Library) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Get returns the entry with the given name.
func (l *Library) Get(name string) (Entry, bool) {
	i, ok := l.byName[name]
	if !ok {
		return Entry{}, false
	}
	return l.entries[i], true
}

// Len returns the number of entries.
func (l *Library) Len() int {
	return len(l.entries)
}

// Schema returns the JSON schema for a library entry, for validating files
// in editors and CI.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}
	return reflector.Reflect(&Entry{})
}
