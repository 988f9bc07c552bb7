package scenario

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dshills/cascade/internal/app"
)

// Listener behaviours.
const (
	DoRecord      = "record"
	DoHandle      = "handle"
	DoFail        = "fail"
	DoEmit        = "emit"
	DoPanic       = "panic"
	DoSubscribe   = "subscribe"
	DoUnsubscribe = "unsubscribe"
	DoLua         = "lua"
)

// Listener shapes.
const (
	ShapeFunc   = "func"
	ShapeObject = "object"
)

// Scenario describes kinds, listeners and a sequence of steps to run
// against an emitter.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario shows.
	Description string `yaml:"description,omitempty"`

	// Owner names the host passed to callable listeners.
	Owner string `yaml:"owner,omitempty"`

	// RecoverPanics turns listener panics into errors inside the emitter.
	RecoverPanics bool `yaml:"recover_panics,omitempty"`

	// Kinds are defined before anything runs. Dot-paths, with or without
	// the leading "event" segment.
	Kinds []string `yaml:"kinds"`

	// Scripts are Lua chunks loaded in order before listeners are built.
	Scripts []Script `yaml:"scripts,omitempty"`

	// Listeners are the available subscribers, referenced by name.
	Listeners []Listener `yaml:"listeners"`

	// Steps run in order.
	Steps []Step `yaml:"steps"`
}

// Script is a named Lua chunk.
type Script struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
}

// Listener describes one subscriber.
type Listener struct {
	Name string `yaml:"name"`

	// Shape is "func" (default) for a callable subscriber or "object" for
	// an object subscriber.
	Shape string `yaml:"shape,omitempty"`

	// Behaviour is what the listener does when called. Defaults to record.
	Behaviour string `yaml:"behaviour,omitempty"`

	// Emit is the kind raised by the emit behaviour.
	Emit string `yaml:"emit,omitempty"`

	// Target is the listener changed by the subscribe and unsubscribe
	// behaviours.
	Target string `yaml:"target,omitempty"`

	// Kinds are used by the subscribe and unsubscribe behaviours.
	Kinds []string `yaml:"kinds,omitempty"`

	// Message is the error or panic value of the fail and panic behaviours.
	Message string `yaml:"message,omitempty"`

	// Lua is the global function (func shape) or table (object shape)
	// backing the lua behaviour.
	Lua string `yaml:"lua,omitempty"`
}

// Step is one operation. Exactly one of Emit, Subscribe, Unsubscribe and
// Clear is set.
type Step struct {
	Emit   string `yaml:"emit,omitempty"`
	Sender string `yaml:"sender,omitempty"`
	Bag    any    `yaml:"bag,omitempty"`

	Subscribe   string   `yaml:"subscribe,omitempty"`
	Unsubscribe string   `yaml:"unsubscribe,omitempty"`
	Kinds       []string `yaml:"kinds,omitempty"`

	Clear bool `yaml:"clear,omitempty"`
}

// op returns the step operation name.
func (s Step) op() string {
	switch {
	case s.Emit != "":
		return OpEmit
	case s.Subscribe != "":
		return OpSubscribe
	case s.Unsubscribe != "":
		return OpUnsubscribe
	case s.Clear:
		return OpClear
	}
	return ""
}

// HostOptions returns options for a host that runs s.
func (s *Scenario) HostOptions() app.Options {
	return app.Options{
		Name:          s.Owner,
		RecoverPanics: s.RecoverPanics,
	}
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes a scenario and validates it. Unknown fields are rejected.
func Parse(r io.Reader) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validate(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

// validate checks that required fields are present and consistent.
func validate(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, sc := range s.Scripts {
		if sc.Name == "" {
			return fmt.Errorf("scripts[%d]: name is required", i)
		}
	}

	names := make(map[string]bool, len(s.Listeners))
	for i, l := range s.Listeners {
		if l.Name == "" {
			return fmt.Errorf("listeners[%d]: name is required", i)
		}
		if names[l.Name] {
			return fmt.Errorf("listeners[%d]: duplicate name %q", i, l.Name)
		}
		names[l.Name] = true
	}
	for i, l := range s.Listeners {
		if err := validateListener(l, names); err != nil {
			return fmt.Errorf("listeners[%d]: %w", i, err)
		}
	}

	for i, st := range s.Steps {
		if err := validateStep(st, names); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}
	return nil
}

func validateListener(l Listener, names map[string]bool) error {
	switch l.Shape {
	case "", ShapeFunc, ShapeObject:
	default:
		return fmt.Errorf("unknown shape %q", l.Shape)
	}

	switch l.Behaviour {
	case "", DoRecord, DoHandle, DoFail, DoPanic:
	case DoEmit:
		if l.Emit == "" {
			return fmt.Errorf("behaviour emit requires emit")
		}
	case DoSubscribe, DoUnsubscribe:
		if l.Target == "" {
			return fmt.Errorf("behaviour %s requires target", l.Behaviour)
		}
		if !names[l.Target] {
			return fmt.Errorf("unknown target %q", l.Target)
		}
		if l.Behaviour == DoSubscribe && len(l.Kinds) == 0 {
			return fmt.Errorf("behaviour subscribe requires kinds")
		}
	case DoLua:
		if l.Lua == "" {
			return fmt.Errorf("behaviour lua requires lua")
		}
	default:
		return fmt.Errorf("unknown behaviour %q", l.Behaviour)
	}
	return nil
}

func validateStep(st Step, names map[string]bool) error {
	set := 0
	for _, ok := range []bool{st.Emit != "", st.Subscribe != "", st.Unsubscribe != "", st.Clear} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("exactly one of emit, subscribe, unsubscribe or clear is required")
	}

	switch st.op() {
	case OpSubscribe:
		if !names[st.Subscribe] {
			return fmt.Errorf("unknown listener %q", st.Subscribe)
		}
		if len(st.Kinds) == 0 {
			return fmt.Errorf("subscribe requires kinds")
		}
	case OpUnsubscribe:
		if !names[st.Unsubscribe] {
			return fmt.Errorf("unknown listener %q", st.Unsubscribe)
		}
	}
	return nil
}
