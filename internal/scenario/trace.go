package scenario

import (
	"fmt"
	"io"
	"strings"

	"github.com/dshills/cascade/internal/event"
)

// Record operations.
const (
	OpEmit        = "emit"
	OpCall        = "call"
	OpSubscribe   = "subscribe"
	OpUnsubscribe = "unsubscribe"
	OpClear       = "clear"
)

// Record is one line of a trace.
type Record struct {
	// Step is the 1-based index of the step that produced the record.
	Step int `json:"step" yaml:"step"`

	// Depth is the number of emits in progress. Top-level steps have depth
	// 0; listeners called by a top-level emit have depth 1.
	Depth int `json:"depth" yaml:"depth"`

	// Op is one of the Op constants.
	Op string `json:"op" yaml:"op"`

	// Listener names the listener for call, subscribe and unsubscribe.
	Listener string `json:"listener,omitempty" yaml:"listener,omitempty"`

	// Kind is the event kind for emit and call.
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`

	// Kinds are the kinds of a subscribe or unsubscribe. Empty for an
	// unsubscribe from every kind.
	Kinds []string `json:"kinds,omitempty" yaml:"kinds,omitempty"`

	// Result is the boolean result of emit, subscribe and unsubscribe.
	Result bool `json:"result" yaml:"result"`

	// Handled is the event's handled flag after an emit.
	Handled bool `json:"handled,omitempty" yaml:"handled,omitempty"`

	// Error is the error text, if the operation failed.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// String formats the record as a single line.
func (r Record) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "step=%d depth=%d %s", r.Step, r.Depth, r.Op)

	switch r.Op {
	case OpEmit:
		fmt.Fprintf(&b, " kind=%s result=%t handled=%t", r.Kind, r.Result, r.Handled)
	case OpCall:
		fmt.Fprintf(&b, " listener=%s kind=%s", r.Listener, r.Kind)
	case OpSubscribe, OpUnsubscribe:
		kinds := "*"
		if len(r.Kinds) > 0 {
			kinds = strings.Join(r.Kinds, ",")
		}
		fmt.Fprintf(&b, " listener=%s kinds=%s result=%t", r.Listener, kinds, r.Result)
	}

	if r.Error != "" {
		fmt.Fprintf(&b, " error=%q", r.Error)
	}
	return b.String()
}

// Trace is the ordered list of records produced by a run.
type Trace struct {
	Scenario string   `json:"scenario" yaml:"scenario"`
	Records  []Record `json:"records" yaml:"records"`

	// Stats are the emitter statistics after the last step.
	Stats *event.Stats `json:"stats,omitempty" yaml:"stats,omitempty"`
}

// Calls returns the names of the listeners called, in order.
func (t *Trace) Calls() []string {
	var names []string
	for _, r := range t.Records {
		if r.Op == OpCall {
			names = append(names, r.Listener)
		}
	}
	return names
}

// Errors returns the records that carry an error.
func (t *Trace) Errors() []Record {
	var out []Record
	for _, r := range t.Records {
		if r.Error != "" {
			out = append(out, r)
		}
	}
	return out
}

// WriteTo writes one line per record, preceded by a header naming the
// scenario and followed by the statistics when present.
func (t *Trace) WriteTo(w io.Writer) (int64, error) {
	var total int64
	n, err := fmt.Fprintf(w, "# %s\n", t.Scenario)
	total += int64(n)
	if err != nil {
		return total, err
	}
	for _, r := range t.Records {
		n, err := fmt.Fprintln(w, r.String())
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	if st := t.Stats; st != nil {
		n, err := fmt.Fprintf(w,
			"stats emitted=%d delivered=%d unmatched=%d handled=%d failed=%d panicked=%d kinds=%d subscriptions=%d\n",
			st.Emitted, st.Delivered, st.Unmatched, st.Handled, st.Failed, st.Panicked, st.Kinds, st.Subscriptions)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// String returns the text form written by WriteTo.
func (t *Trace) String() string {
	var b strings.Builder
	_, _ = t.WriteTo(&b)
	return b.String()
}
