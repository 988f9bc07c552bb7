package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/tidwall/gjson"

	"github.com/dshills/cascade/internal/event"
	"github.com/dshills/cascade/internal/logging"
	"github.com/dshills/cascade/internal/scenario"
)

// printer writes command results in the configured format.
type printer struct {
	w      io.Writer
	format string

	title   *color.Color
	fail    *color.Color
	succ    *color.Color
	call    *color.Color
	changed *color.Color
	faint   *color.Color
}

func newPrinter(w io.Writer, opts *RootOptions) *printer {
	p := &printer{
		w:       w,
		format:  opts.Format,
		title:   color.New(color.Bold),
		fail:    color.New(color.FgRed),
		succ:    color.New(color.FgGreen),
		call:    color.New(color.FgCyan),
		changed: color.New(color.FgYellow),
		faint:   color.New(color.Faint),
	}
	if opts.NoColor {
		for _, c := range []*color.Color{p.title, p.fail, p.succ, p.call, p.changed, p.faint} {
			c.DisableColor()
		}
	}
	return p
}

func (p *printer) json(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// trace prints a scenario trace. Text output indents listener calls by
// depth and colors records by outcome.
func (p *printer) trace(t *scenario.Trace) error {
	if p.format == logging.FormatJSON {
		return p.json(t)
	}

	if _, err := p.title.Fprintf(p.w, "# %s\n", t.Scenario); err != nil {
		return err
	}
	for _, rec := range t.Records {
		c := p.colorOf(rec)
		if _, err := c.Fprintf(p.w, "%s%s\n", strings.Repeat("  ", rec.Depth), rec.String()); err != nil {
			return err
		}
	}
	if st := t.Stats; st != nil {
		_, err := p.faint.Fprintf(p.w,
			"stats emitted=%d delivered=%d unmatched=%d handled=%d failed=%d panicked=%d\n",
			st.Emitted, st.Delivered, st.Unmatched, st.Handled, st.Failed, st.Panicked)
		return err
	}
	return nil
}

// selection prints the value at path in the JSON form of t. Arrays and
// objects are printed as JSON, scalars as plain text.
func (p *printer) selection(t *scenario.Trace, path string) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	res := gjson.GetBytes(data, path)
	if !res.Exists() {
		return fmt.Errorf("path %q matched nothing", path)
	}
	out := res.String()
	if res.IsArray() || res.IsObject() {
		out = res.Raw
	}
	_, err = fmt.Fprintln(p.w, out)
	return err
}

func (p *printer) colorOf(rec scenario.Record) *color.Color {
	switch {
	case rec.Error != "":
		return p.fail
	case rec.Op == scenario.OpEmit && rec.Handled:
		return p.succ
	case rec.Op == scenario.OpEmit && !rec.Result:
		return p.faint
	case rec.Op == scenario.OpCall:
		return p.call
	case rec.Op == scenario.OpEmit:
		return p.title
	}
	return p.changed
}

// kinds prints a kind hierarchy. Text output is an indented tree with
// children sorted by name.
func (p *printer) kinds(all []*event.Kind) error {
	if p.format == logging.FormatJSON {
		names := make([]string, len(all))
		for i, k := range all {
			names[i] = k.String()
		}
		return p.json(names)
	}

	children := make(map[*event.Kind][]*event.Kind)
	for _, k := range all {
		if parent := k.Parent(); parent != nil {
			children[parent] = append(children[parent], k)
		}
	}

	var walk func(k *event.Kind) error
	walk = func(k *event.Kind) error {
		indent := strings.Repeat("  ", k.Depth())
		if _, err := p.call.Fprintf(p.w, "%s%s\n", indent, k.Name().Base()); err != nil {
			return err
		}
		kids := children[k]
		sort.Slice(kids, func(i, j int) bool { return kids[i].Name() < kids[j].Name() })
		for _, child := range kids {
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(event.Root)
}
