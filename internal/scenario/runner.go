package scenario

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dshills/cascade/internal/app"
	"github.com/dshills/cascade/internal/event"
	"github.com/dshills/cascade/internal/script"
)

// Run executes s on the host's emitter and returns the trace. Failures of
// individual steps are recorded in the trace; the returned error reports
// only problems setting the scenario up.
//
// A listener panic that the emitter does not recover is caught at the step
// boundary and recorded as an error of the top-level emit.
func Run(h *app.Host, s *Scenario) (*Trace, error) {
	r := &runner{
		host:      h,
		trace:     &Trace{Scenario: s.Name},
		listeners: make(map[string]*listener, len(s.Listeners)),
		log:       h.Logger().WithField("scenario", s.Name),
	}

	if _, err := h.Define(s.Kinds...); err != nil {
		return nil, fmt.Errorf("define kinds: %w", err)
	}
	h.Runtime().BindEmitter(r, h.Catalog())
	for _, sc := range s.Scripts {
		if err := h.Runtime().Load(sc.Name, sc.Source); err != nil {
			return nil, fmt.Errorf("load script %s: %w", sc.Name, err)
		}
	}
	for _, spec := range s.Listeners {
		l, err := r.build(spec)
		if err != nil {
			return nil, fmt.Errorf("listener %s: %w", spec.Name, err)
		}
		r.listeners[spec.Name] = l
	}

	for i, st := range s.Steps {
		r.step = i + 1
		r.log.WithFields(logrus.Fields{
			"step": r.step,
			"op":   st.op(),
		}).Debug("Running scenario step")
		r.runStep(st)
	}

	stats := h.Emitter().Stats()
	r.trace.Stats = &stats
	return r.trace, nil
}

type runner struct {
	host      *app.Host
	trace     *Trace
	listeners map[string]*listener
	log       logrus.FieldLogger

	step  int
	depth int
}

func (r *runner) record(rec Record) {
	rec.Step = r.step
	rec.Depth = r.depth
	r.trace.Records = append(r.trace.Records, rec)
}

func (r *runner) runStep(st Step) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		rec := Record{Step: r.step, Depth: 1, Op: OpEmit, Kind: st.Emit, Result: true}
		if k, ok := r.host.Catalog().Lookup(st.Emit); ok {
			rec.Kind = k.String()
		}
		rec.Error = fmt.Sprintf("panic: %v", v)
		r.trace.Records = append(r.trace.Records, rec)
		r.log.WithField("step", r.step).Warn("Listener panicked")
	}()

	switch st.op() {
	case OpEmit:
		var sender any
		if st.Sender != "" {
			sender = st.Sender
		}
		_, _ = r.emit(st.Emit, sender, st.Bag)
	case OpSubscribe:
		_, _ = r.subscribe(st.Subscribe, st.Kinds)
	case OpUnsubscribe:
		_, _ = r.unsubscribe(st.Unsubscribe, st.Kinds)
	case OpClear:
		r.host.Emitter().Clear()
		r.record(Record{Op: OpClear})
	}
}

// emit raises a new event of the named kind.
func (r *runner) emit(name string, sender, bag any) (bool, error) {
	kind, err := r.host.Catalog().Resolve(name)
	if err != nil {
		r.depth++
		r.record(Record{Op: OpEmit, Kind: name, Error: err.Error()})
		r.depth--
		return false, err
	}
	return r.Emit(event.New(kind, sender, bag))
}

// Emit dispatches e on the host emitter and records the outcome. Depth
// covers the dispatch, so listeners it reaches record one level deeper than
// the caller. Lua's emit global is bound here too.
func (r *runner) Emit(e event.Event) (bool, error) {
	r.depth++
	defer func() { r.depth-- }()

	delivered, err := r.host.Emitter().Emit(e)
	rec := Record{
		Op:      OpEmit,
		Kind:    e.Kind().String(),
		Result:  delivered,
		Handled: e.Handled(),
	}
	if err != nil {
		rec.Error = err.Error()
	}
	r.record(rec)
	return delivered, err
}

func (r *runner) subscribe(name string, kindNames []string) (bool, error) {
	rec := Record{Op: OpSubscribe, Listener: name}
	ok, err := r.change(&rec, kindNames, func(sub any, kinds []*event.Kind) (bool, error) {
		return r.host.Emitter().Subscribe(sub, kinds...)
	})
	r.record(rec)
	return ok, err
}

func (r *runner) unsubscribe(name string, kindNames []string) (bool, error) {
	rec := Record{Op: OpUnsubscribe, Listener: name}
	ok, err := r.change(&rec, kindNames, func(sub any, kinds []*event.Kind) (bool, error) {
		return r.host.Emitter().Unsubscribe(sub, kinds...)
	})
	r.record(rec)
	return ok, err
}

// change resolves the listener and kinds of a subscribe or unsubscribe and
// applies fn, filling in rec.
func (r *runner) change(rec *Record, kindNames []string, fn func(any, []*event.Kind) (bool, error)) (bool, error) {
	l, ok := r.listeners[rec.Listener]
	if !ok {
		err := fmt.Errorf("unknown listener %q", rec.Listener)
		rec.Error = err.Error()
		return false, err
	}

	kinds := make([]*event.Kind, 0, len(kindNames))
	for _, name := range kindNames {
		k, err := r.host.Catalog().Resolve(name)
		if err != nil {
			rec.Kinds = kindNames
			rec.Error = err.Error()
			return false, err
		}
		kinds = append(kinds, k)
		rec.Kinds = append(rec.Kinds, k.String())
	}

	result, err := fn(l.sub, kinds)
	rec.Result = result
	if err != nil {
		rec.Error = err.Error()
	}
	return result, err
}

// listener is a scenario subscriber. sub is what the emitter sees: a
// *event.Func for the func shape or an *objectListener for the object shape.
type listener struct {
	spec Listener
	run  *runner
	sub  any

	luaFunc   event.HandlerFunc
	luaObject *script.Object
}

func (r *runner) build(spec Listener) (*listener, error) {
	l := &listener{spec: spec, run: r}

	if spec.Behaviour == DoLua {
		rt := r.host.Runtime()
		if spec.Shape == ShapeObject {
			obj, err := rt.Object(spec.Lua)
			if err != nil {
				return nil, err
			}
			l.luaObject = obj
		} else {
			fn, err := rt.HandlerFunc(spec.Lua)
			if err != nil {
				return nil, err
			}
			l.luaFunc = fn
		}
	}

	if spec.Shape == ShapeObject {
		l.sub = &objectListener{l: l}
	} else {
		l.sub = event.ListenNamed(spec.Name, l.call)
	}
	return l, nil
}

func (l *listener) call(owner any, e event.Event) error {
	r := l.run
	r.record(Record{Op: OpCall, Listener: l.spec.Name, Kind: e.Kind().String()})

	switch l.spec.Behaviour {
	case DoHandle:
		e.SetHandled(true)
	case DoFail:
		return errors.New(l.message())
	case DoPanic:
		panic(l.message())
	case DoEmit:
		_, err := r.emit(l.spec.Emit, l.spec.Name, e.Bag())
		return err
	case DoSubscribe:
		_, err := r.subscribe(l.spec.Target, l.spec.Kinds)
		return err
	case DoUnsubscribe:
		_, err := r.unsubscribe(l.spec.Target, l.spec.Kinds)
		return err
	case DoLua:
		if l.luaObject != nil {
			return l.luaObject.HandleEvent(e)
		}
		return l.luaFunc(owner, e)
	}
	return nil
}

func (l *listener) message() string {
	if l.spec.Message != "" {
		return l.spec.Message
	}
	return l.spec.Name + " " + l.spec.Behaviour
}

// objectListener adapts a listener to event.Handler.
type objectListener struct {
	l *listener
}

func (o *objectListener) HandleEvent(e event.Event) error {
	return o.l.call(nil, e)
}

func (o *objectListener) String() string {
	return o.l.spec.Name
}
