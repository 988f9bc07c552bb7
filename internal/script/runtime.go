package script

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	lua "github.com/yuin/gopher-lua"
)

// DefaultTimeout bounds a single top-level Lua call.
const DefaultTimeout = 5 * time.Second

// Runtime is a sandboxed Lua state that hosts event subscribers.
//
// gopher-lua's LState is not goroutine-safe, and neither is Runtime: load
// chunks and emit events that reach Lua subscribers from one goroutine at a
// time. Nested calls made through the emit binding run on the calling
// goroutine and are supported.
type Runtime struct {
	L      *lua.LState
	bridge bridge
	logger logrus.FieldLogger

	timeout time.Duration
	depth   int
	closed  bool

	// pending holds the Go error behind the Lua error last raised by a
	// binding, so the caller of the Lua function can return it intact.
	pending *raised

	// panicking holds a Go panic caught inside a binding. call re-panics
	// with it once the Lua stack has unwound.
	panicking any
}

// raised pairs a Go error with the message of the Lua error carrying it.
type raised struct {
	err error
	msg string
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger that receives print output and diagnostics.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(r *Runtime) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTimeout bounds each top-level Lua call. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(r *Runtime) {
		r.timeout = d
	}
}

// New creates a sandboxed runtime with the base, table, string and math
// libraries. Functions that load code from files or strings are removed.
func New(opts ...Option) *Runtime {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	r := &Runtime{
		logger:  logger,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	r.bridge = bridge{L: r.L}
	r.openSafeLibraries()
	r.installSandbox()
	return r
}

// openSafeLibraries opens only the libraries without host access. io, os,
// debug, package and channel stay closed.
func (r *Runtime) openSafeLibraries() {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		r.L.Push(r.L.NewFunction(lib.fn))
		r.L.Push(lua.LString(lib.name))
		r.L.Call(1, 0)
	}
}

func (r *Runtime) installSandbox() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		r.L.SetGlobal(name, lua.LNil)
	}
	r.L.SetGlobal("print", r.L.NewFunction(r.luaPrint))
}

// luaPrint sends print output to the logger instead of stdout.
func (r *Runtime) luaPrint(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	r.logger.WithField("source", "lua").Info(strings.Join(parts, "\t"))
	return 0
}

// Load compiles and runs a chunk. name identifies the chunk in errors.
func (r *Runtime) Load(name, source string) error {
	if r.closed {
		return ErrClosed
	}
	fn, err := r.L.Load(strings.NewReader(source), name)
	if err != nil {
		return newError(name, err, nil)
	}
	if err := r.call(name, fn); err != nil {
		return err
	}
	r.logger.WithField("chunk", name).Debug("Loaded Lua chunk")
	return nil
}

// SetGlobal converts v to Lua and stores it as a global.
func (r *Runtime) SetGlobal(name string, v any) {
	if r.closed {
		return
	}
	r.L.SetGlobal(name, r.bridge.toLua(v))
}

// Global returns the Go value of a global, or nil when it is undefined.
func (r *Runtime) Global(name string) any {
	if r.closed {
		return nil
	}
	return r.bridge.toGo(r.L.GetGlobal(name))
}

// call runs fn in protected mode. Only the outermost call installs the
// timeout, so nested calls share their parent's deadline.
//
// A failure raised by a binding is returned with the binding's Go error as
// its cause, provided the Lua error reaching call is the one the binding
// raised. Errors caught by pcall are forgotten when call returns.
func (r *Runtime) call(name string, fn lua.LValue, args ...lua.LValue) error {
	if r.depth == 0 && r.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		r.L.SetContext(ctx)
		defer func() {
			r.L.RemoveContext()
			cancel()
		}()
	}

	saved := r.pending
	r.pending = nil
	r.depth++
	err := r.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...)
	r.depth--
	pending := r.pending
	r.pending = saved

	if p := r.panicking; p != nil {
		r.panicking = nil
		panic(p)
	}
	if err != nil {
		return newError(name, err, pending.causeOf(err))
	}
	return nil
}

// causeOf returns the Go error behind err when err is the Lua error that
// carried it.
func (p *raised) causeOf(err error) error {
	if p == nil {
		return nil
	}
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) && apiErr.Object != nil && strings.HasSuffix(apiErr.Object.String(), p.msg) {
		return p.err
	}
	return nil
}

// raise aborts the running Lua function with err, keeping err for the Go
// caller of that function.
func (r *Runtime) raise(L *lua.LState, err error) int {
	msg := err.Error()
	r.pending = &raised{err: err, msg: msg}
	L.RaiseError("%s", msg)
	return 0
}

// guard runs fn, which may call Go subscribers. It reports false when fn
// panicked, after storing the panic value for call to re-panic with.
func (r *Runtime) guard(fn func()) (ok bool) {
	defer func() {
		if !ok {
			r.panicking = recover()
		}
	}()
	fn()
	return true
}

// Closed reports whether Close has been called.
func (r *Runtime) Closed() bool {
	return r.closed
}

// Close releases the Lua state. Further calls return ErrClosed.
func (r *Runtime) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.L.Close()
	return nil
}
