package script

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	lua "github.com/yuin/gopher-lua"
)

func TestNewSandbox(t *testing.T) {
	rt := New()
	defer rt.Close()

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "io", "os", "debug"} {
		if v := rt.L.GetGlobal(name); v != lua.LNil {
			t.Errorf("global %s = %v, want nil", name, v.Type())
		}
	}

	err := rt.Load("libs", `
		upper = string.upper("abc")
		biggest = math.max(1, 7, 3)
		joined = table.concat({"a", "b"}, ",")
	`)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := rt.Global("upper"); got != "ABC" {
		t.Errorf("upper = %v, want ABC", got)
	}
	if got := rt.Global("biggest"); got != int64(7) {
		t.Errorf("biggest = %v, want 7", got)
	}
	if got := rt.Global("joined"); got != "a,b" {
		t.Errorf("joined = %v, want a,b", got)
	}
}

func TestLoadSyntaxError(t *testing.T) {
	rt := New()
	defer rt.Close()

	err := rt.Load("broken", `this is not lua`)
	var serr *Error
	if !errors.As(err, &serr) {
		t.Fatalf("Load() error = %v, want *Error", err)
	}
	if serr.Name != "broken" {
		t.Errorf("Name = %q, want broken", serr.Name)
	}
}

func TestLoadRuntimeError(t *testing.T) {
	rt := New()
	defer rt.Close()

	err := rt.Load("chunk", `error("exploded")`)
	var serr *Error
	if !errors.As(err, &serr) {
		t.Fatalf("Load() error = %v, want *Error", err)
	}
	if !strings.Contains(serr.Message, "exploded") {
		t.Errorf("Message = %q, want it to mention exploded", serr.Message)
	}
}

func TestPrintGoesToLogger(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	rt := New(WithLogger(logger))
	defer rt.Close()

	if err := rt.Load("hello", `print("hello", 42)`); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	var found bool
	for _, entry := range hook.AllEntries() {
		if entry.Message == "hello\t42" && entry.Level == logrus.InfoLevel {
			found = true
		}
	}
	if !found {
		t.Errorf("print output not logged, entries = %d", len(hook.AllEntries()))
	}
}

func TestTimeout(t *testing.T) {
	rt := New(WithTimeout(50 * time.Millisecond))
	defer rt.Close()

	start := time.Now()
	err := rt.Load("spin", `while true do end`)
	if err == nil {
		t.Fatal("Load() of an endless loop returned nil")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("timeout took %v", elapsed)
	}
}

func TestSetGlobal(t *testing.T) {
	rt := New()
	defer rt.Close()

	rt.SetGlobal("cfg", map[string]any{"name": "tree", "rows": []any{1, 2}})
	if err := rt.Load("read", `n = cfg.name .. #cfg.rows`); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := rt.Global("n"); got != "tree2" {
		t.Errorf("n = %v, want tree2", got)
	}
}

func TestClose(t *testing.T) {
	rt := New()
	if err := rt.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := rt.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if !rt.Closed() {
		t.Error("Closed() = false after Close")
	}
	if err := rt.Load("late", `x = 1`); !errors.Is(err, ErrClosed) {
		t.Errorf("Load() after Close error = %v, want ErrClosed", err)
	}
	if _, err := rt.Func("f"); !errors.Is(err, ErrClosed) {
		t.Errorf("Func() after Close error = %v, want ErrClosed", err)
	}
	if got := rt.Global("x"); got != nil {
		t.Errorf("Global() after Close = %v, want nil", got)
	}
}
