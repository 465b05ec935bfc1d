package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/richlist/internal/app"
)

// DefaultTimeout bounds a single script run.
const DefaultTimeout = 5 * time.Second

// Runner executes Lua scripts against a session.
//
// gopher-lua's LState is not goroutine-safe; the mutex serializes runs.
type Runner struct {
	L *lua.LState

	mu      sync.Mutex
	session *app.Session
	logger  *app.Logger
	out     io.Writer
	timeout time.Duration

	// cause is the Go error behind the last Lua error raised by the API.
	cause  error
	closed bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithOutput sets where print writes. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		r.out = w
	}
}

// WithTimeout sets the per-run deadline. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.timeout = d
	}
}

// New creates a runner bound to session.
func New(session *app.Session, opts ...Option) *Runner {
	r := &Runner{
		session: session,
		logger:  session.Logger().WithComponent("script"),
		out:     os.Stdout,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(r.L)
	r.install()
	return r
}

// openSafeLibraries opens base, table, string and math, then removes the
// base functions that load code from files or strings.
func openSafeLibraries(L *lua.LState) {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// RunString executes code.
func (r *Runner) RunString(ctx context.Context, code string) error {
	return r.run(ctx, "<string>", func() error {
		return r.L.DoString(code)
	})
}

// RunFile executes the script at path.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	return r.run(ctx, filepath.Base(path), func() error {
		return r.L.DoFile(path)
	})
}

func (r *Runner) run(ctx context.Context, name string, fn func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRunnerClosed
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	r.L.SetContext(ctx)
	defer r.L.RemoveContext()
	r.cause = nil

	start := time.Now()
	err := doWithRecovery(fn)
	log := r.logger.WithFields(map[string]any{"script": name, "elapsed": time.Since(start).String()})
	if err == nil {
		log.Debug("script finished")
		return nil
	}

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		err = fmt.Errorf("%w: %v", ErrTimeout, err)
	case r.cause != nil:
		err = fmt.Errorf("%w: %v", r.cause, err)
	}
	log.Warn("script failed: %v", err)
	return &Error{Name: name, Err: err}
}

func doWithRecovery(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("lua panic: %v", rec)
		}
	}()
	return fn()
}

// Close releases the Lua state. Later runs return ErrRunnerClosed.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.L.Close()
	r.closed = true
}
