package game

import (
	_ "embed"
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/MJD19994/macropad/internal/device"
	"github.com/MJD19994/macropad/internal/logging"
)

//go:embed dragondrop.lua
var defaultScript string

// GameSurfaceName names the display surface the game draws on.
const GameSurfaceName = "game"

// surface is the runner's display surface handle.
type surface string

// SurfaceName names the surface for diagnostics.
func (s surface) SurfaceName() string { return string(s) }

// Runner runs a Lua game script against the device handles. The script
// drives the display through a "pad" API, polls keys, and finishes by
// returning "game_ended".
//
// The Lua state is created per run with only the base, table, string and
// math libraries opened; scripts get no file, network or process access.
type Runner struct {
	script  string
	display device.Display
	input   device.InputSource
	out     device.Output
	log     *logging.Logger
	sleep   func(time.Duration)
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithScript replaces the embedded default game script.
func WithScript(src string) RunnerOption {
	return func(r *Runner) {
		if src != "" {
			r.script = src
		}
	}
}

// WithRunnerLogger sets the runner's logger.
func WithRunnerLogger(log *logging.Logger) RunnerOption {
	return func(r *Runner) {
		r.log = log
	}
}

// WithRunnerSleep replaces the sleep function. Tests use this to run
// scripts without real waiting.
func WithRunnerSleep(fn func(time.Duration)) RunnerOption {
	return func(r *Runner) {
		r.sleep = fn
	}
}

// NewRunner creates a game runner over the given device handles.
func NewRunner(display device.Display, input device.InputSource, out device.Output, opts ...RunnerOption) *Runner {
	r := &Runner{
		script:  defaultScript,
		display: display,
		input:   input,
		out:     out,
		log:     logging.Null,
		sleep:   time.Sleep,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the game script to completion. It installs the game's
// display surface before the script starts; the caller restores the menu
// surface afterwards. Any held tone is stopped on return.
func (r *Runner) Run() (Outcome, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	defer r.out.StopTone()

	openLibraries(L)
	r.registerPadAPI(L)

	r.display.SetActiveSurface(surface(GameSurfaceName))

	fn, err := L.LoadString(r.script)
	if err != nil {
		return OutcomeAborted, fmt.Errorf("loading game script: %w", err)
	}

	L.Push(fn)
	if err := L.PCall(0, 1, nil); err != nil {
		return OutcomeAborted, fmt.Errorf("running game script: %w", err)
	}

	if ret, ok := L.Get(-1).(lua.LString); ok && string(ret) == "game_ended" {
		return OutcomeEnded, nil
	}
	return OutcomeAborted, nil
}

// openLibraries opens the safe subset of the Lua standard libraries.
func openLibraries(L *lua.LState) {
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
}

// registerPadAPI installs the "pad" table the script drives the device
// through.
func (r *Runner) registerPadAPI(L *lua.LState) {
	start := time.Now()

	pad := L.NewTable()

	L.SetField(pad, "title", L.NewFunction(func(L *lua.LState) int {
		r.display.SetTitle(L.CheckString(1))
		return 0
	}))

	L.SetField(pad, "banner", L.NewFunction(func(L *lua.LState) int {
		r.display.SetBannerFill(uint32(L.CheckInt(1)))
		return 0
	}))

	L.SetField(pad, "label", L.NewFunction(func(L *lua.LState) int {
		r.display.SetLabel(L.CheckInt(1), L.CheckString(2))
		return 0
	}))

	L.SetField(pad, "color", L.NewFunction(func(L *lua.LState) int {
		r.display.SetColor(L.CheckInt(1), uint32(L.CheckInt(2)))
		return 0
	}))

	L.SetField(pad, "rotate", L.NewFunction(func(L *lua.LState) int {
		r.display.SetRotation(L.CheckInt(1))
		return 0
	}))

	L.SetField(pad, "refresh", L.NewFunction(func(L *lua.LState) int {
		r.display.Refresh()
		return 0
	}))

	L.SetField(pad, "sleep", L.NewFunction(func(L *lua.LState) int {
		seconds := float64(L.CheckNumber(1))
		if seconds > 0 {
			r.sleep(time.Duration(seconds * float64(time.Second)))
		}
		return 0
	}))

	L.SetField(pad, "now", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(time.Since(start).Seconds()))
		return 1
	}))

	L.SetField(pad, "key", L.NewFunction(func(L *lua.LState) int {
		ev, ok := r.input.NextKey()
		if !ok {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(lua.LNumber(ev.KeyIndex))
		L.Push(lua.LBool(ev.Pressed))
		return 2
	}))

	L.SetField(pad, "tone", L.NewFunction(func(L *lua.LState) int {
		freq := L.CheckInt(1)
		if freq > 0 {
			r.out.StartTone(freq)
		} else {
			r.out.StopTone()
		}
		return 0
	}))

	L.SetGlobal("pad", pad)
}
