// Package controller implements the top-level mode/profile state machine:
// it polls the encoder and key matrix, switches profiles, forwards key
// edges to the macro interpreter, and hands control to the game.
package controller

import (
	"context"
	"time"

	"github.com/MJD19994/macropad/internal/device"
	"github.com/MJD19994/macropad/internal/game"
	"github.com/MJD19994/macropad/internal/logging"
	"github.com/MJD19994/macropad/internal/macro"
	"github.com/MJD19994/macropad/internal/profile"
)

// Mode is the controller's top-level state.
type Mode int

const (
	// ModeStartup is the state before the first profile is presented.
	ModeStartup Mode = iota

	// ModeMacroDispatch forwards key edges to the interpreter.
	ModeMacroDispatch

	// ModeGameActive has ceded control to the game collaborator.
	ModeGameActive
)

// String returns a string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeStartup:
		return "startup"
	case ModeMacroDispatch:
		return "macro"
	case ModeGameActive:
		return "game"
	default:
		return "unknown"
	}
}

// DefaultGameKey is the key index that starts the game when the game
// launcher profile is active (the last key on a 12-key pad).
const DefaultGameKey = 11

// defaultIdle is how long the loop rests when no event is pending.
const defaultIdle = 2 * time.Millisecond

// Controller owns all runtime selection state: current profile index,
// current mode, and the last observed encoder position. It runs on a
// single goroutine; nothing here is locked and nothing else may touch
// this state.
type Controller struct {
	registry  *profile.Registry
	interp    *macro.Interpreter
	out       device.Output
	display   device.Display
	input     device.InputSource
	presenter *Presenter
	game      game.Game
	log       *logging.Logger

	gameKey     int
	idle        func()
	menuSurface device.Surface

	mode        Mode
	index       int
	lastEncoder *int
}

// Option configures a Controller.
type Option func(*Controller)

// WithGameKey sets the key index that starts the game.
func WithGameKey(index int) Option {
	return func(c *Controller) {
		c.gameKey = index
	}
}

// WithLogger sets the controller's logger.
func WithLogger(log *logging.Logger) Option {
	return func(c *Controller) {
		c.log = log
	}
}

// WithIdle replaces the per-iteration rest function. Tests use this to
// run the loop without real waiting.
func WithIdle(fn func()) Option {
	return func(c *Controller) {
		c.idle = fn
	}
}

// WithMenuSurface sets the display surface restored after the game
// returns.
func WithMenuSurface(s device.Surface) Option {
	return func(c *Controller) {
		c.menuSurface = s
	}
}

// New creates a controller over the registry, device handles and game
// collaborator. The context object pattern is deliberate: every handle is
// passed in once at construction, never reached through global state.
func New(registry *profile.Registry, interp *macro.Interpreter, out device.Output,
	display device.Display, input device.InputSource, g game.Game, opts ...Option) *Controller {

	c := &Controller{
		registry:  registry,
		interp:    interp,
		out:       out,
		display:   display,
		input:     input,
		presenter: NewPresenter(display),
		game:      g,
		log:       logging.Null,
		gameKey:   DefaultGameKey,
		mode:      ModeStartup,
	}
	c.idle = func() { time.Sleep(defaultIdle) }

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mode returns the current top-level state.
func (c *Controller) Mode() Mode {
	return c.mode
}

// ProfileIndex returns the active profile index.
func (c *Controller) ProfileIndex() int {
	return c.index
}

// Run executes the control loop until the context is canceled.
//
// An empty registry is a deliberate full stop: the halt message is shown
// and the loop blocks without responding to any input.
func (c *Controller) Run(ctx context.Context) error {
	if c.registry.Count() == 0 {
		return c.haltEmpty(ctx)
	}

	// Startup: select profile 0 and render it.
	c.switchTo(0)
	c.mode = ModeMacroDispatch

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// Encoder first: a changed position switches profiles, with
		// wrap-around in both directions.
		pos := c.input.EncoderPosition()
		if c.lastEncoder == nil || pos != *c.lastEncoder {
			c.switchTo(c.registry.IndexFor(pos))
			p := pos
			c.lastEncoder = &p
		}

		ev, ok := c.input.NextKey()
		if !ok {
			c.idle()
			continue
		}
		c.handleKey(ev)
	}
}

// haltEmpty shows the no-profiles message and blocks until shutdown.
func (c *Controller) haltEmpty(ctx context.Context) error {
	c.log.Error("no profiles loaded, halting")
	c.display.SetTitle("NO MACRO FILES FOUND")
	c.display.SetBannerFill(bannerFilled)
	c.display.Refresh()
	<-ctx.Done()
	return ctx.Err()
}

// switchTo activates the profile at index, releasing everything the
// previous profile may have left held before rendering. Re-selecting the
// current index re-renders and is otherwise a no-op.
func (c *Controller) switchTo(index int) {
	c.index = index
	prof := c.registry.Get(index)

	c.out.ReleaseAllKeys()
	c.out.ReleaseMedia()
	c.out.ReleaseAllMouseButtons()
	c.out.StopTone()

	c.presenter.Present(prof)
	c.log.Debug("switched to profile %d (%s)", index, prof.Name)
}

// handleKey routes one key edge according to the active profile's kind.
func (c *Controller) handleKey(ev device.KeyEvent) {
	prof := c.registry.Get(c.index)

	if prof.Kind == profile.KindGameLauncher {
		if ev.Pressed && ev.KeyIndex == c.gameKey {
			c.runGame()
		} else if ev.Pressed {
			c.log.Debug("key %d pressed, skipping game start", ev.KeyIndex)
		}
		return
	}

	binding, ok := prof.Binding(ev.KeyIndex)
	if !ok {
		// Expected for profiles with fewer than 12 bindings.
		return
	}

	if ev.Pressed {
		c.interp.Press(binding)
	} else {
		c.interp.Release(binding)
	}
}

// runGame cedes control to the game collaborator for its whole duration.
// The encoder is not observed while the game runs. On return the display
// orientation and the macro menu surface are restored with one refresh,
// and the profile index is unchanged.
func (c *Controller) runGame() {
	c.mode = ModeGameActive
	c.log.Info("starting game")

	outcome, err := c.game.Run()
	if err != nil {
		c.log.Error("game error: %v", err)
	}
	c.log.Info("game returned: %s", outcome)

	c.mode = ModeMacroDispatch
	c.display.SetRotation(0)
	if c.menuSurface != nil {
		c.display.SetActiveSurface(c.menuSurface)
	}
	c.display.Refresh()
}
