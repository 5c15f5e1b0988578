// Package macro executes a key binding's instruction sequence against the
// device output sinks, with matched press/release pairing.
package macro

import (
	"time"

	"github.com/google/uuid"

	"github.com/MJD19994/macropad/internal/device"
	"github.com/MJD19994/macropad/internal/logging"
	"github.com/MJD19994/macropad/internal/profile"
)

// Interpreter walks instruction sequences and submits device actions.
//
// Execution is synchronous and runs to completion on the control
// goroutine: Delay instructions block the whole loop for their duration.
// Sequences must therefore be short enough that blocking is imperceptible.
type Interpreter struct {
	out   device.Output
	sleep func(time.Duration)
	log   *logging.Logger
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithSleep replaces the delay function. Tests use this to run sequences
// without real waiting.
func WithSleep(fn func(time.Duration)) Option {
	return func(in *Interpreter) {
		in.sleep = fn
	}
}

// WithLogger sets the interpreter's logger.
func WithLogger(log *logging.Logger) Option {
	return func(in *Interpreter) {
		in.log = log
	}
}

// New creates an interpreter over the given output sinks.
func New(out device.Output, opts ...Option) *Interpreter {
	in := &Interpreter{
		out:   out,
		sleep: time.Sleep,
		log:   logging.Null,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Press runs the binding's sequence for the press edge.
func (in *Interpreter) Press(b profile.Binding) {
	if len(b.Sequence) == 0 {
		return
	}

	run := uuid.NewString()[:8]
	in.log.Debug("run %s: press %q (%d instructions)", run, b.Label, len(b.Sequence))

	for _, inst := range b.Sequence {
		switch v := inst.(type) {
		case profile.KeyCode:
			if v >= 0 {
				in.out.PressKey(int(v))
			} else {
				in.out.ReleaseKey(int(-v))
			}
		case profile.Delay:
			in.sleep(time.Duration(v))
		case profile.TypeText:
			in.out.WriteText(string(v))
		case profile.MediaCodes:
			in.pressMedia(v)
		case profile.MouseAction:
			in.pressMouse(v)
		}
	}

	in.log.Debug("run %s: press complete", run)
}

// Release runs the binding's sequence for the release edge. Only held
// keycodes and held mouse buttons act; everything else is inert. It always
// ends with one consumer-control release so no media code stays latched.
func (in *Interpreter) Release(b profile.Binding) {
	for _, inst := range b.Sequence {
		switch v := inst.(type) {
		case profile.KeyCode:
			// Negative codes already self-released during press.
			if v >= 0 {
				in.out.ReleaseKey(int(v))
			}
		case profile.Delay:
		case profile.TypeText:
		case profile.MediaCodes:
		case profile.MouseAction:
			if v.Buttons != nil && *v.Buttons >= 0 {
				in.out.ReleaseMouseButtons(*v.Buttons)
			}
		}
	}

	in.out.ReleaseMedia()
}

// pressMedia sends each code as release-then-press so repeated codes
// retrigger, sleeping through pause steps.
func (in *Interpreter) pressMedia(steps profile.MediaCodes) {
	for _, s := range steps {
		if s.IsPause() {
			in.sleep(s.Pause)
			continue
		}
		in.out.ReleaseMedia()
		in.out.PressMedia(s.Code)
	}
}

// pressMouse evaluates a composite mouse action as a single unit: button
// edge, then motion, then tone or one-shot playback. Tone takes precedence
// over playback when both are present.
func (in *Interpreter) pressMouse(m profile.MouseAction) {
	if m.Buttons != nil {
		if *m.Buttons >= 0 {
			in.out.PressMouseButtons(*m.Buttons)
		} else {
			in.out.ReleaseMouseButtons(-*m.Buttons)
		}
	}

	in.out.MoveMouse(m.DX, m.DY, m.Wheel)

	switch {
	case m.Tone != nil && *m.Tone > 0:
		// Stop first so an already-playing tone retriggers.
		in.out.StopTone()
		in.out.StartTone(*m.Tone)
	case m.Tone != nil:
		in.out.StopTone()
	case m.Play != "":
		in.out.PlayFile(m.Play)
	}
}
