package profile

import (
	"fmt"
	"strings"
	"time"
)

// Instruction is one step of a key binding's macro sequence.
//
// The variant set is closed: the interpreter switches over exactly these
// types with no fallback case, so adding a kind is a compile-time change.
type Instruction interface {
	// String returns a short human-readable form for logs and diagnostics.
	String() string

	instruction()
}

// KeyCode presses or releases a keyboard usage code.
//
// A non-negative code presses the code on the press edge and releases it on
// the release edge. A negative code appearing inside a press sequence
// immediately releases -code (used to "tap" a modifier mid-sequence) and has
// no effect on the release edge.
type KeyCode int

func (KeyCode) instruction() {}

// String returns a short human-readable form for logs and diagnostics.
func (k KeyCode) String() string {
	if k < 0 {
		return fmt.Sprintf("keycode(release %d)", -int(k))
	}
	return fmt.Sprintf("keycode(%d)", int(k))
}

// Delay suspends sequence execution. It only acts on the press edge.
type Delay time.Duration

func (Delay) instruction() {}

// String returns a short human-readable form for logs and diagnostics.
func (d Delay) String() string {
	return fmt.Sprintf("delay(%s)", time.Duration(d))
}

// TypeText emits a string as keystrokes through layout translation. It is
// atomic: no per-key state is tracked for the release edge.
type TypeText string

func (TypeText) instruction() {}

// String returns a short human-readable form for logs and diagnostics.
func (t TypeText) String() string {
	return fmt.Sprintf("text(%q)", string(t))
}

// MediaStep is one element of a MediaCodes sequence: either a consumer
// usage code to retrigger, or a pause. Code zero marks a pause step.
type MediaStep struct {
	// Code is the consumer-control usage to send. Zero means this step
	// is a pause.
	Code int

	// Pause is the delay duration for pause steps.
	Pause time.Duration
}

// IsPause reports whether this step is a pause rather than a code.
func (s MediaStep) IsPause() bool { return s.Code == 0 }

// MediaCodes sends a run of consumer-control codes. Each code is sent as
// release-then-press so repeated codes retrigger; pauses interleave delays.
// Consumer codes are momentary: nothing is scheduled for the release edge.
type MediaCodes []MediaStep

func (MediaCodes) instruction() {}

// String returns a short human-readable form for logs and diagnostics.
func (m MediaCodes) String() string {
	parts := make([]string, 0, len(m))
	for _, s := range m {
		if s.IsPause() {
			parts = append(parts, s.Pause.String())
		} else {
			parts = append(parts, fmt.Sprintf("%d", s.Code))
		}
	}
	return fmt.Sprintf("media(%s)", strings.Join(parts, " "))
}

// MouseAction combines a button edge, relative motion, and a tone or
// one-shot audio playback in a single sequence position.
type MouseAction struct {
	// Buttons presses the mask when non-negative and releases -mask when
	// negative. Nil means no button change.
	Buttons *int

	// DX, DY and Wheel give relative motion, defaulting to zero.
	DX, DY, Wheel int

	// Tone starts a tone at the given frequency when positive and stops
	// any tone otherwise. Nil means no tone change.
	Tone *int

	// Play is a one-shot audio file to play. It is only evaluated when
	// Tone is nil; tone takes precedence when both are present.
	Play string
}

func (MouseAction) instruction() {}

// String returns a short human-readable form for logs and diagnostics.
func (m MouseAction) String() string {
	var b strings.Builder
	b.WriteString("mouse(")
	if m.Buttons != nil {
		fmt.Fprintf(&b, "buttons=%d ", *m.Buttons)
	}
	fmt.Fprintf(&b, "dx=%d dy=%d wheel=%d", m.DX, m.DY, m.Wheel)
	if m.Tone != nil {
		fmt.Fprintf(&b, " tone=%d", *m.Tone)
	} else if m.Play != "" {
		fmt.Fprintf(&b, " play=%s", m.Play)
	}
	b.WriteString(")")
	return b.String()
}
