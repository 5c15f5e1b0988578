package device

import (
	"fmt"
	"sync"
)

// Trace is an Output that records every sink call as a formatted string.
// The simulator uses it to drive its action log pane and tests use it to
// assert on exact action order.
type Trace struct {
	mu      sync.Mutex
	calls   []string
	forward Output
	notify  func(string)
}

// NewTrace creates an empty trace. If forward is non-nil every call is
// passed through to it after recording.
func NewTrace(forward Output) *Trace {
	return &Trace{forward: forward}
}

// OnCall registers a callback invoked for each recorded call.
func (t *Trace) OnCall(fn func(string)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.notify = fn
}

// Calls returns a copy of the recorded calls in order.
func (t *Trace) Calls() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.calls))
	copy(out, t.calls)
	return out
}

// Reset clears the recorded calls.
func (t *Trace) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = t.calls[:0]
}

// record appends one formatted call and notifies any listener.
func (t *Trace) record(format string, args ...any) {
	t.mu.Lock()
	line := fmt.Sprintf(format, args...)
	t.calls = append(t.calls, line)
	notify := t.notify
	t.mu.Unlock()

	if notify != nil {
		notify(line)
	}
}

// PressKey records and forwards a key press.
func (t *Trace) PressKey(code int) {
	t.record("press(%d)", code)
	if t.forward != nil {
		t.forward.PressKey(code)
	}
}

// ReleaseKey records and forwards a key release.
func (t *Trace) ReleaseKey(code int) {
	t.record("release(%d)", code)
	if t.forward != nil {
		t.forward.ReleaseKey(code)
	}
}

// ReleaseAllKeys records and forwards releasing all keys.
func (t *Trace) ReleaseAllKeys() {
	t.record("releaseAllKeys()")
	if t.forward != nil {
		t.forward.ReleaseAllKeys()
	}
}

// WriteText records and forwards typed text.
func (t *Trace) WriteText(text string) {
	t.record("writeText(%q)", text)
	if t.forward != nil {
		t.forward.WriteText(text)
	}
}

// PressMedia records and forwards a consumer-control press.
func (t *Trace) PressMedia(code int) {
	t.record("pressMedia(%d)", code)
	if t.forward != nil {
		t.forward.PressMedia(code)
	}
}

// ReleaseMedia records and forwards a consumer-control release.
func (t *Trace) ReleaseMedia() {
	t.record("releaseMedia()")
	if t.forward != nil {
		t.forward.ReleaseMedia()
	}
}

// MoveMouse records and forwards mouse motion.
func (t *Trace) MoveMouse(dx, dy, wheel int) {
	t.record("moveMouse(%d, %d, %d)", dx, dy, wheel)
	if t.forward != nil {
		t.forward.MoveMouse(dx, dy, wheel)
	}
}

// PressMouseButtons records and forwards a mouse button press.
func (t *Trace) PressMouseButtons(mask int) {
	t.record("pressMouseButtons(%d)", mask)
	if t.forward != nil {
		t.forward.PressMouseButtons(mask)
	}
}

// ReleaseMouseButtons records and forwards a mouse button release.
func (t *Trace) ReleaseMouseButtons(mask int) {
	t.record("releaseMouseButtons(%d)", mask)
	if t.forward != nil {
		t.forward.ReleaseMouseButtons(mask)
	}
}

// ReleaseAllMouseButtons records and forwards releasing all buttons.
func (t *Trace) ReleaseAllMouseButtons() {
	t.record("releaseAllMouseButtons()")
	if t.forward != nil {
		t.forward.ReleaseAllMouseButtons()
	}
}

// StartTone records and forwards starting a tone.
func (t *Trace) StartTone(freq int) {
	t.record("startTone(%d)", freq)
	if t.forward != nil {
		t.forward.StartTone(freq)
	}
}

// StopTone records and forwards stopping the tone.
func (t *Trace) StopTone() {
	t.record("stopTone()")
	if t.forward != nil {
		t.forward.StopTone()
	}
}

// PlayFile records and forwards one-shot audio playback.
func (t *Trace) PlayFile(path string) {
	t.record("playFile(%s)", path)
	if t.forward != nil {
		t.forward.PlayFile(path)
	}
}
