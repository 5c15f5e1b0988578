package controller

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/MJD19994/macropad/internal/device"
	"github.com/MJD19994/macropad/internal/game"
	"github.com/MJD19994/macropad/internal/macro"
	"github.com/MJD19994/macropad/internal/profile"
)

// fakeDisplay records every display call in order.
type fakeDisplay struct {
	calls  []string
	labels [profile.MaxBindings]string
	colors [profile.MaxBindings]uint32
	title  string
}

func (d *fakeDisplay) SetLabel(slot int, text string) {
	d.labels[slot] = text
	d.calls = append(d.calls, fmt.Sprintf("label(%d, %q)", slot, text))
}

func (d *fakeDisplay) SetColor(slot int, color uint32) {
	d.colors[slot] = color
	d.calls = append(d.calls, fmt.Sprintf("color(%d, %#06x)", slot, color))
}

func (d *fakeDisplay) SetTitle(text string) {
	d.title = text
	d.calls = append(d.calls, fmt.Sprintf("title(%q)", text))
}

func (d *fakeDisplay) SetBannerFill(color uint32) {
	d.calls = append(d.calls, fmt.Sprintf("banner(%#04x)", color))
}

func (d *fakeDisplay) SetRotation(degrees int) {
	d.calls = append(d.calls, fmt.Sprintf("rotate(%d)", degrees))
}

func (d *fakeDisplay) SetActiveSurface(s device.Surface) {
	d.calls = append(d.calls, fmt.Sprintf("surface(%s)", s.SurfaceName()))
}

func (d *fakeDisplay) Refresh() {
	d.calls = append(d.calls, "refresh()")
}

func (d *fakeDisplay) count(call string) int {
	n := 0
	for _, c := range d.calls {
		if c == call {
			n++
		}
	}
	return n
}

type namedSurface string

func (s namedSurface) SurfaceName() string { return string(s) }

// scriptStep is one control-loop iteration's worth of input: the encoder
// position observed that iteration and an optional key event.
type scriptStep struct {
	encoder int
	key     *device.KeyEvent
}

func press(index int) *device.KeyEvent   { return &device.KeyEvent{KeyIndex: index, Pressed: true} }
func release(index int) *device.KeyEvent { return &device.KeyEvent{KeyIndex: index} }

// scriptedInput feeds the controller a fixed step sequence and cancels the
// run context once the script is exhausted.
type scriptedInput struct {
	steps  []scriptStep
	i      int
	cancel context.CancelFunc
}

func (s *scriptedInput) EncoderPosition() int {
	if s.i < len(s.steps) {
		return s.steps[s.i].encoder
	}
	if len(s.steps) > 0 {
		return s.steps[len(s.steps)-1].encoder
	}
	return 0
}

func (s *scriptedInput) NextKey() (device.KeyEvent, bool) {
	if s.i >= len(s.steps) {
		s.cancel()
		return device.KeyEvent{}, false
	}
	step := s.steps[s.i]
	s.i++
	if step.key == nil {
		return device.KeyEvent{}, false
	}
	return *step.key, true
}

type fakeGame struct {
	runs    int
	outcome game.Outcome
	err     error
}

func (g *fakeGame) Run() (game.Outcome, error) {
	g.runs++
	return g.outcome, g.err
}

// harness wires a controller over fakes. run executes the scripted input
// to exhaustion; the script's final step cancels the loop.
type harness struct {
	trace   *device.Trace
	display *fakeDisplay
	input   *scriptedInput
	game    *fakeGame
	ctrl    *Controller
}

func newHarness(profiles []profile.Profile, steps []scriptStep, opts ...Option) *harness {
	h := &harness{
		trace:   device.NewTrace(nil),
		display: &fakeDisplay{},
		input:   &scriptedInput{steps: steps},
		game:    &fakeGame{outcome: game.OutcomeEnded},
	}

	interp := macro.New(h.trace, macro.WithSleep(func(time.Duration) {}))
	registry := profile.NewRegistry(profiles)

	opts = append([]Option{WithIdle(func() {})}, opts...)
	h.ctrl = New(registry, interp, h.trace, h.display, h.input, h.game, opts...)
	return h
}

func (h *harness) run(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h.input.cancel = cancel

	if err := h.ctrl.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
}

func userProfile(name string, bindings ...profile.Binding) profile.Profile {
	return profile.Profile{Name: name, Bindings: bindings}
}

func TestRunHaltsOnEmptyRegistry(t *testing.T) {
	h := newHarness(nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := h.ctrl.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}

	if h.display.title != "NO MACRO FILES FOUND" {
		t.Errorf("title = %q, want halt message", h.display.title)
	}
	if h.display.count("banner(0xffffff)") != 1 {
		t.Errorf("banner not filled: %v", h.display.calls)
	}
	if got := h.trace.Calls(); len(got) != 0 {
		t.Errorf("halt produced device output: %v", got)
	}
}

func TestStartupSelectsFirstProfile(t *testing.T) {
	h := newHarness(
		[]profile.Profile{userProfile("Alpha"), userProfile("Beta")},
		[]scriptStep{{encoder: 0}},
	)
	h.run(t)

	if h.ctrl.ProfileIndex() != 0 {
		t.Errorf("ProfileIndex() = %d, want 0", h.ctrl.ProfileIndex())
	}
	if h.ctrl.Mode() != ModeMacroDispatch {
		t.Errorf("Mode() = %v, want %v", h.ctrl.Mode(), ModeMacroDispatch)
	}
	if h.display.title != "Alpha" {
		t.Errorf("title = %q, want %q", h.display.title, "Alpha")
	}
}

func TestEncoderSwitchesWithWrap(t *testing.T) {
	tests := []struct {
		name      string
		position  int
		wantIndex int
		wantTitle string
	}{
		{"forward", 1, 1, "Beta"},
		{"wraps past end", 3, 0, "Alpha"},
		{"counter-clockwise wraps", -1, 2, "Gamma"},
		{"large negative", -7, 2, "Gamma"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(
				[]profile.Profile{userProfile("Alpha"), userProfile("Beta"), userProfile("Gamma")},
				[]scriptStep{{encoder: 0}, {encoder: tt.position}},
			)
			h.run(t)

			if h.ctrl.ProfileIndex() != tt.wantIndex {
				t.Errorf("ProfileIndex() = %d, want %d", h.ctrl.ProfileIndex(), tt.wantIndex)
			}
			if h.display.title != tt.wantTitle {
				t.Errorf("title = %q, want %q", h.display.title, tt.wantTitle)
			}
		})
	}
}

func TestSwitchReleasesEverything(t *testing.T) {
	h := newHarness(
		[]profile.Profile{userProfile("Alpha"), userProfile("Beta")},
		[]scriptStep{{encoder: 0}, {encoder: 1}},
	)
	h.run(t)

	// Startup switch, the first-iteration re-render and the encoder
	// switch each release every sink before presenting.
	releaseAll := []string{"releaseAllKeys()", "releaseMedia()", "releaseAllMouseButtons()", "stopTone()"}
	want := append(append(append([]string{}, releaseAll...), releaseAll...), releaseAll...)
	if got := h.trace.Calls(); !reflect.DeepEqual(got, want) {
		t.Errorf("device calls = %v, want %v", got, want)
	}
}

func TestKeyDispatch(t *testing.T) {
	copyBinding := profile.Binding{
		Label:    "Copy",
		Sequence: []profile.Instruction{profile.KeyCode(224), profile.KeyCode(6)},
	}
	h := newHarness(
		[]profile.Profile{userProfile("Alpha", copyBinding)},
		[]scriptStep{
			{encoder: 0},
			{encoder: 0, key: press(0)},
			{encoder: 0, key: release(0)},
			{encoder: 0, key: press(5)}, // no binding at index 5
		},
	)
	h.run(t)

	releaseAll := []string{"releaseAllKeys()", "releaseMedia()", "releaseAllMouseButtons()", "stopTone()"}
	want := append(append([]string{}, releaseAll...), releaseAll...)
	want = append(want,
		"press(224)", "press(6)", // press edge
		"release(224)", "release(6)", "releaseMedia()", // release edge
	)
	if got := h.trace.Calls(); !reflect.DeepEqual(got, want) {
		t.Errorf("device calls = %v, want %v", got, want)
	}
}

func TestGameLauncherRoundTrip(t *testing.T) {
	h := newHarness(
		[]profile.Profile{userProfile("Alpha"), profile.GameProfile("Dragon Drop")},
		[]scriptStep{
			{encoder: 0},
			{encoder: 1}, // switch to the game launcher profile
			{encoder: 1, key: press(3)},  // not the game key: ignored
			{encoder: 1, key: press(11)}, // game key: runs the game
			{encoder: 1, key: release(11)},
		},
		WithMenuSurface(namedSurface("menu")),
	)
	h.run(t)

	if h.game.runs != 1 {
		t.Fatalf("game ran %d times, want 1", h.game.runs)
	}
	if h.ctrl.ProfileIndex() != 1 {
		t.Errorf("ProfileIndex() = %d, want 1 (unchanged by game)", h.ctrl.ProfileIndex())
	}
	if h.ctrl.Mode() != ModeMacroDispatch {
		t.Errorf("Mode() = %v, want %v after game returns", h.ctrl.Mode(), ModeMacroDispatch)
	}

	// The display is restored with one rotation reset, one surface swap
	// and one refresh beyond the profile renders.
	if h.display.count("rotate(0)") != 1 {
		t.Errorf("rotate(0) called %d times, want 1", h.display.count("rotate(0)"))
	}
	if h.display.count("surface(menu)") != 1 {
		t.Errorf("surface(menu) called %d times, want 1", h.display.count("surface(menu)"))
	}

	// Key presses on the launcher never reach the interpreter.
	releaseAll := []string{"releaseAllKeys()", "releaseMedia()", "releaseAllMouseButtons()", "stopTone()"}
	want := append(append(append([]string{}, releaseAll...), releaseAll...), releaseAll...)
	if got := h.trace.Calls(); !reflect.DeepEqual(got, want) {
		t.Errorf("device calls = %v, want %v", got, want)
	}
}

func TestGameErrorStillRestoresDisplay(t *testing.T) {
	h := newHarness(
		[]profile.Profile{profile.GameProfile("Dragon Drop")},
		[]scriptStep{
			{encoder: 0},
			{encoder: 0, key: press(11)},
		},
		WithMenuSurface(namedSurface("menu")),
	)
	h.game.outcome = game.OutcomeAborted
	h.game.err = errors.New("script failure")
	h.run(t)

	if h.game.runs != 1 {
		t.Fatalf("game ran %d times, want 1", h.game.runs)
	}
	if h.display.count("rotate(0)") != 1 || h.display.count("surface(menu)") != 1 {
		t.Errorf("display not restored after game error: %v", h.display.calls)
	}
	if h.ctrl.Mode() != ModeMacroDispatch {
		t.Errorf("Mode() = %v, want %v", h.ctrl.Mode(), ModeMacroDispatch)
	}
}

func TestCustomGameKey(t *testing.T) {
	h := newHarness(
		[]profile.Profile{profile.GameProfile("Dragon Drop")},
		[]scriptStep{
			{encoder: 0},
			{encoder: 0, key: press(11)}, // default key: no longer special
			{encoder: 0, key: press(4)},
		},
		WithGameKey(4),
	)
	h.run(t)

	if h.game.runs != 1 {
		t.Errorf("game ran %d times, want 1", h.game.runs)
	}
}
