// Package device defines the boundary contracts between the firmware core
// and the concrete hardware (or simulated hardware): output sinks for
// keyboard, consumer-control, mouse and sound; the key/encoder input
// source; and the display surface.
package device

// KeyEvent is one physical key edge from the input source.
type KeyEvent struct {
	// KeyIndex is the physical key position (0-11).
	KeyIndex int

	// Pressed is true for the press edge and false for the release edge.
	Pressed bool
}

// InputSource produces key events and exposes the absolute encoder
// position. It is polled once per control-loop iteration.
type InputSource interface {
	// NextKey returns the next pending key event, if any.
	NextKey() (KeyEvent, bool)

	// EncoderPosition returns the absolute encoder position. It may be
	// any integer, including negative after counter-clockwise turns.
	EncoderPosition() int
}

// Output groups the device action sinks the interpreter submits to.
type Output interface {
	// PressKey presses a keyboard usage code.
	PressKey(code int)

	// ReleaseKey releases a keyboard usage code.
	ReleaseKey(code int)

	// ReleaseAllKeys releases every held keyboard code.
	ReleaseAllKeys()

	// WriteText types text through the active keyboard layout.
	WriteText(text string)

	// PressMedia presses a consumer-control usage code.
	PressMedia(code int)

	// ReleaseMedia releases any held consumer-control code.
	ReleaseMedia()

	// MoveMouse moves the pointer and scrolls relative to its position.
	MoveMouse(dx, dy, wheel int)

	// PressMouseButtons presses the buttons in mask.
	PressMouseButtons(mask int)

	// ReleaseMouseButtons releases the buttons in mask.
	ReleaseMouseButtons(mask int)

	// ReleaseAllMouseButtons releases every held mouse button.
	ReleaseAllMouseButtons()

	// StartTone starts a tone at the given frequency in Hz.
	StartTone(freq int)

	// StopTone stops any playing tone.
	StopTone()

	// PlayFile plays an audio file once.
	PlayFile(path string)
}

// Display is the on-device display surface. The presenter maps a profile
// onto it; the game swaps in its own surface and the controller restores
// the macro menu surface when the game returns.
type Display interface {
	// SetLabel sets the label text for a key slot.
	SetLabel(slot int, text string)

	// SetColor sets the LED color for a key slot as 24-bit RGB.
	SetColor(slot int, color uint32)

	// SetTitle sets the banner title text.
	SetTitle(text string)

	// SetBannerFill sets the banner background color as 24-bit RGB.
	SetBannerFill(color uint32)

	// SetRotation sets the display rotation in degrees.
	SetRotation(degrees int)

	// SetActiveSurface switches which surface the display shows.
	SetActiveSurface(surface Surface)

	// Refresh pushes pending label, color and banner changes to the
	// physical display.
	Refresh()
}

// Surface identifies a display surface handle. The core treats surfaces as
// opaque; it only swaps between the macro menu surface and whatever the
// game installed.
type Surface interface {
	// SurfaceName names the surface for diagnostics.
	SurfaceName() string
}
