// Package hid defines USB HID usage codes and keyboard layout translation
// for the macropad's host-visible output.
//
// Keycode values follow the USB HID keyboard/keypad usage page (0x07), so
// profile descriptors can use the same numeric codes as the original
// CircuitPython Keycode constants.
package hid

// Modifier and common keycodes (USB HID usage page 0x07).
const (
	KeyA = 0x04 + iota
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
)

// Number row (1..9, 0).
const (
	KeyOne = 0x1E + iota
	KeyTwo
	KeyThree
	KeyFour
	KeyFive
	KeySix
	KeySeven
	KeyEight
	KeyNine
	KeyZero
)

// Control and punctuation keys.
const (
	KeyEnter        = 0x28
	KeyEscape       = 0x29
	KeyBackspace    = 0x2A
	KeyTab          = 0x2B
	KeySpace        = 0x2C
	KeyMinus        = 0x2D
	KeyEquals       = 0x2E
	KeyLeftBracket  = 0x2F
	KeyRightBracket = 0x30
	KeyBackslash    = 0x31
	KeySemicolon    = 0x33
	KeyQuote        = 0x34
	KeyGrave        = 0x35
	KeyComma        = 0x36
	KeyPeriod       = 0x37
	KeySlash        = 0x38
	KeyCapsLock     = 0x39
)

// Function keys.
const (
	KeyF1 = 0x3A + iota
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// Navigation cluster.
const (
	KeyPrintScreen = 0x46
	KeyScrollLock  = 0x47
	KeyPause       = 0x48
	KeyInsert      = 0x49
	KeyHome        = 0x4A
	KeyPageUp      = 0x4B
	KeyDelete      = 0x4C
	KeyEnd         = 0x4D
	KeyPageDown    = 0x4E
	KeyRightArrow  = 0x4F
	KeyLeftArrow   = 0x50
	KeyDownArrow   = 0x51
	KeyUpArrow     = 0x52
)

// Modifier keys (usage 0xE0-0xE7). Control/Shift/Alt/GUI alias the left
// variants, matching the constants profile authors already use.
const (
	KeyLeftControl  = 0xE0
	KeyLeftShift    = 0xE1
	KeyLeftAlt      = 0xE2
	KeyLeftGUI      = 0xE3
	KeyRightControl = 0xE4
	KeyRightShift   = 0xE5
	KeyRightAlt     = 0xE6
	KeyRightGUI     = 0xE7

	KeyControl = KeyLeftControl
	KeyShift   = KeyLeftShift
	KeyAlt     = KeyLeftAlt
	KeyGUI     = KeyLeftGUI
)

// MaxKeycode is the highest keycode accepted from a profile descriptor.
const MaxKeycode = 0xE7

// Consumer-control usage codes (usage page 0x0C).
const (
	ConsumerRecord              = 0xB2
	ConsumerFastForward         = 0xB3
	ConsumerRewind              = 0xB4
	ConsumerScanNextTrack       = 0xB5
	ConsumerScanPreviousTrack   = 0xB6
	ConsumerStop                = 0xB7
	ConsumerEject               = 0xB8
	ConsumerPlayPause           = 0xCD
	ConsumerMute                = 0xE2
	ConsumerVolumeIncrement     = 0xE9
	ConsumerVolumeDecrement     = 0xEA
	ConsumerBrightnessIncrement = 0x6F
	ConsumerBrightnessDecrement = 0x70
)

// MaxConsumerCode is the highest consumer usage accepted from a profile
// descriptor (AC Distribute Vertically, the top of the consumer page range
// advertised in the HID report descriptor).
const MaxConsumerCode = 0x29C

// Mouse button masks.
const (
	MouseLeft   = 0x01
	MouseRight  = 0x02
	MouseMiddle = 0x04
)
