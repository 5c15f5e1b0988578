//go:build linux

package uinput

// usbKeycodeToEvdev maps USB HID keyboard usage codes to Linux evdev key
// codes. This is the kernel's usbkbd translation table; unsupported usages
// map to zero.
var usbKeycodeToEvdev = [256]uint16{
	0, 0, 0, 0, 30, 48, 46, 32, 18, 33, 34, 35, 23, 36, 37, 38,
	50, 49, 24, 25, 16, 19, 31, 20, 22, 47, 17, 45, 21, 44, 2, 3,
	4, 5, 6, 7, 8, 9, 10, 11, 28, 1, 14, 15, 57, 12, 13, 26,
	27, 43, 43, 39, 40, 41, 51, 52, 53, 58, 59, 60, 61, 62, 63, 64,
	65, 66, 67, 68, 87, 88, 99, 70, 119, 110, 102, 104, 111, 107, 109, 106,
	105, 108, 103, 69, 98, 55, 74, 78, 96, 79, 80, 81, 75, 76, 77, 71,
	72, 73, 82, 83, 86, 127, 116, 117, 183, 184, 185, 186, 187, 188, 189, 190,
	191, 192, 193, 194, 134, 138, 130, 132, 128, 129, 131, 137, 133, 135, 136, 113,
	115, 114, 0, 0, 0, 121, 0, 89, 93, 124, 92, 94, 95, 0, 0, 0,
	122, 123, 90, 91, 85, 0, 0, 89, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	29, 42, 56, 125, 97, 54, 100, 126, 164, 166, 165, 163, 161, 115, 114, 113,
	150, 158, 159, 128, 136, 177, 178, 176, 142, 152, 173, 140,
}

// consumerToEvdev maps the consumer-control usages profiles commonly send
// to evdev key codes.
var consumerToEvdev = map[int]uint16{
	0xB2: 167, // record
	0xB3: 208, // fast forward
	0xB4: 168, // rewind
	0xB5: 163, // next track
	0xB6: 165, // previous track
	0xB7: 166, // stop
	0xB8: 161, // eject
	0xCD: 164, // play/pause
	0xE2: 113, // mute
	0xE9: 115, // volume up
	0xEA: 114, // volume down
	0x6F: 225, // brightness up
	0x70: 224, // brightness down
}

// evdev event types and codes used by the writer.
const (
	evSyn = 0x00
	evKey = 0x01
	evRel = 0x02

	synReport = 0

	relX     = 0x00
	relY     = 0x01
	relWheel = 0x08

	btnLeft   = 0x110
	btnRight  = 0x111
	btnMiddle = 0x112
)

// uinput ioctl requests.
const (
	uiSetEvBit  = 0x40045564
	uiSetKeyBit = 0x40045565
	uiSetRelBit = 0x40045566
	uiDevSetup  = 0x405c5503
	uiDevCreate = 0x5501
	uiDevRemove = 0x5502
)
