//go:build linux

package uinput

import (
	"encoding/binary"
	"fmt"
	"os"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/MJD19994/macropad/internal/device/hid"
	"github.com/MJD19994/macropad/internal/logging"
)

// deviceName is the name the virtual device registers under.
const deviceName = "macropad"

// Device is a device.Output backed by a /dev/uinput virtual keyboard and
// mouse.
type Device struct {
	f    *os.File
	log  *logging.Logger
	held map[uint16]bool
}

// uinputSetup mirrors struct uinput_setup: input_id, an 80-byte name, and
// ff_effects_max.
type uinputSetup struct {
	BusType       uint16
	Vendor        uint16
	Product       uint16
	Version       uint16
	Name          [80]byte
	FFEffectsMax  uint32
}

// New opens /dev/uinput and registers a virtual keyboard/mouse device.
func New(log *logging.Logger) (*Device, error) {
	if log == nil {
		log = logging.Null
	}

	f, err := os.OpenFile("/dev/uinput", os.O_WRONLY, 0o666)
	if err != nil {
		return nil, fmt.Errorf("opening /dev/uinput: %w", err)
	}

	d := &Device{f: f, log: log, held: make(map[uint16]bool)}
	if err := d.setup(); err != nil {
		f.Close()
		return nil, err
	}
	return d, nil
}

// setup declares the supported event bits and creates the device node.
func (d *Device) setup() error {
	fd := int(d.f.Fd())

	if err := unix.IoctlSetInt(fd, uiSetEvBit, evKey); err != nil {
		return fmt.Errorf("enabling key events: %w", err)
	}
	if err := unix.IoctlSetInt(fd, uiSetEvBit, evRel); err != nil {
		return fmt.Errorf("enabling relative events: %w", err)
	}

	for _, code := range usbKeycodeToEvdev {
		if code != 0 {
			_ = unix.IoctlSetInt(fd, uiSetKeyBit, int(code))
		}
	}
	for _, code := range consumerToEvdev {
		_ = unix.IoctlSetInt(fd, uiSetKeyBit, int(code))
	}
	for _, code := range []int{btnLeft, btnRight, btnMiddle} {
		_ = unix.IoctlSetInt(fd, uiSetKeyBit, code)
	}
	for _, axis := range []int{relX, relY, relWheel} {
		_ = unix.IoctlSetInt(fd, uiSetRelBit, axis)
	}

	var setup uinputSetup
	setup.BusType = 0x03 // BUS_USB
	setup.Vendor = 0x1d6b
	setup.Product = 0x0104
	copy(setup.Name[:], deviceName)

	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uiDevSetup,
		uintptr(unsafe.Pointer(&setup))); errno != 0 {
		return fmt.Errorf("uinput device setup: %w", errno)
	}
	if err := unix.IoctlSetInt(fd, uiDevCreate, 0); err != nil {
		return fmt.Errorf("creating uinput device: %w", err)
	}

	// Give the desktop a moment to pick the new device up before events
	// start flowing.
	time.Sleep(100 * time.Millisecond)
	return nil
}

// Close releases everything still held and removes the device node.
func (d *Device) Close() error {
	d.ReleaseAllKeys()
	d.ReleaseAllMouseButtons()
	_ = unix.IoctlSetInt(int(d.f.Fd()), uiDevRemove, 0)
	return d.f.Close()
}

// emit writes one input event followed by nothing; callers send their own
// SYN_REPORT via sync.
func (d *Device) emit(eventType, code uint16, value int32) {
	var buf [24]byte
	// Leading 16 bytes are struct timeval; the kernel fills timestamps.
	binary.LittleEndian.PutUint16(buf[16:], eventType)
	binary.LittleEndian.PutUint16(buf[18:], code)
	binary.LittleEndian.PutUint32(buf[20:], uint32(value))
	if _, err := d.f.Write(buf[:]); err != nil {
		d.log.Error("uinput write: %v", err)
	}
}

// sync flushes the current event batch to the host.
func (d *Device) sync() {
	d.emit(evSyn, synReport, 0)
}

// key writes one evdev key edge and syncs.
func (d *Device) key(code uint16, pressed bool) {
	value := int32(0)
	if pressed {
		value = 1
	}
	d.emit(evKey, code, value)
	d.sync()
	if pressed {
		d.held[code] = true
	} else {
		delete(d.held, code)
	}
}

// PressKey presses a keyboard usage code.
func (d *Device) PressKey(code int) {
	if ev := translateUsage(code); ev != 0 {
		d.key(ev, true)
	}
}

// ReleaseKey releases a keyboard usage code.
func (d *Device) ReleaseKey(code int) {
	if ev := translateUsage(code); ev != 0 {
		d.key(ev, false)
	}
}

// ReleaseAllKeys releases every held key.
func (d *Device) ReleaseAllKeys() {
	for code := range d.held {
		d.key(code, false)
	}
}

// WriteText types text through US layout translation.
func (d *Device) WriteText(text string) {
	strokes, err := hid.Translate(text)
	if err != nil {
		d.log.Warn("writeText: %v", err)
		return
	}

	shift := usbKeycodeToEvdev[hid.KeyLeftShift]
	for _, ks := range strokes {
		ev := translateUsage(ks.Code)
		if ev == 0 {
			continue
		}
		if ks.Shift {
			d.key(shift, true)
		}
		d.key(ev, true)
		d.key(ev, false)
		if ks.Shift {
			d.key(shift, false)
		}
	}
}

// PressMedia presses a consumer-control code, when the host has an evdev
// equivalent for it.
func (d *Device) PressMedia(code int) {
	ev, ok := consumerToEvdev[code]
	if !ok {
		d.log.Debug("no evdev mapping for consumer code %d", code)
		return
	}
	d.key(ev, true)
	d.key(ev, false)
}

// ReleaseMedia is a no-op: consumer codes are sent as momentary taps.
func (d *Device) ReleaseMedia() {}

// MoveMouse moves the pointer and scrolls.
func (d *Device) MoveMouse(dx, dy, wheel int) {
	if dx == 0 && dy == 0 && wheel == 0 {
		return
	}
	if dx != 0 {
		d.emit(evRel, relX, int32(dx))
	}
	if dy != 0 {
		d.emit(evRel, relY, int32(dy))
	}
	if wheel != 0 {
		d.emit(evRel, relWheel, int32(wheel))
	}
	d.sync()
}

// PressMouseButtons presses the buttons in mask.
func (d *Device) PressMouseButtons(mask int) {
	d.buttons(mask, true)
}

// ReleaseMouseButtons releases the buttons in mask.
func (d *Device) ReleaseMouseButtons(mask int) {
	d.buttons(mask, false)
}

// ReleaseAllMouseButtons releases every mouse button.
func (d *Device) ReleaseAllMouseButtons() {
	d.buttons(hid.MouseLeft|hid.MouseRight|hid.MouseMiddle, false)
}

// buttons applies one edge to every button in mask.
func (d *Device) buttons(mask int, pressed bool) {
	if mask&hid.MouseLeft != 0 {
		d.key(btnLeft, pressed)
	}
	if mask&hid.MouseRight != 0 {
		d.key(btnRight, pressed)
	}
	if mask&hid.MouseMiddle != 0 {
		d.key(btnMiddle, pressed)
	}
}

// StartTone has no uinput equivalent.
func (d *Device) StartTone(freq int) {
	d.log.Debug("tone %d Hz not supported by uinput output", freq)
}

// StopTone has no uinput equivalent.
func (d *Device) StopTone() {}

// PlayFile has no uinput equivalent.
func (d *Device) PlayFile(path string) {
	d.log.Debug("audio playback %s not supported by uinput output", path)
}

// translateUsage converts a USB HID usage to an evdev code.
func translateUsage(code int) uint16 {
	if code < 0 || code >= len(usbKeycodeToEvdev) {
		return 0
	}
	return usbKeycodeToEvdev[code]
}
