package profile

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/MJD19994/macropad/internal/device/hid"
	"github.com/MJD19994/macropad/internal/logging"
)

// Loader reads profile descriptors from JSON files.
//
// A descriptor mirrors the original macro file shape: a name plus a list of
// [color, label, sequence] entries, where sequence items are heterogeneous:
// integers are keycodes, fractional numbers are delays in seconds, strings
// are typed text, arrays are consumer-control runs, and objects are mouse
// actions. Malformed descriptors are skipped with a diagnostic; they never
// abort loading.
type Loader struct {
	log *logging.Logger
}

// NewLoader creates a loader that reports skipped files to log.
func NewLoader(log *logging.Logger) *Loader {
	if log == nil {
		log = logging.Null
	}
	return &Loader{log: log}
}

// LoadDir loads every "*.json" descriptor in dir in filename order. Files
// beginning with "._" are ignored. Each malformed descriptor is skipped
// with one logged diagnostic. Returns ErrNoProfiles if nothing loads.
func (l *Loader) LoadDir(dir string) ([]Profile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading profile folder: %w", err)
	}

	profiles := make([]Profile, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, "._") {
			continue
		}

		p, err := l.LoadFile(filepath.Join(dir, name))
		if err != nil {
			l.log.Warn("skipping profile %s: %v", name, err)
			continue
		}
		profiles = append(profiles, p)
	}

	if len(profiles) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoProfiles)
	}
	return profiles, nil
}

// LoadFile loads a single profile descriptor.
func (l *Loader) LoadFile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("reading descriptor: %w", err)
	}
	return Parse(data)
}

// Parse validates and converts one JSON descriptor into a Profile.
func Parse(data []byte) (Profile, error) {
	if !gjson.ValidBytes(data) {
		return Profile{}, fmt.Errorf("invalid JSON")
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return Profile{}, fmt.Errorf("descriptor must be an object")
	}

	name := root.Get("name")
	if name.Type != gjson.String {
		return Profile{}, fmt.Errorf("missing or non-string name")
	}

	macros := root.Get("macros")
	if !macros.IsArray() {
		return Profile{}, fmt.Errorf("missing or non-array macros")
	}

	entries := macros.Array()
	if len(entries) > MaxBindings {
		return Profile{}, fmt.Errorf("%d bindings exceeds maximum of %d", len(entries), MaxBindings)
	}

	p := Profile{
		Name:     name.String(),
		Kind:     KindUserMacro,
		Bindings: make([]Binding, 0, len(entries)),
	}

	for i, entry := range entries {
		b, err := parseBinding(entry)
		if err != nil {
			return Profile{}, fmt.Errorf("binding %d: %w", i, err)
		}
		p.Bindings = append(p.Bindings, b)
	}

	return p, nil
}

// parseBinding converts a [color, label, sequence] entry.
func parseBinding(entry gjson.Result) (Binding, error) {
	if !entry.IsArray() {
		return Binding{}, fmt.Errorf("entry must be a [color, label, sequence] array")
	}
	parts := entry.Array()
	if len(parts) != 3 {
		return Binding{}, fmt.Errorf("entry has %d elements, want 3", len(parts))
	}

	color, err := parseColor(parts[0])
	if err != nil {
		return Binding{}, err
	}

	if parts[1].Type != gjson.String {
		return Binding{}, fmt.Errorf("label must be a string")
	}

	if !parts[2].IsArray() {
		return Binding{}, fmt.Errorf("sequence must be an array")
	}

	items := parts[2].Array()
	seq := make([]Instruction, 0, len(items))
	for i, item := range items {
		inst, err := parseInstruction(item)
		if err != nil {
			return Binding{}, fmt.Errorf("sequence item %d: %w", i, err)
		}
		seq = append(seq, inst)
	}

	return Binding{Color: color, Label: parts[1].String(), Sequence: seq}, nil
}

// parseColor accepts a 24-bit RGB value as a JSON number or as a hex
// string like "0x004000" or "#004000".
func parseColor(v gjson.Result) (uint32, error) {
	switch v.Type {
	case gjson.Number:
		if isFloatLiteral(v.Raw) || v.Num < 0 || v.Num > 0xFFFFFF {
			return 0, fmt.Errorf("color %s out of 24-bit range", v.Raw)
		}
		return uint32(v.Num), nil
	case gjson.String:
		s := strings.TrimPrefix(strings.TrimPrefix(v.String(), "0x"), "#")
		n, err := strconv.ParseUint(s, 16, 32)
		if err != nil || n > 0xFFFFFF {
			return 0, fmt.Errorf("color %q is not a 24-bit hex value", v.String())
		}
		return uint32(n), nil
	default:
		return 0, fmt.Errorf("color must be a number or hex string")
	}
}

// parseInstruction dispatches on the JSON shape of one sequence item.
func parseInstruction(item gjson.Result) (Instruction, error) {
	switch {
	case item.Type == gjson.Number:
		return parseNumber(item)
	case item.Type == gjson.String:
		text := item.String()
		if !hid.CanTranslate(text) {
			return nil, fmt.Errorf("text %q contains untypeable characters", text)
		}
		return TypeText(text), nil
	case item.IsArray():
		return parseMediaCodes(item)
	case item.IsObject():
		return parseMouseAction(item)
	default:
		return nil, fmt.Errorf("unsupported sequence item %s", item.Raw)
	}
}

// parseNumber distinguishes keycodes from delays the way the original
// distinguished int from float literals: fractional or exponent syntax
// means a delay in seconds, plain integers are keycodes.
func parseNumber(item gjson.Result) (Instruction, error) {
	if isFloatLiteral(item.Raw) {
		if item.Num < 0 {
			return nil, fmt.Errorf("negative delay %s", item.Raw)
		}
		return Delay(secondsToDuration(item.Num)), nil
	}

	code := int(item.Num)
	abs := code
	if abs < 0 {
		abs = -abs
	}
	if abs == 0 || abs > hid.MaxKeycode {
		return nil, fmt.Errorf("keycode %d out of range", code)
	}
	return KeyCode(code), nil
}

// parseMediaCodes converts an array of consumer codes and pauses.
func parseMediaCodes(item gjson.Result) (Instruction, error) {
	elems := item.Array()
	steps := make(MediaCodes, 0, len(elems))
	for i, e := range elems {
		if e.Type != gjson.Number {
			return nil, fmt.Errorf("media element %d must be a number", i)
		}
		if isFloatLiteral(e.Raw) {
			if e.Num < 0 {
				return nil, fmt.Errorf("media element %d: negative delay", i)
			}
			steps = append(steps, MediaStep{Pause: secondsToDuration(e.Num)})
			continue
		}
		code := int(e.Num)
		if code < 1 || code > hid.MaxConsumerCode {
			return nil, fmt.Errorf("media element %d: consumer code %d out of range", i, code)
		}
		steps = append(steps, MediaStep{Code: code})
	}
	return steps, nil
}

// mouseKeys are the fields a mouse action object may carry.
var mouseKeys = map[string]bool{
	"buttons": true,
	"x":       true,
	"y":       true,
	"wheel":   true,
	"tone":    true,
	"play":    true,
}

// parseMouseAction converts a {buttons, x, y, wheel, tone, play} object.
func parseMouseAction(item gjson.Result) (Instruction, error) {
	var (
		m       MouseAction
		itemErr error
	)

	item.ForEach(func(key, value gjson.Result) bool {
		k := key.String()
		if !mouseKeys[k] {
			itemErr = fmt.Errorf("unknown mouse field %q", k)
			return false
		}

		if k == "play" {
			if value.Type != gjson.String {
				itemErr = fmt.Errorf("play must be a string")
				return false
			}
			m.Play = value.String()
			return true
		}

		if value.Type != gjson.Number || isFloatLiteral(value.Raw) || value.Num != math.Trunc(value.Num) {
			itemErr = fmt.Errorf("%s must be an integer", k)
			return false
		}
		n := int(value.Num)

		switch k {
		case "buttons":
			m.Buttons = &n
		case "x":
			m.DX = n
		case "y":
			m.DY = n
		case "wheel":
			m.Wheel = n
		case "tone":
			m.Tone = &n
		}
		return true
	})

	if itemErr != nil {
		return nil, itemErr
	}
	return m, nil
}

// isFloatLiteral reports whether a JSON number token uses fractional or
// exponent syntax.
func isFloatLiteral(raw string) bool {
	return strings.ContainsAny(raw, ".eE")
}

// secondsToDuration converts fractional seconds to a duration.
func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
