package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// firefoxDescriptor mirrors a typical browser profile with every
// instruction shape: keycodes, a modifier tap, typed text, a delay, a
// consumer-control run and a mouse action.
const firefoxDescriptor = `{
	"name": "Win Firefox",
	"macros": [
		["0x004000", "< Back", [226, 80]],
		[4210704, "Ada", [224, "t", -224, "www.adafruit.com\n"]],
		[64, "Vol+", [[233, 0.1, 233]]],
		[16, "Click", [{"buttons": 1, "x": 5}, 0.05, {"buttons": -1}]]
	]
}`

func TestParse(t *testing.T) {
	p, err := Parse([]byte(firefoxDescriptor))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if p.Name != "Win Firefox" {
		t.Errorf("Name = %q, want %q", p.Name, "Win Firefox")
	}
	if p.Kind != KindUserMacro {
		t.Errorf("Kind = %v, want %v", p.Kind, KindUserMacro)
	}
	if len(p.Bindings) != 4 {
		t.Fatalf("len(Bindings) = %d, want 4", len(p.Bindings))
	}

	back := p.Bindings[0]
	if back.Color != 0x004000 {
		t.Errorf("Color = %#06x, want 0x004000", back.Color)
	}
	if back.Label != "< Back" {
		t.Errorf("Label = %q, want %q", back.Label, "< Back")
	}
	if len(back.Sequence) != 2 {
		t.Fatalf("len(Sequence) = %d, want 2", len(back.Sequence))
	}
	if kc, ok := back.Sequence[0].(KeyCode); !ok || kc != 226 {
		t.Errorf("Sequence[0] = %v, want KeyCode(226)", back.Sequence[0])
	}
}

func TestParseInstructionShapes(t *testing.T) {
	p, err := Parse([]byte(firefoxDescriptor))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	ada := p.Bindings[1].Sequence
	if kc, ok := ada[2].(KeyCode); !ok || kc != -224 {
		t.Errorf("ada[2] = %v, want KeyCode(-224)", ada[2])
	}
	if txt, ok := ada[3].(TypeText); !ok || txt != "www.adafruit.com\n" {
		t.Errorf("ada[3] = %v, want TypeText", ada[3])
	}

	vol := p.Bindings[2].Sequence
	media, ok := vol[0].(MediaCodes)
	if !ok {
		t.Fatalf("vol[0] = %T, want MediaCodes", vol[0])
	}
	if len(media) != 3 {
		t.Fatalf("len(media) = %d, want 3", len(media))
	}
	if media[0].Code != 233 || media[0].IsPause() {
		t.Errorf("media[0] = %+v, want code 233", media[0])
	}
	if !media[1].IsPause() || media[1].Pause != 100*time.Millisecond {
		t.Errorf("media[1] = %+v, want 100ms pause", media[1])
	}

	click := p.Bindings[3].Sequence
	mouse, ok := click[0].(MouseAction)
	if !ok {
		t.Fatalf("click[0] = %T, want MouseAction", click[0])
	}
	if mouse.Buttons == nil || *mouse.Buttons != 1 {
		t.Errorf("Buttons = %v, want 1", mouse.Buttons)
	}
	if mouse.DX != 5 || mouse.DY != 0 || mouse.Wheel != 0 {
		t.Errorf("motion = (%d, %d, %d), want (5, 0, 0)", mouse.DX, mouse.DY, mouse.Wheel)
	}
	if d, ok := click[1].(Delay); !ok || time.Duration(d) != 50*time.Millisecond {
		t.Errorf("click[1] = %v, want Delay(50ms)", click[1])
	}
	if rel, ok := click[2].(MouseAction); !ok || rel.Buttons == nil || *rel.Buttons != -1 {
		t.Errorf("click[2] = %v, want buttons=-1", click[2])
	}
}

func TestParseIntFloatDistinction(t *testing.T) {
	// A plain integer is a keycode; fractional or exponent syntax is a
	// delay, even when the value is whole.
	p, err := Parse([]byte(`{"name": "t", "macros": [[0, "k", [5, 5.0, 5e0]]]}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	seq := p.Bindings[0].Sequence
	if _, ok := seq[0].(KeyCode); !ok {
		t.Errorf("seq[0] = %T, want KeyCode", seq[0])
	}
	for i, inst := range seq[1:] {
		if _, ok := inst.(Delay); !ok {
			t.Errorf("seq[%d] = %T, want Delay", i+1, inst)
		}
	}
}

func TestParseRejections(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"invalid JSON", `{`},
		{"non-object", `[1, 2]`},
		{"missing name", `{"macros": []}`},
		{"missing macros", `{"name": "x"}`},
		{"too many bindings", `{"name": "x", "macros": [` +
			strings.Repeat(`[0, "k", []],`, 12) + `[0, "k", []]]}`},
		{"binding not array", `{"name": "x", "macros": [{"color": 0}]}`},
		{"binding arity", `{"name": "x", "macros": [[0, "k"]]}`},
		{"color out of range", `{"name": "x", "macros": [[16777216, "k", []]]}`},
		{"color bad hex", `{"name": "x", "macros": [["0xZZ", "k", []]]}`},
		{"negative delay", `{"name": "x", "macros": [[0, "k", [-0.5]]]}`},
		{"keycode zero", `{"name": "x", "macros": [[0, "k", [0]]]}`},
		{"keycode out of range", `{"name": "x", "macros": [[0, "k", [500]]]}`},
		{"untypeable text", `{"name": "x", "macros": [[0, "k", ["é"]]]}`},
		{"media non-number", `{"name": "x", "macros": [[0, "k", [["a"]]]]}`},
		{"media code range", `{"name": "x", "macros": [[0, "k", [[700]]]]}`},
		{"media negative pause", `{"name": "x", "macros": [[0, "k", [[-0.1]]]]}`},
		{"mouse unknown field", `{"name": "x", "macros": [[0, "k", [{"spin": 1}]]]}`},
		{"mouse float field", `{"name": "x", "macros": [[0, "k", [{"x": 1.5}]]]}`},
		{"mouse play non-string", `{"name": "x", "macros": [[0, "k", [{"play": 3}]]]}`},
		{"null item", `{"name": "x", "macros": [[0, "k", [null]]]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.json)); err == nil {
				t.Errorf("Parse(%s) succeeded, want error", tt.json)
			}
		})
	}
}

func TestParseEmptySequenceLegal(t *testing.T) {
	p, err := Parse([]byte(`{"name": "x", "macros": [[0, "noop", []]]}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(p.Bindings[0].Sequence) != 0 {
		t.Errorf("Sequence not empty: %v", p.Bindings[0].Sequence)
	}
}

func TestLoadDirSkipsMalformed(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	write("01-good.json", `{"name": "Good", "macros": [[0, "k", [4]]]}`)
	write("02-broken.json", `{"name": "Broken", "macros": [[0, "k", [0]]]}`)
	write("03-also-good.json", `{"name": "Also Good", "macros": []}`)
	write("._04-hidden.json", `garbage`)
	write("05-not-json.txt", `ignored`)

	loader := NewLoader(nil)
	profiles, err := loader.LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}

	if len(profiles) != 2 {
		t.Fatalf("loaded %d profiles, want 2", len(profiles))
	}
	if profiles[0].Name != "Good" || profiles[1].Name != "Also Good" {
		t.Errorf("loaded %q and %q, want ordered valid profiles",
			profiles[0].Name, profiles[1].Name)
	}
}

func TestLoadDirEmpty(t *testing.T) {
	loader := NewLoader(nil)
	if _, err := loader.LoadDir(t.TempDir()); err == nil {
		t.Fatal("LoadDir() on empty dir succeeded, want ErrNoProfiles")
	}
}
