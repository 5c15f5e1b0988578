package profile

import (
	"reflect"
	"testing"
	"time"
)

func TestMarshalRoundTrip(t *testing.T) {
	buttons := 1
	tone := 440

	original := Profile{
		Name: "Round Trip",
		Bindings: []Binding{
			{
				Color: 0x004000,
				Label: "Mix",
				Sequence: []Instruction{
					KeyCode(224),
					KeyCode(-224),
					Delay(250 * time.Millisecond),
					Delay(2 * time.Second),
					TypeText("hello\n"),
					MediaCodes{
						{Code: 233},
						{Pause: 100 * time.Millisecond},
						{Code: 234},
					},
					MouseAction{Buttons: &buttons, DX: 5, DY: -3, Wheel: 1, Tone: &tone},
					MouseAction{Play: "pop.wav"},
				},
			},
			{Color: 0xFFFFFF, Label: "Empty", Sequence: nil},
		},
	}

	data, err := Marshal(&original)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	parsed, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(marshaled) error = %v\njson: %s", err, data)
	}

	if parsed.Name != original.Name {
		t.Errorf("Name = %q, want %q", parsed.Name, original.Name)
	}
	if len(parsed.Bindings) != len(original.Bindings) {
		t.Fatalf("len(Bindings) = %d, want %d", len(parsed.Bindings), len(original.Bindings))
	}
	for i := range original.Bindings {
		got, want := parsed.Bindings[i], original.Bindings[i]
		if got.Color != want.Color || got.Label != want.Label {
			t.Errorf("binding %d = %q/%#x, want %q/%#x", i, got.Label, got.Color, want.Label, want.Color)
		}
		if len(got.Sequence) != len(want.Sequence) {
			t.Fatalf("binding %d sequence length %d, want %d", i, len(got.Sequence), len(want.Sequence))
		}
		for j := range want.Sequence {
			if !reflect.DeepEqual(got.Sequence[j], want.Sequence[j]) {
				t.Errorf("binding %d item %d = %#v, want %#v", i, j, got.Sequence[j], want.Sequence[j])
			}
		}
	}
}

func TestFloatTokenKeepsFractionalSyntax(t *testing.T) {
	// Whole-second delays must not serialize as bare integers, or they
	// would read back as keycodes.
	tests := []struct {
		seconds float64
		want    string
	}{
		{2, "2.0"},
		{0.5, "0.5"},
		{0.05, "0.05"},
	}

	for _, tt := range tests {
		if got := floatToken(tt.seconds); got != tt.want {
			t.Errorf("floatToken(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
