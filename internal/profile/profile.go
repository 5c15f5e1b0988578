// Package profile defines application profiles, their key bindings and
// macro instruction sequences, and the registry and loader that manage
// them. Profiles load once at startup and are immutable afterwards.
package profile

// MaxBindings is the number of physical keys, and so the maximum number of
// bindings a profile may carry.
const MaxBindings = 12

// Kind discriminates what selecting a profile means.
type Kind int

const (
	// KindUserMacro is a normal profile whose bindings dispatch macros.
	KindUserMacro Kind = iota

	// KindGameLauncher is the synthetic profile that launches the game
	// instead of dispatching macros.
	KindGameLauncher
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindUserMacro:
		return "macro"
	case KindGameLauncher:
		return "game"
	default:
		return "unknown"
	}
}

// Binding maps one physical key to an LED color, a display label and a
// macro sequence. An empty sequence is legal and dispatches nothing.
type Binding struct {
	// Color is the key's LED color as 24-bit RGB.
	Color uint32

	// Label is the text shown for the key on the display.
	Label string

	// Sequence is the ordered instruction list run on press and release.
	Sequence []Instruction
}

// Profile is a named binding set for one host-side application.
type Profile struct {
	// Name is shown on the display's title banner. An empty name blanks
	// the banner.
	Name string

	// Kind discriminates macro profiles from the game launcher.
	Kind Kind

	// Bindings holds up to MaxBindings entries; position is the physical
	// key index. The game launcher profile has none.
	Bindings []Binding
}

// Binding returns the binding for a key index and whether one exists.
// Indexes at or beyond the binding count have no binding; events for them
// are expected for short profiles and are simply dropped by the caller.
func (p *Profile) Binding(index int) (Binding, bool) {
	if index < 0 || index >= len(p.Bindings) {
		return Binding{}, false
	}
	return p.Bindings[index], true
}

// GameProfile returns the synthetic profile appended after all file-backed
// profiles. It carries no bindings; its name titles the menu entry.
func GameProfile(name string) Profile {
	return Profile{Name: name, Kind: KindGameLauncher}
}
