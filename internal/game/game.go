// Package game hosts the secondary game mode. The controller starts a
// game, blocks for its duration, and reacts only to its outcome; the
// game's internal logic is scripted in Lua and otherwise opaque.
package game

// Outcome reports how a game run finished.
type Outcome int

const (
	// OutcomeEnded means the game ran to its normal end.
	OutcomeEnded Outcome = iota

	// OutcomeAborted means the game stopped without reaching its end,
	// including script errors.
	OutcomeAborted
)

// String returns a string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeEnded:
		return "ended"
	case OutcomeAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Game is the collaborator contract the controller consumes. Run blocks
// until the game finishes and returns its outcome. Errors are internal to
// the collaborator; the controller only distinguishes ended from not.
type Game interface {
	Run() (Outcome, error)
}
