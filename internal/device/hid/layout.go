package hid

import (
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Keystroke is one translated keystroke: a keycode plus whether shift must
// be held while it is pressed.
type Keystroke struct {
	Code  int
	Shift bool
}

// asciiLayout maps runes to US-layout keystrokes.
var asciiLayout = map[rune]Keystroke{
	'a': {KeyA, false}, 'b': {KeyB, false}, 'c': {KeyC, false}, 'd': {KeyD, false},
	'e': {KeyE, false}, 'f': {KeyF, false}, 'g': {KeyG, false}, 'h': {KeyH, false},
	'i': {KeyI, false}, 'j': {KeyJ, false}, 'k': {KeyK, false}, 'l': {KeyL, false},
	'm': {KeyM, false}, 'n': {KeyN, false}, 'o': {KeyO, false}, 'p': {KeyP, false},
	'q': {KeyQ, false}, 'r': {KeyR, false}, 's': {KeyS, false}, 't': {KeyT, false},
	'u': {KeyU, false}, 'v': {KeyV, false}, 'w': {KeyW, false}, 'x': {KeyX, false},
	'y': {KeyY, false}, 'z': {KeyZ, false},

	'A': {KeyA, true}, 'B': {KeyB, true}, 'C': {KeyC, true}, 'D': {KeyD, true},
	'E': {KeyE, true}, 'F': {KeyF, true}, 'G': {KeyG, true}, 'H': {KeyH, true},
	'I': {KeyI, true}, 'J': {KeyJ, true}, 'K': {KeyK, true}, 'L': {KeyL, true},
	'M': {KeyM, true}, 'N': {KeyN, true}, 'O': {KeyO, true}, 'P': {KeyP, true},
	'Q': {KeyQ, true}, 'R': {KeyR, true}, 'S': {KeyS, true}, 'T': {KeyT, true},
	'U': {KeyU, true}, 'V': {KeyV, true}, 'W': {KeyW, true}, 'X': {KeyX, true},
	'Y': {KeyY, true}, 'Z': {KeyZ, true},

	'1': {KeyOne, false}, '2': {KeyTwo, false}, '3': {KeyThree, false},
	'4': {KeyFour, false}, '5': {KeyFive, false}, '6': {KeySix, false},
	'7': {KeySeven, false}, '8': {KeyEight, false}, '9': {KeyNine, false},
	'0': {KeyZero, false},

	'!': {KeyOne, true}, '@': {KeyTwo, true}, '#': {KeyThree, true},
	'$': {KeyFour, true}, '%': {KeyFive, true}, '^': {KeySix, true},
	'&': {KeySeven, true}, '*': {KeyEight, true}, '(': {KeyNine, true},
	')': {KeyZero, true},

	'\n': {KeyEnter, false}, '\t': {KeyTab, false}, '\b': {KeyBackspace, false},
	' ':  {KeySpace, false},
	'-':  {KeyMinus, false}, '_': {KeyMinus, true},
	'=':  {KeyEquals, false}, '+': {KeyEquals, true},
	'[':  {KeyLeftBracket, false}, '{': {KeyLeftBracket, true},
	']':  {KeyRightBracket, false}, '}': {KeyRightBracket, true},
	'\\': {KeyBackslash, false}, '|': {KeyBackslash, true},
	';':  {KeySemicolon, false}, ':': {KeySemicolon, true},
	'\'': {KeyQuote, false}, '"': {KeyQuote, true},
	'`':  {KeyGrave, false}, '~': {KeyGrave, true},
	',':  {KeyComma, false}, '<': {KeyComma, true},
	'.':  {KeyPeriod, false}, '>': {KeyPeriod, true},
	'/':  {KeySlash, false}, '?': {KeySlash, true},
}

// Translate converts text into the ordered keystroke list a US layout would
// use to type it. Input is NFC-normalized first so composed and decomposed
// forms of the same character translate identically. Runes with no layout
// entry yield an error naming the offending rune.
func Translate(text string) ([]Keystroke, error) {
	text = norm.NFC.String(text)

	strokes := make([]Keystroke, 0, len(text))
	for _, r := range text {
		ks, ok := asciiLayout[r]
		if !ok {
			return nil, fmt.Errorf("no layout entry for %q", r)
		}
		strokes = append(strokes, ks)
	}
	return strokes, nil
}

// CanTranslate reports whether every rune in text has a layout entry.
func CanTranslate(text string) bool {
	for _, r := range norm.NFC.String(text) {
		if _, ok := asciiLayout[r]; !ok {
			return false
		}
	}
	return true
}
