package key

import (
	"fmt"
	"strings"
	"unicode"
)

// Key identifies a physical or virtual keyboard key. Letter keys do not
// distinguish case: 'a' and 'A' are both KeyA.
type Key uint16

const (
	// KeyNone represents no key.
	KeyNone Key = iota

	// Special keys
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeySpace

	// Arrow keys
	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	// Function keys
	KeyF1
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

	// Digit keys
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9

	// Letter keys
	KeyA
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

	// Punctuation keys
	KeyMinus
	KeyEquals
	KeyComma
	KeyPeriod
	KeySlash
	KeySemicolon
	KeyApostrophe
	KeyBackslash
	KeyLeftBracket
	KeyRightBracket
	KeyGrave

	keyCount
)

var specialNames = [...]string{
	KeyNone:      "None",
	KeyEscape:    "Escape",
	KeyEnter:     "Enter",
	KeyTab:       "Tab",
	KeyBackspace: "Backspace",
	KeyDelete:    "Delete",
	KeyInsert:    "Insert",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyPageUp:    "PageUp",
	KeyPageDown:  "PageDown",
	KeySpace:     "Space",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
}

var punctRunes = map[Key]rune{
	KeyMinus:        '-',
	KeyEquals:       '=',
	KeyComma:        ',',
	KeyPeriod:       '.',
	KeySlash:        '/',
	KeySemicolon:    ';',
	KeyApostrophe:   '\'',
	KeyBackslash:    '\\',
	KeyLeftBracket:  '[',
	KeyRightBracket: ']',
	KeyGrave:        '`',
}

// String returns a human-readable name for the key.
func (k Key) String() string {
	switch {
	case int(k) < len(specialNames) && specialNames[k] != "":
		return specialNames[k]
	case k.IsFunctionKey():
		return fmt.Sprintf("F%d", k-KeyF1+1)
	case k >= Key0 && k <= Key9:
		return string(rune('0' + k - Key0))
	case k >= KeyA && k <= KeyZ:
		return string(rune('A' + k - KeyA))
	}
	if r, ok := punctRunes[k]; ok {
		return string(r)
	}
	return fmt.Sprintf("Key(%d)", k)
}

// IsValid reports whether k is a defined key other than KeyNone.
func (k Key) IsValid() bool {
	return k > KeyNone && k < keyCount
}

// IsFunctionKey returns true if this is a function key (F1-F12).
func (k Key) IsFunctionKey() bool {
	return k >= KeyF1 && k <= KeyF12
}

// IsArrowKey returns true if this is an arrow key.
func (k Key) IsArrowKey() bool {
	return k >= KeyUp && k <= KeyRight
}

// IsLetter returns true if this is a letter key.
func (k Key) IsLetter() bool {
	return k >= KeyA && k <= KeyZ
}

// Rune returns the unshifted character the key types, or 0 for keys that
// do not type one. Letters are lowercase.
func (k Key) Rune() rune {
	switch {
	case k == KeySpace:
		return ' '
	case k >= Key0 && k <= Key9:
		return rune('0' + k - Key0)
	case k.IsLetter():
		return rune('a' + k - KeyA)
	}
	return punctRunes[k]
}

// FromRune returns the key that produces r, ignoring case and shift.
// Returns KeyNone for runes with no dedicated key.
func FromRune(r rune) Key {
	switch {
	case r == ' ':
		return KeySpace
	case r >= '0' && r <= '9':
		return Key0 + Key(r-'0')
	case r < unicode.MaxASCII && unicode.IsLetter(r):
		return KeyA + Key(unicode.ToLower(r)-'a')
	}
	for k, pr := range punctRunes {
		if pr == r {
			return k
		}
	}
	return KeyNone
}

// keyNameMap maps key names (lowercase) to Key values.
var keyNameMap = map[string]Key{
	"none":      KeyNone,
	"escape":    KeyEscape,
	"esc":       KeyEscape,
	"enter":     KeyEnter,
	"return":    KeyEnter,
	"cr":        KeyEnter,
	"tab":       KeyTab,
	"backspace": KeyBackspace,
	"bs":        KeyBackspace,
	"delete":    KeyDelete,
	"del":       KeyDelete,
	"insert":    KeyInsert,
	"ins":       KeyInsert,
	"home":      KeyHome,
	"end":       KeyEnd,
	"pageup":    KeyPageUp,
	"pgup":      KeyPageUp,
	"pagedown":  KeyPageDown,
	"pgdn":      KeyPageDown,
	"space":     KeySpace,
	"up":        KeyUp,
	"down":      KeyDown,
	"left":      KeyLeft,
	"right":     KeyRight,
}

// FromName returns the Key for a given name (case-insensitive). Single
// characters resolve through FromRune and "F1".."F12" name function keys.
// Returns KeyNone if the name is not recognized.
func FromName(name string) Key {
	name = strings.ToLower(strings.TrimSpace(name))
	if k, ok := keyNameMap[name]; ok {
		return k
	}
	if rs := []rune(name); len(rs) == 1 {
		return FromRune(rs[0])
	}
	if strings.HasPrefix(name, "f") {
		var n int
		if _, err := fmt.Sscanf(name, "f%d", &n); err == nil && n >= 1 && n <= 12 && name == fmt.Sprintf("f%d", n) {
			return KeyF1 + Key(n-1)
		}
	}
	return KeyNone
}
