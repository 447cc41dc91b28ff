package atlas

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Charset describes which character each slot of a font image depicts.
// Renderers that cannot sample the image (a terminal, for example) use it
// to turn a slot back into a printable rune.
type Charset int

const (
	// CharsetLatin1 fonts draw code point n in slot n. The builtin font
	// uses this layout.
	CharsetLatin1 Charset = iota

	// CharsetCP437 fonts follow IBM code page 437, the layout of most
	// curses/roguelike tilesets. Slots 1-31 and 127 hold the CP437 graphic
	// symbols rather than control characters.
	CharsetCP437
)

// cp437Graphics are the glyphs drawn in CP437 slots 0x01-0x1F.
var cp437Graphics = []rune("☺☻♥♦♣♠•◘○◙♂♀♪♫☼►◄↕‼¶§▬↨↑↓→←∟↔▲▼")

// String returns the charset name used in configuration.
func (c Charset) String() string {
	switch c {
	case CharsetLatin1:
		return "latin1"
	case CharsetCP437:
		return "cp437"
	default:
		return fmt.Sprintf("Charset(%d)", int(c))
	}
}

// ParseCharset parses "latin1" or "cp437" (case-insensitive).
func ParseCharset(s string) (Charset, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "latin1", "iso-8859-1":
		return CharsetLatin1, nil
	case "cp437", "ibm437":
		return CharsetCP437, nil
	default:
		return CharsetLatin1, fmt.Errorf("unknown charset %q (must be latin1 or cp437)", s)
	}
}

// Rune returns the printable character shown by slot. BlankSlot, slots
// outside the charset and slots without a printable character map to ' '.
func (c Charset) Rune(slot int) rune {
	if slot <= BlankSlot || slot > 0xFF {
		return ' '
	}

	if c == CharsetCP437 {
		switch {
		case slot < 0x20:
			return cp437Graphics[slot-1]
		case slot == 0x7F:
			return '⌂'
		case slot > 0x7F:
			return charmap.CodePage437.DecodeByte(byte(slot))
		}
		return rune(slot)
	}

	if slot == FallbackSlot {
		return '?'
	}
	r := rune(slot)
	if r < 0x20 || (r >= 0x7F && r < 0xA0) {
		return ' '
	}
	return r
}
