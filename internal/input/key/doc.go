// Package key defines the keyboard keys reported by event sources.
//
// A Key names a key, not the character it produces: 'a' and 'A' are both
// KeyA. Keys can be looked up by rune (FromRune) or by name (FromName), so
// configuration files and scripts can refer to "space", "esc", "F5" or "q".
package key
