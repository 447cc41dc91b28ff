package key

import "testing"

func TestKeyString(t *testing.T) {
	tests := []struct {
		key  Key
		want string
	}{
		{KeyNone, "None"},
		{KeyEscape, "Escape"},
		{KeySpace, "Space"},
		{KeyLeft, "Left"},
		{KeyF1, "F1"},
		{KeyF12, "F12"},
		{Key0, "0"},
		{Key9, "9"},
		{KeyA, "A"},
		{KeyZ, "Z"},
		{KeySlash, "/"},
		{Key(9999), "Key(9999)"},
	}

	for _, tt := range tests {
		if got := tt.key.String(); got != tt.want {
			t.Errorf("Key(%d).String() = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestFromRune(t *testing.T) {
	tests := []struct {
		r    rune
		want Key
	}{
		{'a', KeyA},
		{'A', KeyA},
		{'z', KeyZ},
		{'5', Key5},
		{' ', KeySpace},
		{'-', KeyMinus},
		{'`', KeyGrave},
		{'é', KeyNone},
		{'@', KeyNone},
	}

	for _, tt := range tests {
		if got := FromRune(tt.r); got != tt.want {
			t.Errorf("FromRune(%q) = %v, want %v", tt.r, got, tt.want)
		}
	}
}

func TestFromName(t *testing.T) {
	tests := []struct {
		name string
		want Key
	}{
		{"space", KeySpace},
		{"Space", KeySpace},
		{" ESC ", KeyEscape},
		{"enter", KeyEnter},
		{"q", KeyQ},
		{"Q", KeyQ},
		{"f5", KeyF5},
		{"F12", KeyF12},
		{"f13", KeyNone},
		{"f05", KeyNone},
		{"bogus", KeyNone},
		{"", KeyNone},
	}

	for _, tt := range tests {
		if got := FromName(tt.name); got != tt.want {
			t.Errorf("FromName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestStringRoundTripsThroughFromName(t *testing.T) {
	for k := KeyNone + 1; k < keyCount; k++ {
		if got := FromName(k.String()); got != k {
			t.Errorf("FromName(%q) = %v, want %v", k.String(), got, k)
		}
	}
}

func TestPredicates(t *testing.T) {
	if !KeyF3.IsFunctionKey() || KeyA.IsFunctionKey() {
		t.Error("IsFunctionKey mismatch")
	}
	if !KeyUp.IsArrowKey() || KeySpace.IsArrowKey() {
		t.Error("IsArrowKey mismatch")
	}
	if !KeyM.IsLetter() || Key1.IsLetter() {
		t.Error("IsLetter mismatch")
	}
	if KeyNone.IsValid() || keyCount.IsValid() || !KeyGrave.IsValid() {
		t.Error("IsValid mismatch")
	}
}

func TestRuneInvertsFromRune(t *testing.T) {
	for k := KeyNone + 1; k < keyCount; k++ {
		r := k.Rune()
		if r == 0 {
			continue
		}
		if got := FromRune(r); got != k {
			t.Errorf("FromRune(%q) = %v, expected %v", r, got, k)
		}
	}
	if KeyEscape.Rune() != 0 {
		t.Errorf("expected Escape to type no rune, got %q", KeyEscape.Rune())
	}
}
