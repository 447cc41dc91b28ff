package core

import (
	"testing"
)

func TestRGBDefaultsToOpaque(t *testing.T) {
	c := RGB(255, 128, 64)
	if c.R != 255 || c.G != 128 || c.B != 64 || c.A != 255 {
		t.Errorf("expected RGBA(255,128,64,255), got %v", c)
	}
	if White != (Color{255, 255, 255, 255}) {
		t.Errorf("unexpected White: %v", White)
	}
	if Black != (Color{0, 0, 0, 255}) {
		t.Errorf("unexpected Black: %v", Black)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#FF0000", RGB(255, 0, 0), false},
		{"FF0000", RGB(255, 0, 0), false},
		{"#00ff00", RGB(0, 255, 0), false},
		{"#ABC", RGB(170, 187, 204), false},
		{"#FFFFFF80", RGBA(255, 255, 255, 128), false},
		{"invalid", Color{}, true},
		{"#GG0000", Color{}, true},
		{"#12345", Color{}, true},
	}

	for _, tt := range tests {
		c, err := ParseColor(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseColor(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseColor(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if c != tt.want {
			t.Errorf("ParseColor(%q): expected %v, got %v", tt.in, tt.want, c)
		}
	}
}

func TestNormalized(t *testing.T) {
	got := RGBA(255, 0, 51, 102).Normalized()
	want := [4]float32{1, 0, 0.2, 0.4}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("channel %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestFromNormalizedRoundTrip(t *testing.T) {
	for _, c := range []Color{White, Black, RGBA(12, 34, 56, 78), RGB(200, 100, 0)} {
		if got := FromNormalized(c.Normalized()); got != c {
			t.Errorf("round trip of %v gave %v", c, got)
		}
	}
}

func TestBlendEndpoints(t *testing.T) {
	a := RGB(255, 0, 0)
	b := RGBA(0, 0, 255, 0)

	if got := a.Blend(b, 0); got != a {
		t.Errorf("Blend(0): expected %v, got %v", a, got)
	}
	if got := a.Blend(b, 1); got != b {
		t.Errorf("Blend(1): expected %v, got %v", b, got)
	}
	mid := a.Blend(b, 0.5)
	if mid.A < 127 || mid.A > 128 {
		t.Errorf("Blend(0.5): expected alpha near 128, got %d", mid.A)
	}
}

func TestCellIndexIsColumnMajor(t *testing.T) {
	if got := CellIndex(0, 0, 50); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
	if got := CellIndex(0, 1, 50); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
	if got := CellIndex(1, 0, 50); got != 50 {
		t.Errorf("expected 50, got %d", got)
	}
}
