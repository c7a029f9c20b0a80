package util

import "testing"

func TestSnapRightAngle(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{44, 0},
		{46, 90},
		{90, 90},
		{-90, 270},
		{270, 270},
		{360, 0},
		{-180, 180},
		{450, 90},
	}
	for _, tt := range tests {
		if got := SnapRightAngle(tt.in); got != tt.want {
			t.Errorf("SnapRightAngle(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in   string
		want Direction
		ok   bool
	}{
		{"up", DirUp, true},
		{"DOWN", DirDown, true},
		{"bottom", DirDown, true},
		{"north", DirNorth, true},
		{"diagonal", DirNone, false},
	}
	for _, tt := range tests {
		got, ok := ParseDirection(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseDirection(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
	for _, d := range AllDirections {
		if d.Opposite().Opposite() != d {
			t.Errorf("Opposite não é involução para %v", d)
		}
		if d.Normal().Add(d.Opposite().Normal()).Len() != 0 {
			t.Errorf("normais opostas não se anulam para %v", d)
		}
	}
}

func TestStripNamespace(t *testing.T) {
	if got := StripNamespace("minecraft:block/stone"); got != "block/stone" {
		t.Errorf("got %q", got)
	}
	if got := StripNamespace("block/stone"); got != "block/stone" {
		t.Errorf("got %q", got)
	}
}
