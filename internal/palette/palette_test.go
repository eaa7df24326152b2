package palette

import (
	"math"
	"testing"
)

func TestTriadic(t *testing.T) {
	tests := []struct {
		value int
		hue   float64
	}{
		{1, 145},
		{2, 265},
		{3, 25},
		{4, 145},
		{0, 25},
		{-1, 265},
	}
	for _, tt := range tests {
		h, s, v := Links.For(tt.value).Hsv()
		if math.Abs(h-tt.hue) > 0.5 {
			t.Errorf("For(%d) hue = %.1f, want %.1f", tt.value, h, tt.hue)
		}
		if math.Abs(s-0.7) > 0.01 || math.Abs(v-0.6) > 0.01 {
			t.Errorf("For(%d) s, v = %.2f, %.2f", tt.value, s, v)
		}
	}
	if Links.Hex(1) != Links.For(4).Hex() {
		t.Error("Hex() does not wrap like For()")
	}
}

func TestGolden(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		c := Nodes.Hex(i)
		if seen[c] {
			t.Errorf("colour %s repeated at %d", c, i)
		}
		seen[c] = true
		if Nodes.Hex(i) != c {
			t.Errorf("At(%d) is not deterministic", i)
		}
		_, s, v := Nodes.At(i).Hsv()
		if math.Abs(s-0.7) > 0.01 || math.Abs(v-0.8) > 0.01 {
			t.Errorf("At(%d) s, v = %.2f, %.2f", i, s, v)
		}
	}

	// Consecutive hues are about 222.5 degrees apart.
	h0, _, _ := Nodes.At(0).Hsv()
	h1, _, _ := Nodes.At(1).Hsv()
	d := math.Mod(h1-h0+360, 360)
	if math.Abs(d-222.49) > 1 {
		t.Errorf("hue step = %.2f", d)
	}
}
