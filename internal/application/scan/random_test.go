package scan

import "testing"

func TestNewRandomSource_SeededIsReproducible(t *testing.T) {
	seed := uint64(42)
	a := NewRandomSource(&seed)
	b := NewRandomSource(&seed)

	for i := 0; i < 16; i++ {
		x, y := a.Float64(), b.Float64()
		if x != y {
			t.Fatalf("draw %d differs: %v vs %v", i, x, y)
		}
		if x < 0 || x >= 1 {
			t.Fatalf("draw %d out of range: %v", i, x)
		}
	}
}

func TestNewRandomSource_Unseeded(t *testing.T) {
	src := NewRandomSource(nil)
	for i := 0; i < 16; i++ {
		if v := src.Float64(); v < 0 || v >= 1 {
			t.Fatalf("draw out of range: %v", v)
		}
	}
}
