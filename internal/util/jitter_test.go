package util

import (
	"testing"
	"time"
)

func TestJitterBounds(t *testing.T) {
	const d = 10 * time.Second
	const frac = 0.1
	lo, hi := time.Duration(float64(d)*(1-frac)), time.Duration(float64(d)*(1+frac))

	for i := 0; i < 1000; i++ {
		j := Jitter(d, frac)
		if j < lo || j > hi {
			t.Fatalf("jitter out of bounds: %v", j)
		}
	}
}

func TestJitterDisabled(t *testing.T) {
	if got := Jitter(time.Second, 0); got != time.Second {
		t.Fatalf("frac=0 must be identity, got %v", got)
	}
	if got := Jitter(0, 0.5); got != 0 {
		t.Fatalf("d=0 must be identity, got %v", got)
	}
}
