package util

import (
	"math/rand"
	"time"
)

// Jitter spreads d by ±d*frac so entries written together do not expire
// together. A non-positive d or frac returns d unchanged.
func Jitter(d time.Duration, frac float64) time.Duration {
	if d <= 0 || frac <= 0 {
		return d
	}
	span := float64(d) * frac
	j := time.Duration(float64(d) + (rand.Float64()*2-1)*span)
	if j <= 0 {
		return d
	}
	return j
}
