package browser

import (
	"math/rand/v2"
	"time"
)

// RandomDelay picks a duration in [min, max]. Settle delays are jittered so
// consecutive clicks do not land on a fixed cadence.
func RandomDelay(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + rand.N(max-min+1)
}
