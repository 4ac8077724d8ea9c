package domain

import (
	"math/rand/v2"
	"time"
)

const (
	timerThrowAfter  = 80 * time.Second
	randomThrowUntil = 60 * time.Second
)

// ThrowDelay returns how long to wait before sending the catch command.
// rnd receives the upper bound (exclusive) in nanoseconds; nil uses math/rand.
func ThrowDelay(tool Tool, arrival, now time.Time, rnd func(n int64) int64) time.Duration {
	switch tool {
	case ToolQuick:
		return 0
	case ToolTimer:
		remaining := arrival.Add(timerThrowAfter).Sub(now)
		if remaining <= 0 {
			return 0
		}
		return remaining
	}

	window := arrival.Add(randomThrowUntil).Sub(now)
	if window <= 0 {
		return 0
	}
	if rnd == nil {
		rnd = rand.Int64N
	}
	return time.Duration(rnd(int64(window) + 1))
}
