// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package clock

import "time"

// Clock reports milliseconds since boot as a wrapping 32-bit counter.
type Clock interface {
	Millis() uint32
}

type systemClock struct {
	start time.Time
}

// NewSystem returns a Clock backed by the runtime's monotonic clock. It
// wraps after about 49.7 days, like a microcontroller millis counter.
func NewSystem() Clock {
	return &systemClock{start: time.Now()}
}

func (c *systemClock) Millis() uint32 {
	return uint32(time.Since(c.start).Milliseconds())
}

// Interval fires once per period of the Clock it is polled with.
type Interval struct {
	period uint32
	last   uint32
}

// NewInterval starts an interval whose first firing is one period after now.
func NewInterval(period time.Duration, now uint32) *Interval {
	return &Interval{period: uint32(period.Milliseconds()), last: now}
}

// Due reports whether a period has elapsed since the last firing and, if so,
// restarts the interval at now. The subtraction is modular, so a counter
// wrap between two polls is handled.
func (i *Interval) Due(now uint32) bool {
	if now-i.last >= i.period {
		i.last = now
		return true
	}
	return false
}
