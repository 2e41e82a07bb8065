package services

import "time"

// Clock returns the current time. Its location is the one statistics are
// bucketed in.
type Clock func() time.Time

func orSystemClock(clock Clock) Clock {
	if clock == nil {
		return time.Now
	}
	return clock
}
