package workflow

import "time"

// Clock supplies the waits between status queries.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// RealClock returns the wall clock.
func RealClock() Clock {
	return realClock{}
}
