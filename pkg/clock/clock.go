package clock

import "time"

type Clock interface {
	Now() time.Time
	UTCDiff() time.Duration
}

// New returns a clock reporting UTC shifted by utcDiff.
func New(utcDiff time.Duration) Clock {
	return stdTime{utcDiff: utcDiff}
}

// Fixed always reports at. Used by tests and deterministic seeding.
func Fixed(at time.Time) Clock {
	return fixed{at: at}
}

type stdTime struct {
	utcDiff time.Duration
}

func (s stdTime) UTCDiff() time.Duration {
	return s.utcDiff
}

func (s stdTime) Now() time.Time {
	return time.Now().UTC().Add(s.utcDiff)
}

type fixed struct {
	at time.Time
}

func (f fixed) Now() time.Time        { return f.at }
func (f fixed) UTCDiff() time.Duration { return 0 }
