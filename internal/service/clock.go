package service

import "time"

// Clock supplies the current time.  Analytics day keys and reset-token
// expiry both read it, so tests can move time deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
