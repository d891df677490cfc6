// Package clock provides an injectable time source and the KST zone used
// for every card timestamp.
package clock

import "time"

// kstOffsetSeconds is UTC+9.
const kstOffsetSeconds = 9 * 60 * 60

// KST is Korea Standard Time. It is a fixed zone so results do not depend
// on the host's tzdata.
var KST = time.FixedZone("KST", kstOffsetSeconds)

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// System is the wall clock.
type System struct{}

// Now returns time.Now.
func (System) Now() time.Time { return time.Now() }

// Fixed always returns the same instant.
type Fixed time.Time

// Now returns the fixed instant.
func (f Fixed) Now() time.Time { return time.Time(f) }

// InKST converts t to Korea Standard Time.
func InKST(t time.Time) time.Time {
	return t.In(KST)
}

// FormatKST renders t as an RFC3339 timestamp with a +09:00 offset.
func FormatKST(t time.Time) string {
	return InKST(t).Format(time.RFC3339)
}
