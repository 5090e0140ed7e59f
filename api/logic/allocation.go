/* allocation.go
 * Contains the server allocation logic: the interval overlap predicate, the
 * first-fit scan over the server pool, and the timeslot validation rules.
 * All functions here are pure so the scheduling rules can be tested without
 * a database
 */

package logic

import (
	"time"

	"match-service/api/store"
)

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) share any instant. Intervals that only touch at an endpoint
// do not overlap; an interval fully nested inside another does.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// SlotFree reports whether the window [start, end) conflicts with none of the
// server's locked timeslots
func SlotFree(srv store.Server, start time.Time, end time.Time) bool {
	for _, locked := range srv.LockedTimeslots {
		if Overlaps(start, end, locked.StartTime, locked.EndTime) {
			return false
		}
	}
	return true
}

// FirstFreeServer scans the pool in iteration order and returns the first
// server with no locked timeslot overlapping [start, end). Selection is
// strictly first-fit; there is no load balancing or capacity scoring.
// Returns nil when every server conflicts.
func FirstFreeServer(servers []store.Server, start time.Time, end time.Time) *store.Server {
	for i := range servers {
		if SlotFree(servers[i], start, end) {
			return &servers[i]
		}
	}
	return nil
}

// ValidateSlotDuration checks that a proposed window is well-formed and that
// its duration lies within [min, max] inclusive
// Preconditions: Receives the proposed start and end times and the configured bounds
// Postconditions: Returns false if end is not after start or the duration is out of bounds
func ValidateSlotDuration(start time.Time, end time.Time, min time.Duration, max time.Duration) bool {
	if !end.After(start) {
		return false
	}
	d := end.Sub(start)
	return d >= min && d <= max
}

// CanCancel reports whether a locked timeslot may still be cancelled: now plus
// the safety margin must be strictly before the locked start time
func CanCancel(now time.Time, lockedStart time.Time, margin time.Duration) bool {
	return now.Add(margin).Before(lockedStart)
}
