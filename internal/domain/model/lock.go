package model

import "time"

// LockRecord is the advisory lock object stored at <ArtifactKey>.lock.
// It is not a lease: staleness is computed by readers from AcquiredAtMillis,
// and release overwrites the record with the zero sentinel instead of
// deleting the object.
type LockRecord struct {
	Owner            string `json:"owner"`
	AcquiredAtMillis int64  `json:"acquired_at_ms"`
}

// Sentinel is the record written on release. The lock object persists with
// this content so the key doubles as a cheap audit trail.
func Sentinel() LockRecord { return LockRecord{} }

// Held reports whether the record represents an actual holder.
func (r LockRecord) Held() bool { return r.Owner != "" && r.AcquiredAtMillis > 0 }

// Age returns how long ago the lock was acquired.
func (r LockRecord) Age(now time.Time) time.Duration {
	return now.Sub(time.UnixMilli(r.AcquiredAtMillis))
}

// Expired reports whether a reader at time now should treat the lock as
// stale and free to take over.
func (r LockRecord) Expired(now time.Time, timeout time.Duration) bool {
	return r.Age(now) >= timeout
}

// Remaining returns how long the lock stays valid from the reader's view.
func (r LockRecord) Remaining(now time.Time, timeout time.Duration) time.Duration {
	return timeout - r.Age(now)
}
