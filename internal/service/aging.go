package service

import "time"

// AgingPolicy is the shared day-range arithmetic used by the reminder and
// compliance sweeps. It never reads the clock itself; "now" is always an
// argument so tests and the sweep loop agree on the instant.
type AgingPolicy struct {
	// ReminderWindow is the minimum age before a reminder is due.
	ReminderWindow time.Duration
	// ComplianceWindow is the age after which an uncollected item is overdue.
	ComplianceWindow time.Duration
}

// Elapsed reports whether more than window has passed since the timestamp,
// as of now. Zero timestamps never elapse.
func Elapsed(since, now time.Time, window time.Duration) bool {
	if since.IsZero() {
		return false
	}
	return now.Sub(since) > window
}

// ReminderDue reports whether an item created at the given instant has aged
// past the reminder window.
func (p AgingPolicy) ReminderDue(created, now time.Time) bool {
	return Elapsed(created, now, p.ReminderWindow)
}

// ComplianceDue reports whether an uncollected item created at the given
// instant has aged past the compliance window.
func (p AgingPolicy) ComplianceDue(created, now time.Time) bool {
	return Elapsed(created, now, p.ComplianceWindow)
}

// ComplianceCutoff returns the newest creation instant that is already
// overdue as of now, for building candidate-selection queries.
func (p AgingPolicy) ComplianceCutoff(now time.Time) time.Time {
	return now.Add(-p.ComplianceWindow)
}

// ReminderCutoff returns the newest creation instant already due a reminder
// as of now.
func (p AgingPolicy) ReminderCutoff(now time.Time) time.Time {
	return now.Add(-p.ReminderWindow)
}
