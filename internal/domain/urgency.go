package domain

import "time"

// ListBucket is the urgency grouping used by the interactive /list command.
type ListBucket int

const (
	ListOverdue ListBucket = iota
	ListDueToday
	ListDueSoon  // 1..3 days out
	ListDueLater // more than 3 days out
)

// DigestBucket is the urgency grouping used by the daily reminder digest.
// Its boundaries intentionally differ from ListBucket: invoices due in
// exactly 2 days or more than 7 days out get no digest bucket at all.
// Do not unify the two sets without a product decision.
type DigestBucket int

const (
	DigestOverdue DigestBucket = iota
	DigestDueToday
	DigestDueTomorrow
	DigestDueSoon // 3..7 days out
)

// DaysUntil returns the whole number of calendar days from today to due.
// Negative for past-due dates. Both arguments are date-truncated first.
func DaysUntil(due, today time.Time) int {
	d := DateOnly(due).Sub(DateOnly(today))
	return int(d / (24 * time.Hour))
}

// ClassifyListing buckets an unpaid invoice's due date for the interactive
// list. overdueDays is meaningful only for ListOverdue.
func ClassifyListing(due, today time.Time) (bucket ListBucket, overdueDays int) {
	days := DaysUntil(due, today)
	switch {
	case days < 0:
		return ListOverdue, -days
	case days == 0:
		return ListDueToday, 0
	case days <= 3:
		return ListDueSoon, 0
	default:
		return ListDueLater, 0
	}
}

// ClassifyDigest buckets an unpaid invoice's due date for the reminder
// digest. ok is false when the invoice falls in no digest section (due in
// exactly 2 days, or more than 7 days out).
func ClassifyDigest(due, today time.Time) (bucket DigestBucket, overdueDays int, ok bool) {
	days := DaysUntil(due, today)
	switch {
	case days < 0:
		return DigestOverdue, -days, true
	case days == 0:
		return DigestDueToday, 0, true
	case days == 1:
		return DigestDueTomorrow, 0, true
	case days >= 3 && days <= 7:
		return DigestDueSoon, 0, true
	default:
		return 0, 0, false
	}
}
