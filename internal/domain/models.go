package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tier is a user's subscription level.
type Tier string

const (
	TierFree Tier = "free"
	TierPro  Tier = "pro"
)

// InvoiceStatus is the payment state of an invoice. The only allowed
// transition is unpaid -> paid.
type InvoiceStatus string

const (
	StatusUnpaid InvoiceStatus = "unpaid"
	StatusPaid   InvoiceStatus = "paid"
)

// User is a bot account keyed by its Telegram user id.
type User struct {
	TelegramID          int64
	Username            string
	FirstName           string
	Tier                Tier
	SubscriptionExpires *time.Time // informational only; renewal is out of scope
	CreatedAt           time.Time
}

// Invoice is a single tracked receivable owned by one user.
type Invoice struct {
	ID         int64
	UserID     int64
	ClientName string
	Amount     decimal.Decimal
	Currency   string
	DueDate    time.Time // date-only, UTC midnight
	Status     InvoiceStatus
	PaidDate   *time.Time // set exactly once, when status flips to paid
	Notes      string
	CreatedAt  time.Time
}

// ReminderKind identifies the urgency section a reminder log row belongs to.
type ReminderKind string

const (
	ReminderOverdue     ReminderKind = "overdue"
	ReminderDueToday    ReminderKind = "due_today"
	ReminderDueTomorrow ReminderKind = "due_tomorrow"
)

// RevenueStats summarizes a user's paid and outstanding invoice amounts.
// Totals are decimal.Zero and counts are 0 when nothing matches.
type RevenueStats struct {
	MonthTotal   decimal.Decimal
	MonthCount   int
	AllTimeTotal decimal.Decimal
	AllTimeCount int
	Outstanding  decimal.Decimal
}

// DateOnly truncates t to midnight UTC, the canonical form for due dates.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
