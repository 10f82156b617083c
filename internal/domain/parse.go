package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyAmount     = errors.New("empty amount")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrNonPositive     = errors.New("amount must be positive")
	ErrInvalidDueDate  = errors.New("invalid due date")
	ErrDueDateTooOld   = errors.New("due date too far in the past")
	ErrEmptyClientName = errors.New("empty client name")
)

// maxPastDays bounds how far in the past a due date may be entered.
const maxPastDays = 365

// ParseAmount parses a user-entered invoice amount. Thousands separators
// ("1,250.50") are stripped before parsing; the result must be strictly
// positive.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero, ErrEmptyAmount
	}
	amt, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrInvalidAmount, s)
	}
	if !amt.IsPositive() {
		return decimal.Zero, ErrNonPositive
	}
	return amt, nil
}

// ParseClientName validates a client name entry. Any non-empty text is
// accepted verbatim.
func ParseClientName(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyClientName
	}
	return s, nil
}

// ParseDueDate parses a due-date entry relative to today. Accepted forms:
// the literal "today", a relative "<N>d" (N days from today), or an
// explicit YYYY-MM-DD date. Dates more than a year before today are
// rejected.
func ParseDueDate(s string, today time.Time) (time.Time, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	today = DateOnly(today)

	var due time.Time
	switch {
	case s == "today":
		due = today
	case strings.HasSuffix(s, "d") && isAllDigits(strings.TrimSuffix(s, "d")):
		days, _ := strconv.Atoi(strings.TrimSuffix(s, "d"))
		due = today.AddDate(0, 0, days)
	default:
		t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidDueDate, s)
		}
		due = t
	}

	if due.Before(today.AddDate(0, 0, -maxPastDays)) {
		return time.Time{}, ErrDueDateTooOld
	}
	return due, nil
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
