package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParseAmount(t *testing.T) {
	good := map[string]string{
		"500":      "500",
		"1250.50":  "1250.5",
		"1,250.50": "1250.5",
		" 42 ":     "42",
		"0.01":     "0.01",
	}
	for in, want := range good {
		amt, err := ParseAmount(in)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", in, err)
		}
		if amt.String() != want {
			t.Fatalf("%q: want %s, got %s", in, want, amt)
		}
	}

	bad := []struct {
		in   string
		want error
	}{
		{"", ErrEmptyAmount},
		{"abc", ErrInvalidAmount},
		{"12.3.4", ErrInvalidAmount},
		{"0", ErrNonPositive},
		{"-10", ErrNonPositive},
	}
	for _, c := range bad {
		if _, err := ParseAmount(c.in); !errors.Is(err, c.want) {
			t.Fatalf("%q: want %v, got %v", c.in, c.want, err)
		}
	}
}

func TestParseDueDate(t *testing.T) {
	now := time.Date(2026, time.March, 10, 15, 30, 0, 0, time.UTC)

	due, err := ParseDueDate("today", now)
	if err != nil {
		t.Fatal(err)
	}
	if !due.Equal(DateOnly(now)) {
		t.Fatalf("today: got %v", due)
	}

	due, err = ParseDueDate("30d", now)
	if err != nil {
		t.Fatal(err)
	}
	if want := DateOnly(now).AddDate(0, 0, 30); !due.Equal(want) {
		t.Fatalf("30d: want %v, got %v", want, due)
	}

	due, err = ParseDueDate("2026-04-01", now)
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC); !due.Equal(want) {
		t.Fatalf("explicit date: want %v, got %v", want, due)
	}

	// Exactly 365 days back is still accepted; one more is not.
	if _, err := ParseDueDate("2025-03-10", now); err != nil {
		t.Fatalf("365 days back should be accepted: %v", err)
	}
	if _, err := ParseDueDate("2025-03-09", now); !errors.Is(err, ErrDueDateTooOld) {
		t.Fatalf("366 days back: want ErrDueDateTooOld, got %v", err)
	}

	for _, in := range []string{"", "soon", "03/01/2026", "12d ago"} {
		if _, err := ParseDueDate(in, now); !errors.Is(err, ErrInvalidDueDate) {
			t.Fatalf("%q: want ErrInvalidDueDate, got %v", in, err)
		}
	}
}

func TestParseClientName(t *testing.T) {
	if _, err := ParseClientName("   "); !errors.Is(err, ErrEmptyClientName) {
		t.Fatalf("blank name: want ErrEmptyClientName, got %v", err)
	}
	name, err := ParseClientName("  Acme Corp ")
	if err != nil || name != "Acme Corp" {
		t.Fatalf("want Acme Corp, got %q (%v)", name, err)
	}
}
