package stats

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/TheEsotericEel/paytrack-bot/internal/domain"
	"github.com/TheEsotericEel/paytrack-bot/internal/store"
)

// Aggregator reduces a user's invoice rows into revenue figures.
type Aggregator struct {
	repo store.Repo
}

// New creates an Aggregator backed by the given repository.
func New(repo store.Repo) *Aggregator {
	return &Aggregator{repo: repo}
}

// Revenue computes month-to-date and all-time paid totals plus the unpaid
// outstanding balance for a user. "Month-to-date" means paid invoices whose
// paid date falls in the calendar month of now.
func (a *Aggregator) Revenue(ctx context.Context, userID int64, now time.Time) (domain.RevenueStats, error) {
	stats := domain.RevenueStats{
		MonthTotal:   decimal.Zero,
		AllTimeTotal: decimal.Zero,
		Outstanding:  decimal.Zero,
	}

	invoices, err := a.repo.InvoicesForUser(ctx, userID)
	if err != nil {
		return stats, err
	}

	year, month, _ := now.UTC().Date()
	for _, inv := range invoices {
		if inv.Status != domain.StatusPaid {
			stats.Outstanding = stats.Outstanding.Add(inv.Amount)
			continue
		}
		stats.AllTimeTotal = stats.AllTimeTotal.Add(inv.Amount)
		stats.AllTimeCount++
		if inv.PaidDate == nil {
			continue
		}
		py, pm, _ := inv.PaidDate.UTC().Date()
		if py == year && pm == month {
			stats.MonthTotal = stats.MonthTotal.Add(inv.Amount)
			stats.MonthCount++
		}
	}
	return stats, nil
}
