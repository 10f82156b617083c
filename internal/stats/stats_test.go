package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheEsotericEel/paytrack-bot/internal/store"
)

func TestRevenue(t *testing.T) {
	ctx := context.Background()
	repo, err := store.OpenSQLite(ctx, filepath.Join(t.TempDir(), "stats.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	_, err = repo.GetOrCreateUser(ctx, 1, "u", "U")
	require.NoError(t, err)

	now := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, 7)

	newInvoice := func(amount string) int64 {
		id, err := repo.CreateInvoice(ctx, 1, "Client",
			decimal.RequireFromString(amount), "USD", due, "")
		require.NoError(t, err)
		return id
	}

	// One paid this month, one paid last month, one unpaid.
	thisMonth := newInvoice("250.00")
	require.NoError(t, repo.MarkPaid(ctx, thisMonth, now))

	lastMonth := newInvoice("400.00")
	require.NoError(t, repo.MarkPaid(ctx, lastMonth, now.AddDate(0, -1, 0)))

	newInvoice("100.00")

	agg := New(repo)
	got, err := agg.Revenue(ctx, 1, now)
	require.NoError(t, err)

	assert.True(t, got.MonthTotal.Equal(decimal.RequireFromString("250")), "month total %s", got.MonthTotal)
	assert.Equal(t, 1, got.MonthCount)
	assert.True(t, got.AllTimeTotal.Equal(decimal.RequireFromString("650")), "all-time total %s", got.AllTimeTotal)
	assert.Equal(t, 2, got.AllTimeCount)
	assert.True(t, got.Outstanding.Equal(decimal.RequireFromString("100")), "outstanding %s", got.Outstanding)
}

func TestRevenue_EmptyUserDefaultsToZero(t *testing.T) {
	ctx := context.Background()
	repo, err := store.OpenSQLite(ctx, filepath.Join(t.TempDir(), "stats.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	got, err := New(repo).Revenue(ctx, 42, time.Now())
	require.NoError(t, err)
	assert.True(t, got.MonthTotal.IsZero())
	assert.True(t, got.AllTimeTotal.IsZero())
	assert.True(t, got.Outstanding.IsZero())
	assert.Zero(t, got.MonthCount)
	assert.Zero(t, got.AllTimeCount)
}
