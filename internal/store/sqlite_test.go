package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheEsotericEel/paytrack-bot/internal/domain"
)

func openTestRepo(t *testing.T) *SQLiteRepo {
	t.Helper()
	repo, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestGetOrCreateUser(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	_, err := repo.GetUser(ctx, 12345)
	require.ErrorIs(t, err, domain.ErrNotFound)

	u, err := repo.GetOrCreateUser(ctx, 12345, "testuser", "Test")
	require.NoError(t, err)
	assert.Equal(t, int64(12345), u.TelegramID)
	assert.Equal(t, domain.TierFree, u.Tier)
	assert.Equal(t, "testuser", u.Username)

	// Second call is idempotent.
	again, err := repo.GetOrCreateUser(ctx, 12345, "ignored", "ignored")
	require.NoError(t, err)
	assert.Equal(t, u.TelegramID, again.TelegramID)
	assert.Equal(t, "testuser", again.Username)
}

func TestUpdateUserTier(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	_, err := repo.GetOrCreateUser(ctx, 1, "u", "U")
	require.NoError(t, err)

	expires := time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateUserTier(ctx, 1, domain.TierPro, &expires))

	u, err := repo.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.TierPro, u.Tier)
	require.NotNil(t, u.SubscriptionExpires)
	assert.True(t, u.SubscriptionExpires.Equal(expires))

	assert.ErrorIs(t, repo.UpdateUserTier(ctx, 999, domain.TierPro, nil), domain.ErrNotFound)
}

func mustCreateInvoice(t *testing.T, repo *SQLiteRepo, userID int64, client, amount string, due time.Time) int64 {
	t.Helper()
	id, err := repo.CreateInvoice(context.Background(), userID, client,
		decimal.RequireFromString(amount), "USD", due, "")
	require.NoError(t, err)
	return id
}

func TestInvoiceLifecycle(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	_, err := repo.GetOrCreateUser(ctx, 1, "u", "U")
	require.NoError(t, err)

	due := time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC)
	id := mustCreateInvoice(t, repo, 1, "Acme Corp", "1500.00", due)
	require.Positive(t, id)

	inv, err := repo.GetInvoice(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", inv.ClientName)
	assert.True(t, inv.Amount.Equal(decimal.RequireFromString("1500")))
	assert.Equal(t, domain.StatusUnpaid, inv.Status)
	assert.Nil(t, inv.PaidDate)
	assert.True(t, inv.DueDate.Equal(due))

	_, err = repo.GetInvoice(ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMarkPaid_SetsPaidDateOnce(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	_, err := repo.GetOrCreateUser(ctx, 1, "u", "U")
	require.NoError(t, err)

	id := mustCreateInvoice(t, repo, 1, "Acme", "300", time.Now())

	first := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.MarkPaid(ctx, id, first))

	inv, err := repo.GetInvoice(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, inv.Status)
	require.NotNil(t, inv.PaidDate)
	assert.True(t, inv.PaidDate.Equal(first))

	// Second transition is rejected and must not move paid_date.
	second := first.AddDate(0, 0, 5)
	assert.ErrorIs(t, repo.MarkPaid(ctx, id, second), domain.ErrAlreadyPaid)

	inv, err = repo.GetInvoice(ctx, id)
	require.NoError(t, err)
	assert.True(t, inv.PaidDate.Equal(first))

	assert.ErrorIs(t, repo.MarkPaid(ctx, 9999, first), domain.ErrNotFound)
}

func TestDeleteInvoice_OwnershipEnforced(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	_, err := repo.GetOrCreateUser(ctx, 1, "a", "A")
	require.NoError(t, err)
	_, err = repo.GetOrCreateUser(ctx, 2, "b", "B")
	require.NoError(t, err)

	id := mustCreateInvoice(t, repo, 2, "Owned by B", "100", time.Now())

	ok, err := repo.DeleteInvoice(ctx, id, 1)
	require.NoError(t, err)
	assert.False(t, ok, "foreign owner must not delete")

	// Invoice untouched.
	_, err = repo.GetInvoice(ctx, id)
	require.NoError(t, err)

	ok, err = repo.DeleteInvoice(ctx, id, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = repo.GetInvoice(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUnpaidInvoices_OrderedByDueDate(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	_, err := repo.GetOrCreateUser(ctx, 1, "u", "U")
	require.NoError(t, err)

	base := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	late := mustCreateInvoice(t, repo, 1, "Late", "10", base.AddDate(0, 0, 20))
	early := mustCreateInvoice(t, repo, 1, "Early", "10", base)
	mid := mustCreateInvoice(t, repo, 1, "Mid", "10", base.AddDate(0, 0, 10))

	paid := mustCreateInvoice(t, repo, 1, "Paid", "10", base)
	require.NoError(t, repo.MarkPaid(ctx, paid, base))

	unpaid, err := repo.UnpaidInvoices(ctx, 1)
	require.NoError(t, err)
	require.Len(t, unpaid, 3)
	assert.Equal(t, []int64{early, mid, late}, []int64{unpaid[0].ID, unpaid[1].ID, unpaid[2].ID})

	n, err := repo.CountUnpaid(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestListUnpaidOwners(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	for _, id := range []int64{1, 2, 3} {
		_, err := repo.GetOrCreateUser(ctx, id, "", "")
		require.NoError(t, err)
	}

	mustCreateInvoice(t, repo, 1, "A", "10", time.Now())
	mustCreateInvoice(t, repo, 1, "B", "10", time.Now())
	paid := mustCreateInvoice(t, repo, 3, "C", "10", time.Now())
	require.NoError(t, repo.MarkPaid(ctx, paid, time.Now()))

	owners, err := repo.ListUnpaidOwners(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, owners)
}

func TestLogReminder(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	_, err := repo.GetOrCreateUser(ctx, 1, "u", "U")
	require.NoError(t, err)

	id := mustCreateInvoice(t, repo, 1, "Acme", "100", time.Now())
	require.NoError(t, repo.LogReminder(ctx, id, domain.ReminderDueToday))

	var n int
	require.NoError(t, repo.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reminders WHERE invoice_id = ? AND reminder_type = ?`,
		id, string(domain.ReminderDueToday)).Scan(&n))
	assert.Equal(t, 1, n)
}
