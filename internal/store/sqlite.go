package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/TheEsotericEel/paytrack-bot/internal/domain"
)

// SQLiteRepo implements Repo using an embedded SQLite database.
type SQLiteRepo struct{ db *sql.DB }

// OpenSQLite opens (or creates) the SQLite database at the given path,
// applies recommended PRAGMAs, runs SQL migrations, and returns a repository.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Reasonable pooling for SQLite; it's a single-writer engine.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLiteRepo{db: db}, nil
}

// applyPragmas configures the SQLite connection for durability and concurrency.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

// --- Users ---

// GetUser returns a user by Telegram id, or domain.ErrNotFound.
func (r *SQLiteRepo) GetUser(ctx context.Context, telegramID int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT telegram_id, username, first_name, subscription_tier,
		       subscription_expires, created_at
		FROM users
		WHERE telegram_id = ?`,
		telegramID,
	)
	return scanUser(row)
}

// CreateUser inserts a new user with the default free tier.
func (r *SQLiteRepo) CreateUser(ctx context.Context, telegramID int64, username, firstName string) (*domain.User, error) {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (telegram_id, username, first_name, subscription_tier, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		telegramID, username, firstName, string(domain.TierFree), now.Unix(),
	)
	if err != nil {
		return nil, err
	}
	return r.GetUser(ctx, telegramID)
}

// GetOrCreateUser is the idempotent first-contact registration.
func (r *SQLiteRepo) GetOrCreateUser(ctx context.Context, telegramID int64, username, firstName string) (*domain.User, error) {
	u, err := r.GetUser(ctx, telegramID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return r.CreateUser(ctx, telegramID, username, firstName)
}

// UpdateUserTier switches a user's subscription tier.
func (r *SQLiteRepo) UpdateUserTier(ctx context.Context, telegramID int64, tier domain.Tier, expires *time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET subscription_tier = ?, subscription_expires = ?
		WHERE telegram_id = ?`,
		string(tier), toNullUnix(expires), telegramID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// --- Invoices ---

// CreateInvoice inserts an unpaid invoice and returns its assigned id.
func (r *SQLiteRepo) CreateInvoice(ctx context.Context, userID int64, clientName string, amount decimal.Decimal, currency string, dueDate time.Time, notes string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO invoices (user_id, client_name, amount, currency, due_date, status, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, clientName, amount.String(), currency,
		dueDate.UTC().Format(dateFmt), string(domain.StatusUnpaid), notes,
		time.Now().UTC().Unix(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const invoiceCols = `id, user_id, client_name, amount, currency, due_date, status, paid_date, notes, created_at`

// GetInvoice returns an invoice by id, or domain.ErrNotFound.
func (r *SQLiteRepo) GetInvoice(ctx context.Context, id int64) (*domain.Invoice, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+invoiceCols+` FROM invoices WHERE id = ?`, id)
	return scanInvoice(row)
}

// UnpaidInvoices returns a user's unpaid invoices ordered by due date ascending.
func (r *SQLiteRepo) UnpaidInvoices(ctx context.Context, userID int64) ([]domain.Invoice, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+invoiceCols+`
		FROM invoices
		WHERE user_id = ? AND status = 'unpaid'
		ORDER BY due_date ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	return collectInvoices(rows)
}

// AllInvoices returns up to limit invoices for a user, newest first.
func (r *SQLiteRepo) AllInvoices(ctx context.Context, userID int64, limit int) ([]domain.Invoice, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+invoiceCols+`
		FROM invoices
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	return collectInvoices(rows)
}

// InvoicesForUser returns every invoice a user owns, for stats reduction.
func (r *SQLiteRepo) InvoicesForUser(ctx context.Context, userID int64) ([]domain.Invoice, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+invoiceCols+`
		FROM invoices
		WHERE user_id = ?
		ORDER BY id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	return collectInvoices(rows)
}

// CountUnpaid returns the number of unpaid invoices a user owns.
func (r *SQLiteRepo) CountUnpaid(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM invoices
		WHERE user_id = ? AND status = 'unpaid'`,
		userID,
	).Scan(&n)
	return n, err
}

// MarkPaid transitions an unpaid invoice to paid, setting paid_date exactly
// once. Returns domain.ErrAlreadyPaid if the invoice is paid already and
// domain.ErrNotFound if it does not exist.
func (r *SQLiteRepo) MarkPaid(ctx context.Context, invoiceID int64, paidDate time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE invoices
		SET status = 'paid', paid_date = ?
		WHERE id = ? AND status = 'unpaid'`,
		paidDate.UTC().Format(dateFmt), invoiceID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	// No row transitioned: distinguish absent from already paid.
	if _, err := r.GetInvoice(ctx, invoiceID); err != nil {
		return err
	}
	return domain.ErrAlreadyPaid
}

// DeleteInvoice removes an invoice only when ownerID matches. Returns false
// when the invoice is absent or owned by someone else.
func (r *SQLiteRepo) DeleteInvoice(ctx context.Context, invoiceID, ownerID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM invoices
		WHERE id = ? AND user_id = ?`,
		invoiceID, ownerID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// --- Reminders ---

// LogReminder appends a write-only audit row for a sent reminder.
func (r *SQLiteRepo) LogReminder(ctx context.Context, invoiceID int64, kind domain.ReminderKind) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reminders (invoice_id, reminder_type, sent_at)
		VALUES (?, ?, ?)`,
		invoiceID, string(kind), time.Now().UTC().Unix(),
	)
	return err
}

// ListUnpaidOwners returns the distinct user ids owning at least one unpaid
// invoice.
func (r *SQLiteRepo) ListUnpaidOwners(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT user_id FROM invoices
		WHERE status = 'unpaid'
		ORDER BY user_id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// RemindersFor returns the reminder kinds logged for an invoice, oldest
// first. The audit trail never gates sending; this is for inspection only.
func (r *SQLiteRepo) RemindersFor(ctx context.Context, invoiceID int64) ([]domain.ReminderKind, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT reminder_type FROM reminders
		WHERE invoice_id = ?
		ORDER BY id ASC`,
		invoiceID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var kinds []domain.ReminderKind
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		kinds = append(kinds, domain.ReminderKind(k))
	}
	return kinds, rows.Err()
}

// --- Row scanning ---

type rowScanner interface{ Scan(dest ...any) error }

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		telegramID int64
		username   string
		firstName  string
		tier       string
		expiresNS  sql.NullInt64
		createdAt  int64
	)
	if err := row.Scan(&telegramID, &username, &firstName, &tier, &expiresNS, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &domain.User{
		TelegramID:          telegramID,
		Username:            username,
		FirstName:           firstName,
		Tier:                domain.Tier(tier),
		SubscriptionExpires: fromNullUnix(expiresNS),
		CreatedAt:           time.Unix(createdAt, 0).UTC(),
	}, nil
}

func scanInvoice(row rowScanner) (*domain.Invoice, error) {
	var (
		id         int64
		userID     int64
		clientName string
		amountStr  string
		currency   string
		dueStr     string
		status     string
		paidNS     sql.NullString
		notes      string
		createdAt  int64
	)
	if err := row.Scan(&id, &userID, &clientName, &amountStr, &currency,
		&dueStr, &status, &paidNS, &notes, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("invoice %d: bad amount %q: %w", id, amountStr, err)
	}
	due, err := time.ParseInLocation(dateFmt, dueStr, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invoice %d: bad due date %q: %w", id, dueStr, err)
	}
	paid, err := fromNullDate(paidNS)
	if err != nil {
		return nil, fmt.Errorf("invoice %d: bad paid date: %w", id, err)
	}

	return &domain.Invoice{
		ID:         id,
		UserID:     userID,
		ClientName: clientName,
		Amount:     amount,
		Currency:   currency,
		DueDate:    due,
		Status:     domain.InvoiceStatus(status),
		PaidDate:   paid,
		Notes:      notes,
		CreatedAt:  time.Unix(createdAt, 0).UTC(),
	}, nil
}

func collectInvoices(rows *sql.Rows) ([]domain.Invoice, error) {
	defer rows.Close()
	var res []domain.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *inv)
	}
	return res, rows.Err()
}
