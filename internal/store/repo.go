package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/TheEsotericEel/paytrack-bot/internal/domain"
)

// Repo defines storage operations for users, invoices and reminder logs.
// Every call is atomic on its own; no cross-call transactions are assumed.
type Repo interface {
	GetUser(ctx context.Context, telegramID int64) (*domain.User, error)
	CreateUser(ctx context.Context, telegramID int64, username, firstName string) (*domain.User, error)
	GetOrCreateUser(ctx context.Context, telegramID int64, username, firstName string) (*domain.User, error)
	UpdateUserTier(ctx context.Context, telegramID int64, tier domain.Tier, expires *time.Time) error

	CreateInvoice(ctx context.Context, userID int64, clientName string, amount decimal.Decimal, currency string, dueDate time.Time, notes string) (int64, error)
	GetInvoice(ctx context.Context, id int64) (*domain.Invoice, error)
	UnpaidInvoices(ctx context.Context, userID int64) ([]domain.Invoice, error)
	AllInvoices(ctx context.Context, userID int64, limit int) ([]domain.Invoice, error)
	InvoicesForUser(ctx context.Context, userID int64) ([]domain.Invoice, error)
	CountUnpaid(ctx context.Context, userID int64) (int, error)
	MarkPaid(ctx context.Context, invoiceID int64, paidDate time.Time) error
	DeleteInvoice(ctx context.Context, invoiceID, ownerID int64) (bool, error)

	LogReminder(ctx context.Context, invoiceID int64, kind domain.ReminderKind) error
	ListUnpaidOwners(ctx context.Context) ([]int64, error)

	Close() error
}
