package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/TheEsotericEel/paytrack-bot/internal/domain"
)

const allInvoicesLimit = 50

func (r *Router) handleStart(ctx context.Context, userID, chatID int64, username, firstName string) {
	user, err := r.repo.GetOrCreateUser(ctx, userID, username, firstName)
	if err != nil {
		r.log.Error("get or create user failed", zap.Int64("user_id", userID), zap.Error(err))
		r.sendText(chatID, "Error initializing user. Please try again.")
		return
	}
	name := user.FirstName
	if name == "" {
		name = "there"
	}
	r.sendMarkdown(chatID, fmt.Sprintf(welcomeFmt, name, r.cfg.FreeTierMaxInvoices))
}

func (r *Router) handleHelp(chatID int64) {
	r.sendMarkdown(chatID, helpText)
}

// handleList shows unpaid invoices with interactive urgency markers.
// Note the bucket boundaries here differ from the reminder digest on
// purpose; see domain.ClassifyListing.
func (r *Router) handleList(ctx context.Context, userID, chatID int64) {
	invoices, err := r.repo.UnpaidInvoices(ctx, userID)
	if err != nil {
		r.log.Error("list unpaid failed", zap.Int64("user_id", userID), zap.Error(err))
		r.sendText(chatID, storeErrText)
		return
	}
	if len(invoices) == 0 {
		r.sendText(chatID, noUnpaidText)
		return
	}

	today := r.now()
	var b strings.Builder
	b.WriteString("*📋 Unpaid Invoices:*\n")
	for _, inv := range invoices {
		var marker string
		bucket, overdueDays := domain.ClassifyListing(inv.DueDate, today)
		switch bucket {
		case domain.ListOverdue:
			marker = fmt.Sprintf("⚠️ *OVERDUE by %d days*", overdueDays)
		case domain.ListDueToday:
			marker = "🔴 *Due TODAY*"
		case domain.ListDueSoon:
			marker = fmt.Sprintf("🟡 Due in %d days", domain.DaysUntil(inv.DueDate, today))
		case domain.ListDueLater:
			marker = fmt.Sprintf("🟢 Due in %d days", domain.DaysUntil(inv.DueDate, today))
		}
		fmt.Fprintf(&b, "\n*#%d* %s\n  💵 %s %s | %s\n",
			inv.ID, inv.ClientName, inv.Currency, inv.Amount.StringFixed(2), marker)
	}
	b.WriteString("\n💡 Use /paid <id> to mark as paid")
	r.sendMarkdown(chatID, b.String())
}

func (r *Router) handleAll(ctx context.Context, userID, chatID int64) {
	invoices, err := r.repo.AllInvoices(ctx, userID, allInvoicesLimit)
	if err != nil {
		r.log.Error("list all failed", zap.Int64("user_id", userID), zap.Error(err))
		r.sendText(chatID, storeErrText)
		return
	}
	if len(invoices) == 0 {
		r.sendText(chatID, noInvoicesText)
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*📊 All Invoices (Last %d):*\n\n", allInvoicesLimit)
	for _, inv := range invoices {
		emoji := "⏳"
		if inv.Status == domain.StatusPaid {
			emoji = "✅"
		}
		fmt.Fprintf(&b, "%s *#%d* %s - %s %s\n",
			emoji, inv.ID, inv.ClientName, inv.Currency, inv.Amount.StringFixed(2))
	}
	r.sendMarkdown(chatID, b.String())
}

// handleView shows one invoice in full, with the same ownership rules as
// /paid and /delete.
func (r *Router) handleView(ctx context.Context, userID, chatID int64, args string) {
	id, ok := parseInvoiceID(args)
	if !ok {
		r.sendText(chatID, "Usage: /view <invoice_id>\nExample: /view 5")
		return
	}

	inv, err := r.ownedInvoice(ctx, userID, chatID, id)
	if inv == nil || err != nil {
		return
	}

	status := "⏳ Unpaid"
	if inv.Status == domain.StatusPaid {
		status = "✅ Paid"
		if inv.PaidDate != nil {
			status += " on " + inv.PaidDate.Format("2006-01-02")
		}
	}
	msg := fmt.Sprintf("*#%d %s*\n\n💵 %s %s\n📅 Due: %s\n%s\n",
		inv.ID, inv.ClientName, inv.Currency, inv.Amount.StringFixed(2),
		inv.DueDate.Format("2006-01-02"), status)
	if inv.Notes != "" {
		msg += "📝 " + inv.Notes + "\n"
	}
	msg += "\nCreated " + inv.CreatedAt.Format("2006-01-02")
	r.sendMarkdown(chatID, msg)
}

func (r *Router) handleStats(ctx context.Context, userID, chatID int64) {
	revenue, err := r.stats.Revenue(ctx, userID, r.now())
	if err != nil {
		r.log.Error("revenue stats failed", zap.Int64("user_id", userID), zap.Error(err))
		r.sendText(chatID, storeErrText)
		return
	}

	msg := fmt.Sprintf("*📈 Your Revenue Stats*\n\n"+
		"*This Month:*\n💰 $%s earned\n📝 %d invoices paid\n\n"+
		"*All Time:*\n💵 $%s total\n📋 %d invoices\n\n"+
		"*Outstanding:*\n⏳ $%s unpaid\n\n"+
		"Keep crushing it! 🚀",
		revenue.MonthTotal.StringFixed(2), revenue.MonthCount,
		revenue.AllTimeTotal.StringFixed(2), revenue.AllTimeCount,
		revenue.Outstanding.StringFixed(2))
	r.sendMarkdown(chatID, msg)
}

func (r *Router) handleAccount(ctx context.Context, userID, chatID int64, username, firstName string) {
	user, err := r.repo.GetOrCreateUser(ctx, userID, username, firstName)
	if err != nil {
		r.log.Error("get or create user failed", zap.Int64("user_id", userID), zap.Error(err))
		r.sendText(chatID, storeErrText)
		return
	}
	unpaid, err := r.repo.CountUnpaid(ctx, userID)
	if err != nil {
		r.log.Error("count unpaid failed", zap.Int64("user_id", userID), zap.Error(err))
		r.sendText(chatID, storeErrText)
		return
	}

	var limitMsg, tailMsg string
	if user.Tier == domain.TierFree {
		limitMsg = fmt.Sprintf("%d/%d unpaid invoices", unpaid, r.cfg.FreeTierMaxInvoices)
		tailMsg = "💎 Upgrade to Pro for unlimited invoices! /upgrade"
	} else {
		limitMsg = fmt.Sprintf("%d unpaid invoices (unlimited)", unpaid)
		tailMsg = "✅ Pro subscription active"
		if user.SubscriptionExpires != nil {
			tailMsg += " until " + user.SubscriptionExpires.Format("2006-01-02")
		}
	}

	msg := fmt.Sprintf("*👤 Your Account*\n\n*Plan:* %s\n*Invoices:* %s\n*Member since:* %s\n%s",
		strings.ToUpper(string(user.Tier)), limitMsg,
		user.CreatedAt.Format("2006-01-02"), tailMsg)
	r.sendMarkdown(chatID, msg)
}

func (r *Router) handleUpgrade(chatID int64) {
	r.sendMarkdown(chatID, upgradeText)
}

func (r *Router) handlePaid(ctx context.Context, userID, chatID int64, args string) {
	id, ok := parseInvoiceID(args)
	if !ok {
		r.sendText(chatID, "Usage: /paid <invoice_id>\nExample: /paid 5")
		return
	}

	inv, err := r.ownedInvoice(ctx, userID, chatID, id)
	if inv == nil || err != nil {
		return
	}
	if inv.Status == domain.StatusPaid {
		r.sendText(chatID, alreadyPaidText)
		return
	}

	if err := r.repo.MarkPaid(ctx, id, domain.DateOnly(r.now())); err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyPaid):
			r.sendText(chatID, alreadyPaidText)
		case errors.Is(err, domain.ErrNotFound):
			r.sendText(chatID, notFoundText)
		default:
			r.log.Error("mark paid failed", zap.Int64("invoice_id", id), zap.Error(err))
			r.sendText(chatID, storeErrText)
		}
		return
	}

	r.sendMarkdown(chatID, fmt.Sprintf(
		"✅ *Invoice Marked Paid!*\n\n*#%d* %s\n💵 %s %s\n\nGreat job getting paid! 🎉",
		id, inv.ClientName, inv.Currency, inv.Amount.StringFixed(2)))
	r.log.Info("invoice paid", zap.Int64("user_id", userID), zap.Int64("invoice_id", id))
}

func (r *Router) handleDelete(ctx context.Context, userID, chatID int64, args string) {
	id, ok := parseInvoiceID(args)
	if !ok {
		r.sendText(chatID, "Usage: /delete <invoice_id>\nExample: /delete 5")
		return
	}

	if inv, err := r.ownedInvoice(ctx, userID, chatID, id); inv == nil || err != nil {
		return
	}

	deleted, err := r.repo.DeleteInvoice(ctx, id, userID)
	if err != nil {
		r.log.Error("delete invoice failed", zap.Int64("invoice_id", id), zap.Error(err))
		r.sendText(chatID, storeErrText)
		return
	}
	if !deleted {
		// Raced with another delete of the same invoice.
		r.sendText(chatID, notFoundText)
		return
	}
	r.sendText(chatID, fmt.Sprintf("🗑️ Invoice #%d deleted.", id))
	r.log.Info("invoice deleted", zap.Int64("user_id", userID), zap.Int64("invoice_id", id))
}

// ownedInvoice fetches an invoice and enforces ownership, replying with the
// appropriate message on not-found and not-yours. Existence of other users'
// invoices is not leaked beyond "not yours".
func (r *Router) ownedInvoice(ctx context.Context, userID, chatID, invoiceID int64) (*domain.Invoice, error) {
	inv, err := r.repo.GetInvoice(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			r.sendText(chatID, notFoundText)
			return nil, nil
		}
		r.log.Error("get invoice failed", zap.Int64("invoice_id", invoiceID), zap.Error(err))
		r.sendText(chatID, storeErrText)
		return nil, err
	}
	if inv.UserID != userID {
		r.sendText(chatID, notYoursText)
		return nil, domain.ErrNotOwner
	}
	return inv, nil
}

func parseInvoiceID(args string) (int64, bool) {
	args = strings.TrimSpace(args)
	if args == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.Fields(args)[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
