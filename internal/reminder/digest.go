package reminder

import (
	"fmt"
	"strings"
	"time"

	"github.com/TheEsotericEel/paytrack-bot/internal/domain"
)

// logEntry is one audit row to write after a digest is delivered.
type logEntry struct {
	invoiceID int64
	kind      domain.ReminderKind
}

// buildDigest groups a user's unpaid invoices by digest urgency and renders
// the daily reminder message. Section order is fixed: overdue, due today,
// due tomorrow, coming up soon; empty sections are omitted. The returned
// log entries cover the first three sections only — the "coming up soon"
// section is informational and never logged.
//
// An empty text means nothing to report for this user.
func buildDigest(invoices []domain.Invoice, today time.Time) (text string, logs []logEntry) {
	type overdueItem struct {
		inv  domain.Invoice
		days int
	}
	var (
		overdue     []overdueItem
		dueToday    []domain.Invoice
		dueTomorrow []domain.Invoice
		dueSoon     []domain.Invoice
	)

	for _, inv := range invoices {
		bucket, days, ok := domain.ClassifyDigest(inv.DueDate, today)
		if !ok {
			continue
		}
		switch bucket {
		case domain.DigestOverdue:
			overdue = append(overdue, overdueItem{inv: inv, days: days})
		case domain.DigestDueToday:
			dueToday = append(dueToday, inv)
		case domain.DigestDueTomorrow:
			dueTomorrow = append(dueTomorrow, inv)
		case domain.DigestDueSoon:
			dueSoon = append(dueSoon, inv)
		}
	}

	if len(overdue) == 0 && len(dueToday) == 0 && len(dueTomorrow) == 0 && len(dueSoon) == 0 {
		return "", nil
	}

	var b strings.Builder
	b.WriteString("📊 *Daily Invoice Reminder*\n")

	if len(overdue) > 0 {
		b.WriteString("\n⚠️ *OVERDUE INVOICES:*\n")
		for _, it := range overdue {
			fmt.Fprintf(&b, "• #%d %s - $%s (%d days overdue)\n",
				it.inv.ID, it.inv.ClientName, it.inv.Amount.StringFixed(2), it.days)
			logs = append(logs, logEntry{invoiceID: it.inv.ID, kind: domain.ReminderOverdue})
		}
	}
	if len(dueToday) > 0 {
		b.WriteString("\n🔴 *DUE TODAY:*\n")
		for _, inv := range dueToday {
			fmt.Fprintf(&b, "• #%d %s - $%s\n", inv.ID, inv.ClientName, inv.Amount.StringFixed(2))
			logs = append(logs, logEntry{invoiceID: inv.ID, kind: domain.ReminderDueToday})
		}
	}
	if len(dueTomorrow) > 0 {
		b.WriteString("\n🟡 *DUE TOMORROW:*\n")
		for _, inv := range dueTomorrow {
			fmt.Fprintf(&b, "• #%d %s - $%s\n", inv.ID, inv.ClientName, inv.Amount.StringFixed(2))
			logs = append(logs, logEntry{invoiceID: inv.ID, kind: domain.ReminderDueTomorrow})
		}
	}
	if len(dueSoon) > 0 {
		b.WriteString("\n📅 *Coming up soon:*\n")
		for _, inv := range dueSoon {
			fmt.Fprintf(&b, "• #%d %s - $%s (in %d days)\n",
				inv.ID, inv.ClientName, inv.Amount.StringFixed(2),
				domain.DaysUntil(inv.DueDate, today))
		}
	}

	b.WriteString("\nUse /paid <id> to mark as paid!")
	return b.String(), logs
}
