package telegram

// UI texts. Telegram "Markdown" parse mode, single-asterisk bold.
const (
	welcomeFmt = "Welcome to PayTrack, %s!\n\n" +
		"I help freelancers track invoices and never miss a payment.\n\n" +
		"QUICK COMMANDS:\n" +
		"/new - Create a new invoice\n" +
		"/list - View all unpaid invoices\n" +
		"/stats - See your revenue stats\n" +
		"/help - Full command list\n\n" +
		"FREE PLAN: Track up to %d unpaid invoices\n" +
		"PRO PLAN ($7/mo): Unlimited invoices + auto-reminders\n\n" +
		"Let's track your first invoice! Use /new to get started."

	helpText = "*PayTrack Commands*\n\n" +
		"*Invoice Management:*\n" +
		"/new - Create new invoice\n" +
		"/list - View unpaid invoices\n" +
		"/all - View all invoices (last 50)\n" +
		"/view <id> - View invoice details\n" +
		"/paid <id> - Mark invoice as paid\n" +
		"/delete <id> - Delete an invoice\n\n" +
		"*Statistics:*\n" +
		"/stats - Revenue statistics\n\n" +
		"*Account:*\n" +
		"/upgrade - Upgrade to Pro ($7/month)\n" +
		"/account - View subscription status\n" +
		"/help - This help message"

	upgradeText = "💎 *Upgrade to Pro*\n\n" +
		"*Pro Features ($7/month):*\n" +
		"✅ Unlimited invoices\n" +
		"🔔 Auto payment reminders\n" +
		"📊 Advanced revenue reports\n\n" +
		"Payment integration is coming soon. Stay tuned!"

	quotaFmt = "⚠️ Free plan limit reached (%d unpaid invoices).\n\n" +
		"Mark some invoices as paid or upgrade to Pro: /upgrade"

	askClientName = "📝 *Create New Invoice*\n\nWhat's the client's name?\n\n(Send /cancel to abort)"
	askAmountFmt  = "✅ Client: *%s*\n\nWhat's the invoice amount?\n(Example: 500 or 1250.50)"
	askDueDateFmt = "✅ Amount: *$%s*\n\nWhen is it due?\n" +
		"(Format: YYYY-MM-DD or type 'today', '7d', '30d')\nExample: 2026-03-01 or 30d"
	askNotesFmt = "✅ Due: *%s*\n\nAdd notes? (Optional)\nType /skip to skip notes."

	badAmountText = "Please enter a valid positive number. Example: 500"
	badDueText    = "Invalid date format. Use:\n- YYYY-MM-DD (e.g., 2026-03-01)\n- 'today'\n- '7d', '30d', etc."
	dueTooOldText = "Due date seems too far in the past. Try again."
	cancelledText = "❌ Invoice creation cancelled."

	noUnpaidText   = "✅ No unpaid invoices! You're all caught up."
	noInvoicesText = "No invoices yet. Create one with /new"

	notFoundText    = "❌ Invoice not found."
	notYoursText    = "❌ This invoice doesn't belong to you."
	alreadyPaidText = "✅ This invoice is already marked as paid!"

	storeErrText = "Something went wrong on our side. Please try again."
)
