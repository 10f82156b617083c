package domain

// CanCreateInvoice decides whether a user may start a new invoice.
// Free tier is capped at maxFree concurrently unpaid invoices; pro is
// unlimited.
func CanCreateInvoice(tier Tier, unpaidCount, maxFree int) bool {
	if tier == TierPro {
		return true
	}
	return unpaidCount < maxFree
}
