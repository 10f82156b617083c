package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/TheEsotericEel/paytrack-bot/internal/domain"
)

// convState is a step in the invoice-creation flow.
type convState int

const (
	stateClientName convState = iota
	stateAmount
	stateDueDate
	stateNotes
)

// session holds one user's in-flight invoice draft. It lives only in memory,
// is created on /new and dropped when the flow completes or is cancelled.
type session struct {
	state      convState
	clientName string
	amount     decimal.Decimal
	dueDate    time.Time
}

func (r *Router) getSession(userID int64) *session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[userID]
}

func (r *Router) setSession(userID int64, s *session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[userID] = s
}

func (r *Router) clearSession(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
}

// handleNew gates entry on the live unpaid count and opens a fresh session.
func (r *Router) handleNew(ctx context.Context, userID, chatID int64, username, firstName string) {
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

	if !domain.CanCreateInvoice(user.Tier, unpaid, r.cfg.FreeTierMaxInvoices) {
		r.log.Info("invoice creation blocked",
			zap.Int64("user_id", userID),
			zap.Int("unpaid", unpaid),
			zap.Error(domain.ErrQuotaExceeded))
		r.sendText(chatID, fmt.Sprintf(quotaFmt, r.cfg.FreeTierMaxInvoices))
		return
	}

	r.setSession(userID, &session{state: stateClientName})
	r.sendMarkdown(chatID, askClientName)
}

// handleCancel aborts an in-flight flow from any step.
func (r *Router) handleCancel(userID, chatID int64) {
	if r.getSession(userID) == nil {
		r.sendText(chatID, "Nothing to cancel.")
		return
	}
	r.clearSession(userID)
	r.sendText(chatID, cancelledText)
}

// handleSkip finishes the flow without notes; valid only at the notes step.
func (r *Router) handleSkip(ctx context.Context, userID, chatID int64) {
	s := r.getSession(userID)
	if s == nil || s.state != stateNotes {
		r.sendText(chatID, "Nothing to skip.")
		return
	}
	r.finishSession(ctx, userID, chatID, s, "")
}

// continueSession advances an active invoice flow with free text. Returns
// false when the user has no session, so the caller can fall through.
// Invalid input re-prompts and keeps the current step and all collected
// fields.
func (r *Router) continueSession(ctx context.Context, userID, chatID int64, text string) bool {
	s := r.getSession(userID)
	if s == nil {
		return false
	}

	switch s.state {
	case stateClientName:
		name, err := domain.ParseClientName(text)
		if err != nil {
			r.sendText(chatID, "Please send the client's name.")
			return true
		}
		s.clientName = name
		s.state = stateAmount
		r.sendMarkdown(chatID, fmt.Sprintf(askAmountFmt, name))

	case stateAmount:
		amount, err := domain.ParseAmount(text)
		if err != nil {
			r.sendText(chatID, badAmountText)
			return true
		}
		s.amount = amount
		s.state = stateDueDate
		r.sendMarkdown(chatID, fmt.Sprintf(askDueDateFmt, amount.StringFixed(2)))

	case stateDueDate:
		due, err := domain.ParseDueDate(text, r.now())
		if err != nil {
			if errors.Is(err, domain.ErrDueDateTooOld) {
				r.sendText(chatID, dueTooOldText)
			} else {
				r.sendText(chatID, badDueText)
			}
			return true
		}
		s.dueDate = due
		s.state = stateNotes
		r.sendMarkdown(chatID, fmt.Sprintf(askNotesFmt, due.Format("2006-01-02")))

	case stateNotes:
		r.finishSession(ctx, userID, chatID, s, text)
	}
	return true
}

// finishSession creates the invoice from the collected draft. On a store
// failure the session stays at the notes step so nothing already entered is
// lost.
func (r *Router) finishSession(ctx context.Context, userID, chatID int64, s *session, notes string) {
	id, err := r.repo.CreateInvoice(ctx, userID, s.clientName, s.amount,
		r.cfg.DefaultCurrency, s.dueDate, notes)
	if err != nil {
		r.log.Error("create invoice failed", zap.Int64("user_id", userID), zap.Error(err))
		r.sendText(chatID, storeErrText+" Send notes again, /skip, or /cancel.")
		return
	}
	r.clearSession(userID)

	msg := fmt.Sprintf("✅ *Invoice Created!*\n\n*#%d* %s\n💵 $%s\n📅 Due: %s\n",
		id, s.clientName, s.amount.StringFixed(2), s.dueDate.Format("2006-01-02"))
	if notes != "" {
		msg += "📝 " + notes + "\n"
	}
	msg += "\nUse /list to view all invoices."
	r.sendMarkdown(chatID, msg)

	r.log.Info("invoice created",
		zap.Int64("user_id", userID),
		zap.Int64("invoice_id", id),
		zap.String("amount", s.amount.String()))
}
