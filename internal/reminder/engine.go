package reminder

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/TheEsotericEel/paytrack-bot/internal/domain"
	"github.com/TheEsotericEel/paytrack-bot/internal/store"
)

// ErrRunInProgress is returned when a pass is requested while another pass
// is still running. Passes never overlap.
var ErrRunInProgress = errors.New("reminder pass already running")

// Sender is the minimal interface the engine needs to deliver a digest.
// telegram.Router implements it.
type Sender interface {
	SendMessage(chatID int64, text string) error
}

// Engine runs the daily reminder pass: it enumerates users with unpaid
// invoices, composes one urgency digest per pro user, and records which
// reminders were sent.
type Engine struct {
	repo        store.Repo
	log         *zap.Logger
	sender      Sender
	concurrency int

	runMu sync.Mutex
}

// New creates an Engine. concurrency bounds how many users are processed in
// parallel within one pass; values < 1 mean sequential.
func New(repo store.Repo, log *zap.Logger, sender Sender, concurrency int) *Engine {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Engine{repo: repo, log: log, sender: sender, concurrency: concurrency}
}

// RunOnce performs a single reminder pass for the given wall-clock moment
// and returns the number of users a digest was actually delivered to.
// A second concurrent call fails fast with ErrRunInProgress.
//
// Failures are contained per user: a broken store read or send skips that
// user only.
func (e *Engine) RunOnce(ctx context.Context, now time.Time) (int, error) {
	if !e.runMu.TryLock() {
		return 0, ErrRunInProgress
	}
	defer e.runMu.Unlock()

	today := domain.DateOnly(now)

	owners, err := e.repo.ListUnpaidOwners(ctx)
	if err != nil {
		return 0, err
	}
	e.log.Info("reminder pass started", zap.Int("candidates", len(owners)))

	var (
		sent int64
		wg   sync.WaitGroup
		sem  = make(chan struct{}, e.concurrency)
	)
	for _, userID := range owners {
		wg.Add(1)
		sem <- struct{}{}
		go func(userID int64) {
			defer wg.Done()
			defer func() { <-sem }()
			if e.remindUser(ctx, userID, today) {
				atomic.AddInt64(&sent, 1)
			}
		}(userID)
	}
	wg.Wait()

	e.log.Info("reminder pass finished", zap.Int64("digests_sent", sent))
	return int(sent), nil
}

// remindUser handles one user's digest end to end. Returns true when a
// digest was delivered.
func (e *Engine) remindUser(ctx context.Context, userID int64, today time.Time) bool {
	user, err := e.repo.GetUser(ctx, userID)
	if err != nil {
		e.log.Error("fetch user failed", zap.Int64("user_id", userID), zap.Error(err))
		return false
	}
	// Automated reminders are a pro feature.
	if user.Tier != domain.TierPro {
		return false
	}

	invoices, err := e.repo.UnpaidInvoices(ctx, userID)
	if err != nil {
		e.log.Error("fetch unpaid invoices failed", zap.Int64("user_id", userID), zap.Error(err))
		return false
	}

	text, logs := buildDigest(invoices, today)
	if text == "" {
		return false
	}

	if err := e.sender.SendMessage(userID, text); err != nil {
		e.log.Error("digest delivery failed", zap.Int64("user_id", userID), zap.Error(err))
		return false
	}

	for _, entry := range logs {
		if err := e.repo.LogReminder(ctx, entry.invoiceID, entry.kind); err != nil {
			e.log.Error("log reminder failed",
				zap.Int64("invoice_id", entry.invoiceID),
				zap.String("kind", string(entry.kind)),
				zap.Error(err))
		}
	}

	e.log.Info("digest sent",
		zap.Int64("user_id", userID),
		zap.Int("reminders_logged", len(logs)))
	return true
}
