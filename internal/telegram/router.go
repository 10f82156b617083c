package telegram

import (
	"context"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/TheEsotericEel/paytrack-bot/internal/config"
	"github.com/TheEsotericEel/paytrack-bot/internal/stats"
	"github.com/TheEsotericEel/paytrack-bot/internal/store"
)

// botAPI is the slice of tgbotapi.BotAPI the router uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// queued pairs an update with the context it arrived under.
type queued struct {
	ctx context.Context
	upd tgbotapi.Update
}

// Router dispatches Telegram updates to command handlers and owns all
// per-user conversation state. Updates from the same user are processed
// strictly in arrival order, one at a time; different users run in
// parallel on their own worker goroutines.
type Router struct {
	bot   botAPI
	log   *zap.Logger
	repo  store.Repo
	stats *stats.Aggregator
	cfg   config.Config
	now   func() time.Time // injectable clock

	mu       sync.Mutex
	closed   bool
	sessions map[int64]*session
	inboxes  map[int64]chan queued
	wg       sync.WaitGroup
}

// NewRouter creates a router over the given bot transport and storage.
func NewRouter(bot botAPI, log *zap.Logger, repo store.Repo, cfg config.Config) *Router {
	return &Router{
		bot:      bot,
		log:      log,
		repo:     repo,
		stats:    stats.New(repo),
		cfg:      cfg,
		now:      time.Now,
		sessions: make(map[int64]*session),
		inboxes:  make(map[int64]chan queued),
	}
}

// HandleUpdate enqueues one update onto its user's FIFO worker.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil || msg.From == nil {
		return
	}

	ch := r.inbox(msg.From.ID)
	if ch == nil {
		return // shutting down
	}
	select {
	case ch <- queued{ctx: ctx, upd: upd}:
	case <-ctx.Done():
	}
}

// inbox returns the worker channel for a user, starting the worker on first
// contact.
func (r *Router) inbox(userID int64) chan queued {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	ch, ok := r.inboxes[userID]
	if !ok {
		ch = make(chan queued, 32)
		r.inboxes[userID] = ch
		r.wg.Add(1)
		go r.worker(ch)
	}
	return ch
}

// worker drains one user's queue; each handler runs to completion before
// the next update for that user is looked at.
func (r *Router) worker(ch chan queued) {
	defer r.wg.Done()
	for q := range ch {
		r.handleMessage(q.ctx, q.upd.Message)
	}
}

// Close stops accepting updates and waits for in-flight handlers to finish.
func (r *Router) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	for _, ch := range r.inboxes {
		close(ch)
	}
	r.mu.Unlock()
	r.wg.Wait()
}

// handleMessage routes a single private-chat message.
func (r *Router) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Chat == nil || !msg.Chat.IsPrivate() {
		return
	}
	userID := msg.From.ID
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	if msg.IsCommand() {
		args := msg.CommandArguments()
		switch msg.Command() {
		case "start":
			r.handleStart(ctx, userID, chatID, msg.From.UserName, msg.From.FirstName)
		case "help":
			r.handleHelp(chatID)
		case "new":
			r.handleNew(ctx, userID, chatID, msg.From.UserName, msg.From.FirstName)
		case "cancel":
			r.handleCancel(userID, chatID)
		case "skip":
			r.handleSkip(ctx, userID, chatID)
		case "list":
			r.handleList(ctx, userID, chatID)
		case "all":
			r.handleAll(ctx, userID, chatID)
		case "view":
			r.handleView(ctx, userID, chatID, args)
		case "stats":
			r.handleStats(ctx, userID, chatID)
		case "account":
			r.handleAccount(ctx, userID, chatID, msg.From.UserName, msg.From.FirstName)
		case "upgrade":
			r.handleUpgrade(chatID)
		case "paid":
			r.handlePaid(ctx, userID, chatID, args)
		case "delete":
			r.handleDelete(ctx, userID, chatID, args)
		default:
			r.sendText(chatID, "Unknown command. See /help")
		}
		return
	}

	// Free text feeds the invoice-creation flow, if one is active.
	if r.continueSession(ctx, userID, chatID, text) {
		return
	}
	r.sendText(chatID, "Not sure what you mean. Use /new to create an invoice or /help for commands.")
}

// SendMessage delivers a Markdown-formatted message to a chat. This makes
// Router satisfy reminder.Sender.
func (r *Router) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := r.bot.Send(msg)
	return err
}

func (r *Router) sendText(chatID int64, text string) {
	if _, err := r.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		r.log.Warn("send failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (r *Router) sendMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := r.bot.Send(msg); err != nil {
		r.log.Warn("send failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
