package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/TheEsotericEel/paytrack-bot/internal/config"
	"github.com/TheEsotericEel/paytrack-bot/internal/reminder"
	"github.com/TheEsotericEel/paytrack-bot/internal/store"
	"github.com/TheEsotericEel/paytrack-bot/internal/telegram"
)

// App wires the bot transport, storage, router and reminder schedule.
type App struct {
	cfg     config.Config
	log     *zap.Logger
	bot     *tgbotapi.BotAPI
	httpSrv *http.Server
	repo    store.Repo
	router  *telegram.Router
	engine  *reminder.Engine
	cron    *cron.Cron
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}
	bot.Debug = false

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	return &App{cfg: cfg, log: log, bot: bot, httpSrv: srv}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting paytrack-bot",
		zap.String("http", a.cfg.HTTPAddr),
		zap.String("reminder_cron", a.cfg.ReminderCron),
	)

	// Open SQLite and run migrations.
	repo, err := store.OpenSQLite(ctx, a.cfg.DBPath)
	if err != nil {
		a.log.Error("open sqlite failed", zap.Error(err))
		return err
	}
	a.repo = repo
	a.log.Info("sqlite ready")

	a.router = telegram.NewRouter(a.bot, a.log, a.repo, a.cfg)
	a.engine = reminder.New(a.repo, a.log, a.router, a.cfg.ReminderConcurrency)

	// Daily digest pass.
	a.cron = cron.New()
	if _, err := a.cron.AddFunc(a.cfg.ReminderCron, func() {
		sent, err := a.engine.RunOnce(ctx, time.Now())
		if err != nil {
			a.log.Error("reminder pass failed", zap.Error(err))
			return
		}
		a.log.Info("reminder pass done", zap.Int("digests_sent", sent))
	}); err != nil {
		return fmt.Errorf("reminder schedule %q: %w", a.cfg.ReminderCron, err)
	}
	a.cron.Start()

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updCh := a.bot.GetUpdatesChan(u)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")
			a.shutdown()
			return nil

		case upd := <-updCh:
			a.router.HandleUpdate(ctx, upd)
		}
	}
}

func (a *App) shutdown() {
	// Stop the cron first so no new pass starts, then drain in-flight
	// handlers before closing storage.
	<-a.cron.Stop().Done()
	a.router.Close()

	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err := a.httpSrv.Shutdown(shCtx)
	cancel()
	if err != nil {
		a.log.Warn("http server shutdown error", zap.Error(err))
	}

	if a.repo != nil {
		_ = a.repo.Close()
	}
}
