package config

import "github.com/kelseyhightower/envconfig"

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken string `envconfig:"BOT_TOKEN" required:"true"`
	DBPath   string `envconfig:"DB_PATH" default:"./data/paytrack.db"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"` // healthz

	FreeTierMaxInvoices int    `envconfig:"FREE_TIER_MAX_INVOICES" default:"3"`
	DefaultCurrency     string `envconfig:"DEFAULT_CURRENCY" default:"USD"`

	// ReminderCron is a standard 5-field cron expression for the daily
	// digest pass. Default: every day at 09:00 server time.
	ReminderCron        string `envconfig:"REMINDER_CRON" default:"0 9 * * *"`
	ReminderConcurrency int    `envconfig:"REMINDER_CONCURRENCY" default:"4"`
}

// Load reads environment variables into Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
