// Package runutil holds the shared startup code for the batch entry points:
// config loading with environment overrides, logging, storage and notifier
// wiring, and date-argument resolution.
package runutil

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/kmuriithi/betpipe/internal/pkg/config"
	"github.com/kmuriithi/betpipe/internal/pkg/logging"
	"github.com/kmuriithi/betpipe/internal/pkg/notify"
	"github.com/kmuriithi/betpipe/internal/pkg/storage"
)

const DefaultConfigPath = "configs/production.yaml"

// App is everything a stage binary needs after bootstrap.
type App struct {
	Config   *config.Config
	Store    *storage.PostgresStore
	Notifier *notify.Notifier
}

// ConfigPath returns the config path to load: the flag value if set,
// otherwise CONFIG_PATH, otherwise the default.
func ConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		return env
	}
	return DefaultConfigPath
}

// Bootstrap loads config, applies environment overrides, sets up logging and
// opens storage. Startup failures are fatal: a stage binary with no config or
// database has nothing to do.
func Bootstrap(configPath, serviceName string) *App {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("%s: failed to load config: %v", serviceName, err)
	}

	applyEnvOverrides(cfg)

	if _, err := logging.Setup(&cfg.Logging, serviceName); err != nil {
		log.Printf("%s: failed to setup logging: %v, continuing with default logger", serviceName, err)
	}

	store, err := storage.NewPostgresStore(&cfg.Postgres)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		log.Fatalf("%s: failed to initialize storage: %v", serviceName, err)
	}

	return &App{
		Config:   cfg,
		Store:    store,
		Notifier: notify.NewNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID),
	}
}

// Close releases the app's resources.
func (a *App) Close() {
	if err := a.Store.Close(); err != nil {
		slog.Error("Failed to close storage", "error", err)
	}
}

func applyEnvOverrides(cfg *config.Config) {
	if dsn := os.Getenv("POSTGRES_DSN"); dsn != "" {
		cfg.Postgres.DSN = dsn
		slog.Info("Using PostgreSQL DSN from environment")
	}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.Telegram.BotToken = token
		slog.Info("Using Telegram bot token from environment")
	}
	if chatIDStr := os.Getenv("TELEGRAM_CHAT_ID"); chatIDStr != "" {
		if chatID, err := strconv.ParseInt(chatIDStr, 10, 64); err == nil {
			cfg.Telegram.ChatID = chatID
			slog.Info("Using Telegram chat ID from environment", "chat_id", chatID)
		}
	}
}

// ResolveDate turns a date argument into YYYY-MM-DD. Accepts "today",
// "tomorrow", "yesterday", an explicit date, or empty for the stage default.
func ResolveDate(arg, def string) (string, error) {
	if arg == "" {
		arg = def
	}
	now := time.Now().UTC()
	switch arg {
	case "today":
		return now.Format("2006-01-02"), nil
	case "tomorrow":
		return now.AddDate(0, 0, 1).Format("2006-01-02"), nil
	case "yesterday":
		return now.AddDate(0, 0, -1).Format("2006-01-02"), nil
	}
	if _, err := time.Parse("2006-01-02", arg); err != nil {
		return "", fmt.Errorf("invalid date %q, want YYYY-MM-DD, today, tomorrow or yesterday", arg)
	}
	return arg, nil
}
