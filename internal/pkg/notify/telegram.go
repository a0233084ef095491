// Package notify sends pipeline run summaries to Telegram. The pipeline runs
// as short-lived batch jobs, so messages are sent synchronously, one per
// stage run.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier sends stage summaries to one chat. A nil Notifier is a no-op, so
// callers never branch on whether Telegram is configured.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewNotifier creates a notifier, or nil (with a warning) when the bot cannot
// be reached. Notification failures must never block a pipeline run.
func NewNotifier(token string, chatID int64) *Notifier {
	if token == "" || chatID == 0 {
		return nil
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		slog.Warn("Failed to create telegram bot, notifications disabled", "error", err)
		return nil
	}
	bot.Debug = false

	if _, err := bot.GetMe(); err != nil {
		slog.Warn("Failed to reach telegram, notifications disabled", "error", err)
		return nil
	}

	slog.Info("Telegram notifier initialized", "chat_id", chatID)
	return &Notifier{bot: bot, chatID: chatID}
}

// SendRunSummary posts one stage's summary text. Safe on a nil receiver.
func (n *Notifier) SendRunSummary(ctx context.Context, stage, text string) {
	if n == nil || n.bot == nil {
		return
	}
	if err := ctx.Err(); err != nil {
		return
	}

	body := fmt.Sprintf("*%s run %s*\n```\n%s\n```\n_%s_",
		escapeMarkdown(stage),
		time.Now().UTC().Format("2006-01-02 15:04 UTC"),
		text,
		"betpipe")

	msg := tgbotapi.NewMessage(n.chatID, body)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := n.bot.Send(msg); err != nil {
		slog.Error("Failed to send telegram summary", "stage", stage, "error", err)
	}
}

func escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"]", "\\]",
		"`", "\\`",
	)
	return replacer.Replace(text)
}
