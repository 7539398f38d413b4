package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Start runs the bot in long-polling mode and blocks until the updates
// channel closes.
func (b *Bot) Start() error {
	b.logger.Info("Starting bot in polling mode")

	// Remove webhook (if any was set previously)
	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		b.logger.Warn("Failed to delete webhook", zap.Error(err))
	}

	cmds := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Start the bot"},
		tgbotapi.BotCommand{Command: "help", Description: "Show help"},
		tgbotapi.BotCommand{Command: "admin", Description: "Admin panel (admins only)"},
	)
	if _, err := b.api.Request(cmds); err != nil {
		b.logger.Warn("Failed to set bot commands", zap.Error(err))
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("Bot started successfully. Waiting for updates...")
	for update := range updates {
		b.HandleUpdate(update)
	}
	return nil
}

// Stop ends long polling; the Start loop returns once the channel drains.
func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
}

// HandleUpdate routes one update. Exposed for tests.
func (b *Bot) HandleUpdate(update tgbotapi.Update) {
	if update.Message != nil {
		b.handleMessage(update.Message)
	}
	if update.CallbackQuery != nil {
		b.handleCallbackQuery(update.CallbackQuery)
	}
}
