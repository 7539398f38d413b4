package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/obidov404/ZetShopUZ/internal/shop"
)

// NewBot creates the shop bot. adminID is the Telegram user allowed into
// /admin and notified of new orders; zero disables both.
func NewBot(token string, store shop.Store, adminID int64, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		logger.Error("Failed to create bot API", zap.Error(err))
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	logger.Info("Bot created", zap.String("bot_username", api.Self.UserName))

	return &Bot{
		api:     api,
		store:   store,
		adminID: adminID,
		states:  make(map[int64]*ConversationState),
		logger:  logger,
	}, nil
}
