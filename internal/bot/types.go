package bot

import (
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/obidov404/ZetShopUZ/internal/shop"
)

// Bot wraps the Telegram API, the shop store and per-user conversation
// state. The update loop is single-threaded; the states mutex guards against
// access from tests and future webhook handlers.
type Bot struct {
	api      *tgbotapi.BotAPI
	store    shop.Store
	adminID  int64
	states   map[int64]*ConversationState
	statesMu sync.Mutex
	logger   *zap.Logger
}

// ConversationState tracks the progress of a multi-step flow (checkout,
// admin edits). Step -1 marks a finished conversation awaiting cleanup.
type ConversationState struct {
	Command string
	Step    int
	Data    map[string]interface{}
}

// Conversation step layout for checkout.
const (
	stepCheckoutName = iota
	stepCheckoutPhone
	stepCheckoutAddress
	stepCheckoutConfirm
)

const stepDone = -1
