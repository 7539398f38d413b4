package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// sendMessage sends a message and logs on failure; handlers never care about
// a lost message beyond the log line.
func (b *Bot) sendMessage(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message", zap.Error(err))
	}
}

func (b *Bot) sendText(chatID int64, text string) {
	b.sendMessage(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) setState(userID int64, st *ConversationState) {
	b.statesMu.Lock()
	b.states[userID] = st
	b.statesMu.Unlock()
}

func (b *Bot) state(userID int64) (*ConversationState, bool) {
	b.statesMu.Lock()
	st, ok := b.states[userID]
	b.statesMu.Unlock()
	return st, ok
}

func (b *Bot) clearState(userID int64) {
	b.statesMu.Lock()
	delete(b.states, userID)
	b.statesMu.Unlock()
}

func (b *Bot) isAdmin(userID int64) bool {
	return b.adminID != 0 && userID == b.adminID
}

// cancelText picks the reply for an interrupted conversation. Cancelling a
// checkout must reassure the user that the cart survived.
func cancelText(st *ConversationState) string {
	if st != nil && st.Command == "checkout" {
		return "Order cancelled. Your cart is untouched."
	}
	return "Cancelled."
}
