package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// handleMessage processes a single message: ongoing conversations first,
// then commands, then reply-keyboard selections.
func (b *Bot) handleMessage(message *tgbotapi.Message) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in handleMessage", zap.Any("panic", r))
			b.sendText(message.Chat.ID, "An error occurred while processing your request. Please try again.")
		}
	}()
	if message.From == nil {
		return
	}

	userID := message.From.ID
	ctx := context.Background()

	if st, ok := b.state(userID); ok {
		switch {
		case st.Step == stepDone:
			b.clearState(userID)
		case message.IsCommand() || message.Text == btnMainMenu || message.Text == btnCancel:
			// Any command or explicit cancel interrupts the conversation.
			b.clearState(userID)
			if message.Text == btnCancel || message.Text == btnMainMenu {
				msg := tgbotapi.NewMessage(message.Chat.ID, cancelText(st))
				msg.ReplyMarkup = mainMenuKeyboard()
				b.sendMessage(msg)
				return
			}
		default:
			b.handleConversation(ctx, message, st)
			return
		}
	}

	if message.IsCommand() {
		switch message.Command() {
		case "start":
			b.handleStart(message)
		case "help":
			b.handleHelp(message)
		case "admin":
			b.handleAdmin(ctx, message)
		default:
			b.sendText(message.Chat.ID, "Unknown command. Use /start to see the menu.")
		}
		return
	}

	switch message.Text {
	case btnCatalog:
		b.showCatalog(ctx, message.Chat.ID)
	case btnCart:
		b.showCart(ctx, message.Chat.ID, userID)
	case btnClearCart:
		b.clearCart(ctx, message.Chat.ID, userID)
	case btnCheckout:
		b.startCheckout(ctx, message.Chat.ID, userID)
	case btnInfo:
		b.handleInfo(message)
	case btnMainMenu:
		msg := tgbotapi.NewMessage(message.Chat.ID, "Main menu:")
		msg.ReplyMarkup = mainMenuKeyboard()
		b.sendMessage(msg)
	}
}

// handleCallbackQuery processes inline keyboard button clicks.
func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in handleCallbackQuery", zap.Any("panic", r))
		}
	}()
	if query.Message == nil || query.From == nil {
		return
	}

	// Answer the callback query to remove the loading state.
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		b.logger.Warn("Failed to answer callback query", zap.Error(err))
	}

	ctx := context.Background()
	data := query.Data
	switch {
	case strings.HasPrefix(data, "cat:"):
		b.handleCategoryCallback(ctx, query)
	case strings.HasPrefix(data, "prod:"):
		b.handleProductCallback(ctx, query)
	case data == "back:cats":
		b.handleBackToCategories(ctx, query)
	case strings.HasPrefix(data, "back:prods:"):
		b.handleBackToProducts(ctx, query)
	case strings.HasPrefix(data, "add:"):
		b.handleAddToCart(ctx, query)
	case strings.HasPrefix(data, "qty:"):
		b.handleQuantityCallback(ctx, query)
	case data == "qty_cancel":
		b.handleQuantityCancel(query)
	case strings.HasPrefix(data, "a"):
		b.handleAdminCallback(ctx, query)
	}
}

func (b *Bot) handleStart(message *tgbotapi.Message) {
	text := "Welcome to ZetShopUz! 🛍\n\n" +
		"Browse the catalog, add products to your cart and place an order right here in Telegram."
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyMarkup = mainMenuKeyboard()
	b.sendMessage(msg)
}

func (b *Bot) handleHelp(message *tgbotapi.Message) {
	text := "How to order:\n" +
		"1. Open " + btnCatalog + " and pick a category\n" +
		"2. Choose a product and add it to your cart\n" +
		"3. Press " + btnCheckout + " and follow the steps\n\n" +
		"Commands:\n/start - main menu\n/help - this message"
	b.sendText(message.Chat.ID, text)
}

func (b *Bot) handleInfo(message *tgbotapi.Message) {
	text := "ZetShopUz is your shop in Telegram.\n" +
		"Delivery across Tashkent within 24 hours.\n" +
		"Payment on delivery. Prices in UZS."
	b.sendText(message.Chat.ID, text)
}

// handleConversation routes a non-command message into the active multi-step
// flow.
func (b *Bot) handleConversation(ctx context.Context, message *tgbotapi.Message, st *ConversationState) {
	switch st.Command {
	case "checkout":
		b.handleCheckoutStep(ctx, message, st)
	case "admin_edit":
		b.handleAdminEditValue(ctx, message, st)
	default:
		b.clearState(message.From.ID)
	}
}
