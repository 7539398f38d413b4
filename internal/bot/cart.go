package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/obidov404/ZetShopUZ/internal/shop"
)

// ensureCustomer looks up the customer row for a Telegram user, creating a
// skeleton one on first contact. Checkout fills in the real contact details.
func (b *Bot) ensureCustomer(ctx context.Context, from *tgbotapi.User) (shop.Customer, error) {
	c, err := b.store.CustomerByTelegramID(ctx, from.ID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, shop.ErrNotFound) {
		return shop.Customer{}, err
	}
	name := strings.TrimSpace(from.FirstName + " " + from.LastName)
	if name == "" {
		name = from.UserName
	}
	return b.store.UpsertCustomer(ctx, shop.Customer{TelegramID: from.ID, Name: name})
}

func (b *Bot) handleAddToCart(ctx context.Context, query *tgbotapi.CallbackQuery) {
	id, err := strconv.ParseInt(strings.TrimPrefix(query.Data, "add:"), 10, 64)
	if err != nil {
		return
	}
	chatID := query.Message.Chat.ID
	product, err := b.store.Product(ctx, id)
	if err != nil {
		b.logger.Error("Failed to load product for cart", zap.Int64("product_id", id), zap.Error(err))
		b.sendText(chatID, "Product not found.")
		return
	}
	text := fmt.Sprintf("How many of %s? (%s each)", product.Name, product.FormattedPrice())
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, query.Message.MessageID, text, quantityKeyboard(id))
	b.sendMessage(edit)
}

func (b *Bot) handleQuantityCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	parts := strings.Split(query.Data, ":") // qty:<productID>:<n>
	if len(parts) != 3 {
		return
	}
	productID, err1 := strconv.ParseInt(parts[1], 10, 64)
	qty, err2 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || qty <= 0 {
		return
	}
	chatID := query.Message.Chat.ID

	customer, err := b.ensureCustomer(ctx, query.From)
	if err != nil {
		b.logger.Error("Failed to ensure customer", zap.Int64("user_id", query.From.ID), zap.Error(err))
		b.sendText(chatID, "Something went wrong. Please try again.")
		return
	}
	product, err := b.store.Product(ctx, productID)
	if err != nil {
		b.sendText(chatID, "Product not found.")
		return
	}
	if err := b.store.AddCartItem(ctx, customer.ID, productID, qty); err != nil {
		b.logger.Error("Failed to add cart item", zap.Int64("product_id", productID), zap.Error(err))
		b.sendText(chatID, "Could not add to cart. Please try again.")
		return
	}

	text := fmt.Sprintf("✅ Added %d × %s to your cart.", qty, product.Name)
	edit := tgbotapi.NewEditMessageText(chatID, query.Message.MessageID, text)
	b.sendMessage(edit)

	msg := tgbotapi.NewMessage(chatID, "Anything else? Open the cart when you are ready.")
	msg.ReplyMarkup = mainMenuKeyboard()
	b.sendMessage(msg)
}

func (b *Bot) handleQuantityCancel(query *tgbotapi.CallbackQuery) {
	edit := tgbotapi.NewEditMessageText(query.Message.Chat.ID, query.Message.MessageID, "Cancelled.")
	b.sendMessage(edit)
}

func (b *Bot) showCart(ctx context.Context, chatID, userID int64) {
	customer, err := b.store.CustomerByTelegramID(ctx, userID)
	if errors.Is(err, shop.ErrNotFound) {
		b.sendText(chatID, "Your cart is empty.")
		return
	}
	if err != nil {
		b.logger.Error("Failed to load customer", zap.Int64("user_id", userID), zap.Error(err))
		b.sendText(chatID, "Could not load your cart. Please try again.")
		return
	}
	items, err := b.store.CartItems(ctx, customer.ID)
	if err != nil {
		b.logger.Error("Failed to load cart", zap.Int64("customer_id", customer.ID), zap.Error(err))
		b.sendText(chatID, "Could not load your cart. Please try again.")
		return
	}
	if len(items) == 0 {
		b.sendText(chatID, "Your cart is empty.")
		return
	}

	var sb strings.Builder
	sb.WriteString("🛒 Your cart:\n\n")
	var total int64
	for i, it := range items {
		sb.WriteString(fmt.Sprintf("%d. %s × %d = %s\n",
			i+1, it.Product.Name, it.Quantity, shop.FormatUZS(it.Subtotal())))
		total += it.Subtotal()
	}
	sb.WriteString("\nTotal: " + shop.FormatUZS(total))

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ReplyMarkup = cartKeyboard()
	b.sendMessage(msg)
}

func (b *Bot) clearCart(ctx context.Context, chatID, userID int64) {
	customer, err := b.store.CustomerByTelegramID(ctx, userID)
	if errors.Is(err, shop.ErrNotFound) {
		b.sendText(chatID, "Your cart is already empty.")
		return
	}
	if err == nil {
		err = b.store.ClearCart(ctx, customer.ID)
	}
	if err != nil {
		b.logger.Error("Failed to clear cart", zap.Int64("user_id", userID), zap.Error(err))
		b.sendText(chatID, "Could not clear the cart. Please try again.")
		return
	}
	msg := tgbotapi.NewMessage(chatID, "🧹 Cart cleared.")
	msg.ReplyMarkup = mainMenuKeyboard()
	b.sendMessage(msg)
}
