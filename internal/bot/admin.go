package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/obidov404/ZetShopUZ/internal/shop"
)

func (b *Bot) handleAdmin(ctx context.Context, message *tgbotapi.Message) {
	if !b.isAdmin(message.From.ID) {
		b.sendText(message.Chat.ID, "This command is for administrators only.")
		return
	}
	b.showAdminProducts(ctx, message.Chat.ID, 0)
}

// showAdminProducts lists every product across categories for editing.
// messageID > 0 edits in place, otherwise a new message is sent.
func (b *Bot) showAdminProducts(ctx context.Context, chatID int64, messageID int) {
	categories, err := b.store.Categories(ctx)
	if err != nil {
		b.logger.Error("Failed to load categories for admin", zap.Error(err))
		b.sendText(chatID, "Could not load products.")
		return
	}
	var products []shop.Product
	for _, c := range categories {
		ps, err := b.store.ProductsByCategory(ctx, c.ID)
		if err != nil {
			b.logger.Error("Failed to load products for admin", zap.Int64("category_id", c.ID), zap.Error(err))
			continue
		}
		products = append(products, ps...)
	}
	if len(products) == 0 {
		b.sendText(chatID, "No products to manage.")
		return
	}
	text := "🛠 Product management\nSelect a product:"
	if messageID > 0 {
		b.sendMessage(tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, adminProductsKeyboard(products)))
		return
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = adminProductsKeyboard(products)
	b.sendMessage(msg)
}

// handleAdminCallback dispatches all "a"-prefixed callback data. Non-admins
// are ignored outright.
func (b *Bot) handleAdminCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if !b.isAdmin(query.From.ID) {
		return
	}
	data := query.Data
	switch {
	case strings.HasPrefix(data, "aprod:"):
		b.showAdminProduct(ctx, query, strings.TrimPrefix(data, "aprod:"))
	case strings.HasPrefix(data, "aedit:"):
		b.startAdminEdit(query, strings.TrimPrefix(data, "aedit:"))
	case strings.HasPrefix(data, "adelc:"):
		b.adminDeleteProduct(ctx, query, strings.TrimPrefix(data, "adelc:"))
	case strings.HasPrefix(data, "adel:"):
		b.askDeleteConfirm(ctx, query, strings.TrimPrefix(data, "adel:"))
	case data == "aback":
		b.showAdminProducts(ctx, query.Message.Chat.ID, query.Message.MessageID)
	}
}

func (b *Bot) showAdminProduct(ctx context.Context, query *tgbotapi.CallbackQuery, idStr string) {
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return
	}
	p, err := b.store.Product(ctx, id)
	if err != nil {
		b.sendText(query.Message.Chat.ID, "Product not found.")
		return
	}
	text := fmt.Sprintf("🛠 %s\n\nDescription: %s\nPrice: %s\nImage: %s\nAvailable: %v",
		p.Name, p.Description, p.FormattedPrice(), orDash(p.ImageURL), p.Available)
	b.sendMessage(tgbotapi.NewEditMessageTextAndMarkup(
		query.Message.Chat.ID, query.Message.MessageID, text, adminProductKeyboard(id)))
}

// startAdminEdit begins a one-step conversation awaiting the new field
// value. data is "<field>:<id>".
func (b *Bot) startAdminEdit(query *tgbotapi.CallbackQuery, data string) {
	parts := strings.SplitN(data, ":", 2)
	if len(parts) != 2 {
		return
	}
	field := parts[0]
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return
	}
	prompts := map[string]string{
		"name":  "Send the new product name:",
		"desc":  "Send the new description:",
		"price": "Send the new price in UZS (whole number):",
		"image": "Send the new image URL:",
	}
	prompt, ok := prompts[field]
	if !ok {
		return
	}
	b.setState(query.From.ID, &ConversationState{
		Command: "admin_edit",
		Data:    map[string]interface{}{"field": field, "product_id": id},
	})
	b.sendText(query.Message.Chat.ID, prompt)
}

// handleAdminEditValue applies the value sent for a pending admin edit.
func (b *Bot) handleAdminEditValue(ctx context.Context, message *tgbotapi.Message, st *ConversationState) {
	chatID := message.Chat.ID
	field, _ := st.Data["field"].(string)
	id, _ := st.Data["product_id"].(int64)
	value := strings.TrimSpace(message.Text)
	b.clearState(message.From.ID)

	p, err := b.store.Product(ctx, id)
	if err != nil {
		b.sendText(chatID, "Product not found.")
		return
	}

	switch field {
	case "name":
		if len(value) < 2 {
			b.sendText(chatID, "Name too short, nothing changed.")
			return
		}
		p.Name = value
	case "desc":
		p.Description = value
	case "price":
		price, err := strconv.ParseInt(strings.ReplaceAll(value, " ", ""), 10, 64)
		if err != nil || price <= 0 {
			b.sendText(chatID, "That is not a valid price, nothing changed.")
			return
		}
		p.Price = price
	case "image":
		p.ImageURL = value
	default:
		return
	}

	if err := b.store.UpdateProduct(ctx, p); err != nil {
		b.logger.Error("Failed to update product", zap.Int64("product_id", id), zap.Error(err))
		b.sendText(chatID, "Could not save the change. Please try again.")
		return
	}
	b.sendText(chatID, fmt.Sprintf("✅ %s updated.", p.Name))
}

func (b *Bot) askDeleteConfirm(ctx context.Context, query *tgbotapi.CallbackQuery, idStr string) {
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return
	}
	p, err := b.store.Product(ctx, id)
	if err != nil {
		b.sendText(query.Message.Chat.ID, "Product not found.")
		return
	}
	text := fmt.Sprintf("Delete %s permanently? Cart entries referencing it will be removed.", p.Name)
	b.sendMessage(tgbotapi.NewEditMessageTextAndMarkup(
		query.Message.Chat.ID, query.Message.MessageID, text, adminDeleteConfirmKeyboard(id)))
}

func (b *Bot) adminDeleteProduct(ctx context.Context, query *tgbotapi.CallbackQuery, idStr string) {
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return
	}
	if err := b.store.DeleteProduct(ctx, id); err != nil {
		b.logger.Error("Failed to delete product", zap.Int64("product_id", id), zap.Error(err))
		b.sendText(query.Message.Chat.ID, "Could not delete the product.")
		return
	}
	b.sendMessage(tgbotapi.NewEditMessageText(
		query.Message.Chat.ID, query.Message.MessageID, "🗑 Product deleted."))
	b.showAdminProducts(ctx, query.Message.Chat.ID, 0)
}

func orDash(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
