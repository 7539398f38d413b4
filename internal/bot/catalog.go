package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (b *Bot) showCatalog(ctx context.Context, chatID int64) {
	categories, err := b.store.Categories(ctx)
	if err != nil {
		b.logger.Error("Failed to load categories", zap.Error(err))
		b.sendText(chatID, "Could not load the catalog. Please try again later.")
		return
	}
	if len(categories) == 0 {
		b.sendText(chatID, "The catalog is empty for now. Check back soon!")
		return
	}
	msg := tgbotapi.NewMessage(chatID, "Choose a category:")
	msg.ReplyMarkup = categoriesKeyboard(categories)
	b.sendMessage(msg)
}

func (b *Bot) handleCategoryCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	id, err := strconv.ParseInt(strings.TrimPrefix(query.Data, "cat:"), 10, 64)
	if err != nil {
		return
	}
	b.showProducts(ctx, query, id)
}

func (b *Bot) showProducts(ctx context.Context, query *tgbotapi.CallbackQuery, categoryID int64) {
	chatID := query.Message.Chat.ID
	category, err := b.store.Category(ctx, categoryID)
	if err != nil {
		b.logger.Error("Failed to load category", zap.Int64("category_id", categoryID), zap.Error(err))
		b.sendText(chatID, "Category not found.")
		return
	}
	products, err := b.store.ProductsByCategory(ctx, categoryID)
	if err != nil {
		b.logger.Error("Failed to load products", zap.Int64("category_id", categoryID), zap.Error(err))
		b.sendText(chatID, "Could not load products. Please try again later.")
		return
	}
	text := fmt.Sprintf("📦 %s\nChoose a product:", category.Name)
	if len(products) == 0 {
		text = fmt.Sprintf("📦 %s\nNo products available right now.", category.Name)
	}
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, query.Message.MessageID, text, productsKeyboard(products))
	b.sendMessage(edit)
}

func (b *Bot) handleProductCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	id, err := strconv.ParseInt(strings.TrimPrefix(query.Data, "prod:"), 10, 64)
	if err != nil {
		return
	}
	chatID := query.Message.Chat.ID
	product, err := b.store.Product(ctx, id)
	if err != nil {
		b.logger.Error("Failed to load product", zap.Int64("product_id", id), zap.Error(err))
		b.sendText(chatID, "Product not found.")
		return
	}
	text := fmt.Sprintf("🛍 %s\n\n%s\n\nPrice: %s", product.Name, product.Description, product.FormattedPrice())
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, query.Message.MessageID, text, productKeyboard(product))
	b.sendMessage(edit)
}

func (b *Bot) handleBackToCategories(ctx context.Context, query *tgbotapi.CallbackQuery) {
	chatID := query.Message.Chat.ID
	categories, err := b.store.Categories(ctx)
	if err != nil {
		b.logger.Error("Failed to load categories", zap.Error(err))
		return
	}
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, query.Message.MessageID,
		"Choose a category:", categoriesKeyboard(categories))
	b.sendMessage(edit)
}

func (b *Bot) handleBackToProducts(ctx context.Context, query *tgbotapi.CallbackQuery) {
	id, err := strconv.ParseInt(strings.TrimPrefix(query.Data, "back:prods:"), 10, 64)
	if err != nil {
		return
	}
	b.showProducts(ctx, query, id)
}
