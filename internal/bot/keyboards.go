package bot

import (
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/obidov404/ZetShopUZ/internal/shop"
)

// Reply keyboard button labels. Messages matching them are treated as menu
// selections.
const (
	btnCatalog   = "🛍 Catalog"
	btnCart      = "🛒 Cart"
	btnCheckout  = "✅ Checkout"
	btnInfo      = "ℹ️ Info"
	btnClearCart = "🧹 Clear Cart"
	btnMainMenu  = "⬅️ Main Menu"
	btnConfirm   = "✅ Confirm Order"
	btnCancel    = "❌ Cancel"
)

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCatalog),
			tgbotapi.NewKeyboardButton(btnCart),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCheckout),
			tgbotapi.NewKeyboardButton(btnInfo),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func cartKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCheckout),
			tgbotapi.NewKeyboardButton(btnClearCart),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnMainMenu),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func confirmKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnConfirm),
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func phoneKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButtonContact("📱 Share phone number"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func categoriesKeyboard(categories []shop.Category) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, c := range categories {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(c.Name, "cat:"+strconv.FormatInt(c.ID, 10)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func productsKeyboard(products []shop.Product) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, p := range products {
		label := fmt.Sprintf("%s - %s", p.Name, p.FormattedPrice())
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "prod:"+strconv.FormatInt(p.ID, 10)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⬅️ Back to categories", "back:cats"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func productKeyboard(p shop.Product) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🛒 Add to cart", "add:"+strconv.FormatInt(p.ID, 10)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", "back:prods:"+strconv.FormatInt(p.CategoryID, 10)),
		),
	)
}

func quantityKeyboard(productID int64) tgbotapi.InlineKeyboardMarkup {
	id := strconv.FormatInt(productID, 10)
	var row []tgbotapi.InlineKeyboardButton
	for q := 1; q <= 5; q++ {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			strconv.Itoa(q), fmt.Sprintf("qty:%s:%d", id, q)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		row,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", "qty_cancel"),
		),
	)
}

func adminProductsKeyboard(products []shop.Product) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, p := range products {
		label := fmt.Sprintf("%s - %s", p.Name, p.FormattedPrice())
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "aprod:"+strconv.FormatInt(p.ID, 10)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func adminProductKeyboard(productID int64) tgbotapi.InlineKeyboardMarkup {
	id := strconv.FormatInt(productID, 10)
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Name", "aedit:name:"+id),
			tgbotapi.NewInlineKeyboardButtonData("✏️ Description", "aedit:desc:"+id),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💰 Price", "aedit:price:"+id),
			tgbotapi.NewInlineKeyboardButtonData("🖼 Image URL", "aedit:image:"+id),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete", "adel:"+id),
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", "aback"),
		),
	)
}

func adminDeleteConfirmKeyboard(productID int64) tgbotapi.InlineKeyboardMarkup {
	id := strconv.FormatInt(productID, 10)
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Yes, delete", "adelc:"+id),
			tgbotapi.NewInlineKeyboardButtonData("❌ No", "aprod:"+id),
		),
	)
}
