package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/obidov404/ZetShopUZ/internal/shop"
)

func (b *Bot) startCheckout(ctx context.Context, chatID, userID int64) {
	customer, err := b.store.CustomerByTelegramID(ctx, userID)
	if errors.Is(err, shop.ErrNotFound) {
		b.sendText(chatID, "Your cart is empty. Add something from the catalog first.")
		return
	}
	if err != nil {
		b.logger.Error("Failed to load customer for checkout", zap.Int64("user_id", userID), zap.Error(err))
		b.sendText(chatID, "Something went wrong. Please try again.")
		return
	}
	items, err := b.store.CartItems(ctx, customer.ID)
	if err != nil {
		b.logger.Error("Failed to load cart for checkout", zap.Int64("customer_id", customer.ID), zap.Error(err))
		b.sendText(chatID, "Something went wrong. Please try again.")
		return
	}
	if len(items) == 0 {
		b.sendText(chatID, "Your cart is empty. Add something from the catalog first.")
		return
	}

	b.setState(userID, &ConversationState{
		Command: "checkout",
		Step:    stepCheckoutName,
		Data:    map[string]interface{}{"customer_id": customer.ID},
	})
	msg := tgbotapi.NewMessage(chatID, "Let's place your order! 📝\n\nWhat is your full name?")
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	b.sendMessage(msg)
}

func (b *Bot) handleCheckoutStep(ctx context.Context, message *tgbotapi.Message, st *ConversationState) {
	chatID := message.Chat.ID
	userID := message.From.ID

	switch st.Step {
	case stepCheckoutName:
		name := strings.TrimSpace(message.Text)
		if len(name) < 2 {
			b.sendText(chatID, "Please enter your full name (at least 2 characters).")
			return
		}
		st.Data["name"] = name
		st.Step = stepCheckoutPhone
		msg := tgbotapi.NewMessage(chatID, "Your phone number? You can share it with the button below.")
		msg.ReplyMarkup = phoneKeyboard()
		b.sendMessage(msg)

	case stepCheckoutPhone:
		var phone string
		if message.Contact != nil {
			phone = message.Contact.PhoneNumber
		} else {
			phone = strings.TrimSpace(message.Text)
		}
		if !validPhone(phone) {
			b.sendText(chatID, "That doesn't look like a phone number. Try again, e.g. +998901234567.")
			return
		}
		st.Data["phone"] = phone
		st.Step = stepCheckoutAddress
		msg := tgbotapi.NewMessage(chatID, "Delivery address?")
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
		b.sendMessage(msg)

	case stepCheckoutAddress:
		address := strings.TrimSpace(message.Text)
		if len(address) < 5 {
			b.sendText(chatID, "Please enter a delivery address (at least 5 characters).")
			return
		}
		st.Data["address"] = address
		st.Step = stepCheckoutConfirm
		b.showOrderSummary(ctx, chatID, userID, st)

	case stepCheckoutConfirm:
		// btnCancel never reaches here; handleMessage intercepts it and
		// replies via cancelText.
		if message.Text == btnConfirm {
			b.confirmOrder(ctx, chatID, userID, st)
			return
		}
		b.sendText(chatID, "Please press "+btnConfirm+" or "+btnCancel+".")
	}
}

func (b *Bot) showOrderSummary(ctx context.Context, chatID, userID int64, st *ConversationState) {
	customerID := st.Data["customer_id"].(int64)
	items, err := b.store.CartItems(ctx, customerID)
	if err != nil || len(items) == 0 {
		b.logger.Error("Failed to load cart for summary", zap.Int64("customer_id", customerID), zap.Error(err))
		b.clearState(userID)
		b.sendText(chatID, "Your cart is no longer available. Please start over.")
		return
	}

	var sb strings.Builder
	sb.WriteString("📋 Order summary:\n\n")
	var total int64
	for i, it := range items {
		sb.WriteString(fmt.Sprintf("%d. %s × %d = %s\n",
			i+1, it.Product.Name, it.Quantity, shop.FormatUZS(it.Subtotal())))
		total += it.Subtotal()
	}
	sb.WriteString("\nTotal: " + shop.FormatUZS(total))
	sb.WriteString(fmt.Sprintf("\n\nName: %s\nPhone: %s\nAddress: %s",
		st.Data["name"], st.Data["phone"], st.Data["address"]))
	sb.WriteString("\n\nEverything correct?")

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ReplyMarkup = confirmKeyboard()
	b.sendMessage(msg)
}

func (b *Bot) confirmOrder(ctx context.Context, chatID, userID int64, st *ConversationState) {
	name, _ := st.Data["name"].(string)
	phone, _ := st.Data["phone"].(string)
	address, _ := st.Data["address"].(string)

	customer, err := b.store.UpsertCustomer(ctx, shop.Customer{
		TelegramID: userID,
		Name:       name,
		Phone:      phone,
		Address:    address,
	})
	if err != nil {
		b.logger.Error("Failed to save customer", zap.Int64("user_id", userID), zap.Error(err))
		b.sendText(chatID, "Could not save your details. Please try again.")
		return
	}

	order, err := b.store.CreateOrderFromCart(ctx, customer.ID, "")
	if err != nil {
		b.logger.Error("Failed to create order", zap.Int64("customer_id", customer.ID), zap.Error(err))
		b.sendText(chatID, "Could not place the order. Please try again.")
		return
	}
	b.clearState(userID)

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"🎉 Order #%d placed!\nTotal: %s\n\nWe will contact you at %s to confirm delivery.",
		order.ID, shop.FormatUZS(order.Total()), phone))
	msg.ReplyMarkup = mainMenuKeyboard()
	b.sendMessage(msg)

	b.notifyAdmin(order, customer)
}

// notifyAdmin forwards a new order to the admin chat, if one is configured.
func (b *Bot) notifyAdmin(order shop.Order, customer shop.Customer) {
	if b.adminID == 0 {
		return
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🆕 New order #%d\n\n", order.ID))
	for _, it := range order.Items {
		sb.WriteString(fmt.Sprintf("• %s × %d = %s\n", it.ProductName, it.Quantity, shop.FormatUZS(it.Subtotal())))
	}
	sb.WriteString("\nTotal: " + shop.FormatUZS(order.Total()))
	sb.WriteString(fmt.Sprintf("\n\nCustomer: %s\nPhone: %s\nAddress: %s",
		customer.Name, customer.Phone, customer.Address))
	b.sendText(b.adminID, sb.String())
}

// validPhone accepts digits with an optional leading plus, 7 to 15 digits.
func validPhone(s string) bool {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "+")
	if len(s) < 7 || len(s) > 15 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
