package services

import (
	"context"
	"fmt"
	"strings"

	"coffeeshell/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier tells the shop about a placed order. Failures never affect the order.
type Notifier interface {
	NotifyOrder(ctx context.Context, user models.User, o models.PlacedOrder) error
}

// TelegramNotifier posts new orders to the shop chat.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &TelegramNotifier{api: api, chatID: chatID}, nil
}

// NewTelegramNotifierWithAPI uses an already configured bot API (e.g. a custom endpoint).
func NewTelegramNotifierWithAPI(api *tgbotapi.BotAPI, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{api: api, chatID: chatID}
}

func (n *TelegramNotifier) NotifyOrder(_ context.Context, user models.User, o models.PlacedOrder) error {
	msg := tgbotapi.NewMessage(n.chatID, OrderNotificationText(user, o))
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// OrderNotificationText is the shop-facing summary of a new order.
func OrderNotificationText(user models.User, o models.PlacedOrder) string {
	var b strings.Builder
	b.WriteString("☕ New order\n")
	fmt.Fprintf(&b, "Customer: %s <%s>\n", user.Name, user.Email)
	fmt.Fprintf(&b, "Coffee: %s\n", o.ItemName)
	fmt.Fprintf(&b, "Sugar: %s\n", o.SugarLevel)
	fmt.Fprintf(&b, "Milk: %s\n", o.MilkType)
	fmt.Fprintf(&b, "Whipped cream: %s\n", o.WhippedCream)
	fmt.Fprintf(&b, "Total: %s\n", models.FormatPrice(o.Price))
	b.WriteString("Payment: pending")
	return b.String()
}
