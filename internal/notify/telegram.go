package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier delivers a due-card reminder to one chat.
type Notifier interface {
	SendReminder(chatID int64, dueCount int) error
}

// TelegramNotifier sends reminder digests through the Telegram Bot API.
type TelegramNotifier struct {
	api *tgbotapi.BotAPI
}

// NewTelegramNotifier creates a notifier for the given bot token.
func NewTelegramNotifier(token string) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %v", err)
	}
	return &TelegramNotifier{api: api}, nil
}

// SendReminder implements the Notifier interface.
func (n *TelegramNotifier) SendReminder(chatID int64, dueCount int) error {
	cardForm := "cards"
	if dueCount == 1 {
		cardForm = "card"
	}
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"You have %d %s due for review. Open the app to start your review session.",
		dueCount, cardForm,
	))
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send reminder: %v", err)
	}
	return nil
}
