// internal/infra/notify/telegram.go
package notify

import (
	"context"

	domainNotify "ddns_update_client/internal/domain/notify"

	"gopkg.in/telebot.v3"
)

// TelegramNotifier implements the Notifier interface using the gopkg.in/telebot.v3 library.
type TelegramNotifier struct {
	bot    *telebot.Bot
	chatID int64
}

func NewTelegramNotifier(b *telebot.Bot, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{bot: b, chatID: chatID}
}

// Send implements notify.Notifier. Telegram has no subject field, so the
// subject becomes the first line of the message.
func (n *TelegramNotifier) Send(_ context.Context, msg domainNotify.Message) error {
	recipient := &telebot.User{ID: n.chatID}
	_, err := n.bot.Send(recipient, msg.Subject+"\n\n"+msg.Body)
	return err
}
