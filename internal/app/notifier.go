// internal/app/notifier.go
package app

import (
	domainTelegram "homework_status_bot/internal/domain/telegram"

	"github.com/sirupsen/logrus"
)

// Notifier delivers messages to the configured chat on a best-effort basis:
// one attempt, failures are logged and never returned.
type Notifier struct {
	telegramClient domainTelegram.Client
	chatID         int64
	logger         *logrus.Entry
}

func NewNotifier(tc domainTelegram.Client, chatID int64, logger *logrus.Logger) *Notifier {
	return &Notifier{
		telegramClient: tc,
		chatID:         chatID,
		logger:         logger.WithField("component", "notifier"),
	}
}

// Notify sends message and reports whether delivery succeeded.
func (n *Notifier) Notify(message string) bool {
	return n.notify(n.logger, message)
}

func (n *Notifier) notify(log *logrus.Entry, message string) bool {
	if err := n.telegramClient.SendMessage(n.chatID, message, nil); err != nil {
		log.WithError(err).WithField("chat_id", n.chatID).Error("Ошибка при отправке сообщения")
		return false
	}
	log.WithField("chat_id", n.chatID).Debugf("Сообщение отправлено: %s", message)
	return true
}
