// internal/infra/telegram/client.go
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"gopkg.in/telebot.v3"
)

// ChatNotifier implements notify.Notifier by sending to one Telegram chat
// through gopkg.in/telebot.v3. It never polls for updates.
type ChatNotifier struct {
	bot    *telebot.Bot
	chatID int64
}

// NewChatNotifier builds an offline bot. apiURL may be empty for the public API.
func NewChatNotifier(token string, chatID int64, apiURL string, timeout time.Duration) (*ChatNotifier, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	b, err := telebot.NewBot(telebot.Settings{
		URL:     apiURL,
		Token:   token,
		Offline: true, // Skip getMe; the bot only sends
		Client:  &http.Client{Timeout: timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("could not create telegram bot: %w", err)
	}
	return &ChatNotifier{bot: b, chatID: chatID}, nil
}

// Notify sends text to the configured chat using Markdown, which renders the
// same *bold* markers as Slack mrkdwn.
func (n *ChatNotifier) Notify(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	recipient := &telebot.Chat{ID: n.chatID}
	_, err := n.bot.Send(recipient, text, &telebot.SendOptions{
		ParseMode:             telebot.ModeMarkdown,
		DisableWebPagePreview: true,
	})
	if err != nil {
		return fmt.Errorf("telegram notification failed: %w", err)
	}
	return nil
}
