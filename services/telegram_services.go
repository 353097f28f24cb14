package services

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramSender is the part of the bot API the notifier uses
type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts messages to the committee chat
type TelegramNotifier struct {
	bot    TelegramSender
	chatID int64
}

// NewTelegramBot connects the bot with its token
func NewTelegramBot(token string) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return bot, nil
}

func NewTelegramNotifier(bot TelegramSender, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{bot: bot, chatID: chatID}
}

func (t *TelegramNotifier) Notify(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	text := fmt.Sprintf("*%s* - %s\n\n%s", tgbotapi.EscapeText(tgbotapi.ModeMarkdown, msg.TeamName),
		tgbotapi.EscapeText(tgbotapi.ModeMarkdown, msg.Subject),
		tgbotapi.EscapeText(tgbotapi.ModeMarkdown, msg.Body))

	message := tgbotapi.NewMessage(t.chatID, text)
	message.ParseMode = tgbotapi.ModeMarkdown
	if _, err := t.bot.Send(message); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
