// Package telegram wraps the Bot API client behind the narrow surface the
// bot actually uses, so handlers and the delivery resolver stay testable
// without the network.
package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"media-downloader-bot/internal/common/apperr"
)

// Gateway is the outbound chat-platform surface. Sends are fire-and-forget
// from the caller's perspective except for the returned message id, which is
// needed for later edits and deletes.
type Gateway interface {
	SendMessage(chatID int64, text string) (int, error)
	SendMessageWithMarkup(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) (int, error)
	EditMessageText(chatID int64, messageID int, text string) error
	DeleteMessage(chatID int64, messageID int) error
	SendAudio(chatID int64, filePath, title string) error
	SendVideo(chatID int64, filePath, caption string) error
	AnswerCallback(callbackID, text string) error
}

type gateway struct {
	api *tgbotapi.BotAPI
}

// NewGateway wraps an authorized Bot API client.
func NewGateway(api *tgbotapi.BotAPI) Gateway {
	return &gateway{api: api}
}

func (g *gateway) SendMessage(chatID int64, text string) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	sent, err := g.api.Send(msg)
	if err != nil {
		return 0, apperr.Wrap(err, apperr.CodeTelegramAPI, "send message")
	}
	return sent.MessageID, nil
}

func (g *gateway) SendMessageWithMarkup(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	sent, err := g.api.Send(msg)
	if err != nil {
		return 0, apperr.Wrap(err, apperr.CodeTelegramAPI, "send message with markup")
	}
	return sent.MessageID, nil
}

func (g *gateway) EditMessageText(chatID int64, messageID int, text string) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if _, err := g.api.Send(edit); err != nil {
		return apperr.Wrap(err, apperr.CodeTelegramAPI, "edit message")
	}
	return nil
}

func (g *gateway) DeleteMessage(chatID int64, messageID int) error {
	del := tgbotapi.NewDeleteMessage(chatID, messageID)
	if _, err := g.api.Request(del); err != nil {
		return apperr.Wrap(err, apperr.CodeTelegramAPI, "delete message")
	}
	return nil
}

func (g *gateway) SendAudio(chatID int64, filePath, title string) error {
	audio := tgbotapi.NewAudio(chatID, tgbotapi.FilePath(filePath))
	audio.Title = title
	if _, err := g.api.Send(audio); err != nil {
		return apperr.Wrap(err, apperr.CodeTelegramAPI, "send audio")
	}
	return nil
}

func (g *gateway) SendVideo(chatID int64, filePath, caption string) error {
	video := tgbotapi.NewVideo(chatID, tgbotapi.FilePath(filePath))
	video.Caption = caption
	if _, err := g.api.Send(video); err != nil {
		return apperr.Wrap(err, apperr.CodeTelegramAPI, "send video")
	}
	return nil
}

func (g *gateway) AnswerCallback(callbackID, text string) error {
	cb := tgbotapi.NewCallback(callbackID, text)
	if _, err := g.api.Request(cb); err != nil {
		return apperr.Wrap(err, apperr.CodeTelegramAPI, "answer callback")
	}
	return nil
}
