package bot

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"media-downloader-bot/internal/common/i18n"
	"media-downloader-bot/internal/common/logger"
	"media-downloader-bot/internal/features/download"
)

// HandleUpdate routes one inbound event. Banned users are short-circuited
// before any branch: no inbound event from a banned id produces output.
func (c *Controller) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil && update.Message.From != nil:
		if c.users.IsBanned(ctx, update.Message.From.ID) {
			return
		}
		c.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		if c.users.IsBanned(ctx, update.CallbackQuery.From.ID) {
			return
		}
		c.handleCallback(ctx, update.CallbackQuery)
	}
}

func (c *Controller) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	firstName := msg.From.FirstName

	if msg.IsCommand() {
		switch msg.Command() {
		case "start", "help":
			c.OnStart(ctx, userID, firstName)
		case "admin":
			c.handleAdminMenu(ctx, userID)
		case "broadcast":
			c.handleBroadcast(ctx, userID, msg.CommandArguments())
		case "ban":
			c.handleBan(ctx, userID, msg.CommandArguments(), true)
		case "unban":
			c.handleBan(ctx, userID, msg.CommandArguments(), false)
		default:
			// Unknown commands fall through to the link handler, matching
			// the original catch-all.
			c.OnTextMessage(ctx, userID, firstName, strings.TrimSpace(msg.Text))
		}
		return
	}

	c.OnTextMessage(ctx, userID, firstName, strings.TrimSpace(msg.Text))
}

func (c *Controller) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	userID := cb.From.ID
	data := cb.Data

	messageID := 0
	if cb.Message != nil {
		messageID = cb.Message.MessageID
	}

	switch {
	case strings.HasPrefix(data, callbackLangPrefix):
		c.OnLanguageSelected(ctx, userID, cb.ID, strings.TrimPrefix(data, callbackLangPrefix))
	case data == callbackChangeLang:
		c.OnChangeLanguage(ctx, userID, cb.ID)
	case data == callbackFormatVideo:
		c.OnFormatChosen(ctx, userID, cb.ID, messageID, download.FormatVideo)
	case data == callbackFormatAudio:
		c.OnFormatChosen(ctx, userID, cb.ID, messageID, download.FormatAudio)
	case strings.HasPrefix(data, callbackAdminPrefix):
		c.handleAdminCallback(ctx, userID, cb.ID, data)
	default:
		c.answerCallback(cb.ID, "")
	}
}

func (c *Controller) handleAdminMenu(ctx context.Context, userID int64) {
	locale := c.users.Language(ctx, userID)
	if !c.admins.IsAdmin(userID) {
		c.sendText(userID, i18n.T(i18n.KeyNotAdmin, locale))
		return
	}
	if _, err := c.gw.SendMessageWithMarkup(userID, i18n.T(i18n.KeyAdminPanel, locale), adminKeyboard()); err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("failed to send admin menu")
	}
}

func (c *Controller) handleAdminCallback(ctx context.Context, userID int64, callbackID, data string) {
	locale := c.users.Language(ctx, userID)
	if !c.admins.IsAdmin(userID) {
		c.answerCallback(callbackID, i18n.T(i18n.KeyNotAdmin, locale))
		return
	}
	c.answerCallback(callbackID, "")

	switch data {
	case callbackAdminStats:
		stats, err := c.admins.Stats(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("failed to collect stats")
			return
		}
		c.sendText(userID, i18n.Tf(i18n.KeyStats, locale, stats.Users, stats.Banned))
	case callbackAdminUsers:
		list, err := c.admins.UserList(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("failed to list users")
			return
		}
		if list == "" {
			list = i18n.T(i18n.KeyNoUsers, locale)
		}
		c.sendText(userID, list)
	case callbackAdminBroadcast:
		c.sendText(userID, i18n.T(i18n.KeyBroadcastHint, locale))
	case callbackAdminBan:
		c.sendText(userID, i18n.T(i18n.KeyBanHint, locale))
	}
}

func (c *Controller) handleBroadcast(ctx context.Context, userID int64, args string) {
	locale := c.users.Language(ctx, userID)
	if !c.admins.IsAdmin(userID) {
		c.sendText(userID, i18n.T(i18n.KeyNotAdmin, locale))
		return
	}

	text := strings.TrimSpace(args)
	if text == "" {
		c.sendText(userID, i18n.T(i18n.KeyBroadcastHint, locale))
		return
	}

	sent, err := c.admins.Broadcast(ctx, text)
	if err != nil {
		logger.Error().Err(err).Msg("broadcast failed")
		return
	}
	c.sendText(userID, i18n.Tf(i18n.KeyBroadcastDone, locale, sent))
}

func (c *Controller) handleBan(ctx context.Context, userID int64, args string, ban bool) {
	locale := c.users.Language(ctx, userID)
	if !c.admins.IsAdmin(userID) {
		c.sendText(userID, i18n.T(i18n.KeyNotAdmin, locale))
		return
	}

	target, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil {
		c.sendText(userID, i18n.T(i18n.KeyBanHint, locale))
		return
	}

	if ban {
		err = c.admins.Ban(ctx, target)
	} else {
		err = c.admins.Unban(ctx, target)
	}
	if err != nil {
		logger.Error().Err(err).Int64("target", target).Bool("ban", ban).Msg("ban state change failed")
		return
	}

	if ban {
		c.sendText(userID, "User "+strconv.FormatInt(target, 10)+" banned.")
	} else {
		c.sendText(userID, "User "+strconv.FormatInt(target, 10)+" unbanned.")
	}
}

func (c *Controller) sendText(userID int64, text string) {
	if _, err := c.gw.SendMessage(userID, text); err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("failed to send message")
	}
}
