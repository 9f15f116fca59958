package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback payloads. The lang_ prefix carries the locale code; the format
// values match the original button ids.
const (
	callbackLangPrefix  = "lang_"
	callbackFormatVideo = "format_mp4"
	callbackFormatAudio = "format_mp3"
	callbackChangeLang  = "change_lang"

	callbackAdminPrefix    = "adm_"
	callbackAdminStats     = "adm_stats"
	callbackAdminUsers     = "adm_users"
	callbackAdminBroadcast = "adm_broadcast"
	callbackAdminBan       = "adm_ban"
)

func languageKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🇺🇿 O‘zbek", callbackLangPrefix+"uz"),
			tgbotapi.NewInlineKeyboardButtonData("🇷🇺 Русский", callbackLangPrefix+"ru"),
			tgbotapi.NewInlineKeyboardButtonData("🇬🇧 English", callbackLangPrefix+"en"),
		),
	)
}

func formatKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📹 MP4", callbackFormatVideo),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎵 MP3", callbackFormatAudio),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🌐 Tilni o'zgartirish", callbackChangeLang),
		),
	)
}

func adminKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Statistika", callbackAdminStats),
			tgbotapi.NewInlineKeyboardButtonData("👥 Foydalanuvchilar", callbackAdminUsers),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📢 Mass-xabar", callbackAdminBroadcast),
			tgbotapi.NewInlineKeyboardButtonData("🚫 Ban/Unban", callbackAdminBan),
		),
	)
}
