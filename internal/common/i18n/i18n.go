// Package i18n holds the bot's static display strings in the three supported
// locales. Lookup is a plain table access; anything smarter belongs to the
// caller.
package i18n

import "fmt"

// Locale is a supported language code.
type Locale string

const (
	LocaleUz Locale = "uz"
	LocaleRu Locale = "ru"
	LocaleEn Locale = "en"

	Default = LocaleUz
)

// Supported reports whether code is one of the three supported locales.
func Supported(code string) bool {
	switch Locale(code) {
	case LocaleUz, LocaleRu, LocaleEn:
		return true
	}
	return false
}

const (
	KeyStart          = "start"
	KeyChooseFormat   = "choose_format"
	KeyChooseLanguage = "choose_language"
	KeyDownloading    = "downloading"
	KeyNoLink         = "no_link"
	KeySendLinkFirst  = "send_link_first"
	KeyFileTooBig     = "file_too_big"
	KeyDownloadLink   = "download_link"
	KeyUploadFailed   = "upload_failed"
	KeyError          = "error"
	KeyNotAdmin       = "not_admin"
	KeyAdminPanel     = "admin_panel"
	KeyStats          = "stats"
	KeyBroadcastHint  = "broadcast_hint"
	KeyBanHint        = "ban_hint"
	KeyBroadcastDone  = "broadcast_done"
	KeyNoUsers        = "no_users"
)

var table = map[string]map[Locale]string{
	KeyStart: {
		LocaleUz: "👋 Assalomu alaykum!\nLink yuboring (YouTube/Instagram/TikTok...).\nTilni tanlang ↙️",
		LocaleRu: "👋 Привет!\nОтправьте ссылку (YouTube/Instagram/TikTok...).\nВыберите язык ↙️",
		LocaleEn: "👋 Hi!\nSend a link (YouTube/Instagram/TikTok...).\nChoose language ↙️",
	},
	KeyChooseFormat: {
		LocaleUz: "Link qabul qilindi ✅\nQaysi formatni xohlaysiz?",
		LocaleRu: "Ссылка принята ✅\nКакой формат предпочитаете?",
		LocaleEn: "Link received ✅\nWhich format do you want?",
	},
	KeyChooseLanguage: {
		LocaleUz: "Tilni tanlang:",
		LocaleRu: "Выберите язык:",
		LocaleEn: "Choose a language:",
	},
	KeyDownloading: {
		LocaleUz: "⏳ Yuklanmoqda — biroz kuting...",
		LocaleRu: "⏳ Загружаю — подождите...",
		LocaleEn: "⏳ Downloading — please wait...",
	},
	KeyNoLink: {
		LocaleUz: "Iltimos to‘liq link yuboring (https://...).",
		LocaleRu: "Пожалуйста, отправьте ссылку (https://...).",
		LocaleEn: "Please send a full link (https://...).",
	},
	KeySendLinkFirst: {
		LocaleUz: "Avval link yuboring.",
		LocaleRu: "Сначала отправьте ссылку.",
		LocaleEn: "Send a link first.",
	},
	KeyFileTooBig: {
		LocaleUz: "📤 Fayl juda katta — yuklash amalga oshirilmoqda...",
		LocaleRu: "📤 Файл слишком большой — загружаю на сервер...",
		LocaleEn: "📤 File is too big — uploading to storage...",
	},
	KeyDownloadLink: {
		LocaleUz: "🔗 Yuklab olish havolasi:\n%s",
		LocaleRu: "🔗 Ссылка для скачивания:\n%s",
		LocaleEn: "🔗 Download link:\n%s",
	},
	KeyUploadFailed: {
		LocaleUz: "❌ Xatolik: yuklab bo‘lmadi",
		LocaleRu: "❌ Ошибка: не удалось загрузить файл",
		LocaleEn: "❌ Error: upload failed",
	},
	KeyError: {
		LocaleUz: "❌ Xatolik: %s",
		LocaleRu: "❌ Ошибка: %s",
		LocaleEn: "❌ Error: %s",
	},
	KeyNotAdmin: {
		LocaleUz: "Siz admin emassiz.",
		LocaleRu: "Вы не админ.",
		LocaleEn: "You are not an admin.",
	},
	KeyAdminPanel: {
		LocaleUz: "Admin panel:",
		LocaleRu: "Админ-панель:",
		LocaleEn: "Admin panel:",
	},
	KeyStats: {
		LocaleUz: "Foydalanuvchilar: %d\nBanned: %d",
		LocaleRu: "Пользователи: %d\nЗабанено: %d",
		LocaleEn: "Users: %d\nBanned: %d",
	},
	KeyBroadcastHint: {
		LocaleUz: "Mass-xabar yuborish: /broadcast Xabar matni",
		LocaleRu: "Рассылка: /broadcast Текст сообщения",
		LocaleEn: "Broadcast: /broadcast Your message",
	},
	KeyBanHint: {
		LocaleUz: "Ban qo‘yish: /ban <user_id> va /unban <user_id>",
		LocaleRu: "Бан: /ban <user_id> и /unban <user_id>",
		LocaleEn: "Ban: /ban <user_id> and /unban <user_id>",
	},
	KeyBroadcastDone: {
		LocaleUz: "%d foydalanuvchiga yuborildi.",
		LocaleRu: "Отправлено %d пользователям.",
		LocaleEn: "Sent to %d users.",
	},
	KeyNoUsers: {
		LocaleUz: "Hech kim yo‘q",
		LocaleRu: "Никого нет",
		LocaleEn: "Nobody here",
	},
}

// T returns the string for key in the given locale, falling back to the
// default locale and then to a placeholder.
func T(key string, locale Locale) string {
	byLocale, ok := table[key]
	if !ok {
		return "..."
	}
	if s, ok := byLocale[locale]; ok {
		return s
	}
	if s, ok := byLocale[Default]; ok {
		return s
	}
	return "..."
}

// Tf is T with fmt parameters applied.
func Tf(key string, locale Locale, args ...interface{}) string {
	return fmt.Sprintf(T(key, locale), args...)
}
