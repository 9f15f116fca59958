package bot

import (
	"context"
	"net/url"
	"os"
	"sync"
	"time"

	"media-downloader-bot/internal/common/i18n"
	"media-downloader-bot/internal/common/logger"
	"media-downloader-bot/internal/features/admin"
	"media-downloader-bot/internal/features/delivery"
	"media-downloader-bot/internal/features/download"
	userservice "media-downloader-bot/internal/features/user/service"
	"media-downloader-bot/internal/platform/telegram"
)

// Controller drives the per-user conversation: language choice, link
// submission, format choice, fetch and delivery. The conversation is
// perpetual; after every completed or failed delivery it returns to awaiting
// the next link.
type Controller struct {
	gw           telegram.Gateway
	users        *userservice.Service
	admins       *admin.Service
	fetcher      download.Fetcher
	resolver     *delivery.Resolver
	fetchTimeout time.Duration

	mu       sync.Mutex
	inflight map[int64]*task
	tasks    sync.WaitGroup
}

// task identifies one in-flight fetch/deliver run so a finished task only
// clears its own registration, never a newer one.
type task struct {
	cancel context.CancelFunc
}

func NewController(
	gw telegram.Gateway,
	users *userservice.Service,
	admins *admin.Service,
	fetcher download.Fetcher,
	resolver *delivery.Resolver,
	fetchTimeout time.Duration,
) *Controller {
	return &Controller{
		gw:           gw,
		users:        users,
		admins:       admins,
		fetcher:      fetcher,
		resolver:     resolver,
		fetchTimeout: fetchTimeout,
		inflight:     make(map[int64]*task),
	}
}

// WaitIdle blocks until all in-flight fetch/deliver tasks finish. Used on
// shutdown and by tests.
func (c *Controller) WaitIdle() {
	c.tasks.Wait()
}

// OnStart registers the user and prompts for a language in their current (or
// default) locale.
func (c *Controller) OnStart(ctx context.Context, userID int64, firstName string) {
	if _, err := c.users.GetOrCreate(ctx, userID, firstName); err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("failed to register user")
	}

	locale := c.users.Language(ctx, userID)
	if _, err := c.gw.SendMessageWithMarkup(userID, i18n.T(i18n.KeyStart, locale), languageKeyboard()); err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("failed to send start prompt")
	}
}

// OnLanguageSelected validates and persists the locale choice. Unsupported
// codes are ignored: the callback is answered, the record stays unchanged.
func (c *Controller) OnLanguageSelected(ctx context.Context, userID int64, callbackID, code string) {
	if err := c.users.SetLanguage(ctx, userID, code); err != nil {
		c.answerCallback(callbackID, "")
		return
	}

	c.answerCallback(callbackID, "OK")

	locale := i18n.Locale(code)
	if _, err := c.gw.SendMessageWithMarkup(userID, i18n.T(i18n.KeyStart, locale), formatKeyboard()); err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("failed to send format prompt")
	}
}

// OnChangeLanguage re-opens the language keyboard.
func (c *Controller) OnChangeLanguage(ctx context.Context, userID int64, callbackID string) {
	locale := c.users.Language(ctx, userID)
	c.answerCallback(callbackID, "")
	if _, err := c.gw.SendMessageWithMarkup(userID, i18n.T(i18n.KeyChooseLanguage, locale), languageKeyboard()); err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("failed to send language prompt")
	}
}

// OnTextMessage handles plain text: a well-formed absolute URL becomes the
// pending link and prompts for a format, anything else gets the
// "send a valid link" notice.
func (c *Controller) OnTextMessage(ctx context.Context, userID int64, firstName, text string) {
	locale := c.users.Language(ctx, userID)

	if !isHTTPURL(text) {
		if _, err := c.gw.SendMessage(userID, i18n.T(i18n.KeyNoLink, locale)); err != nil {
			logger.Error().Err(err).Int64("user_id", userID).Msg("failed to send invalid-link notice")
		}
		return
	}

	// A new submission supersedes whatever is still fetching.
	c.cancelInflight(userID)

	if err := c.users.SetPendingLink(ctx, userID, firstName, text); err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("failed to store pending link")
	}

	if _, err := c.gw.SendMessageWithMarkup(userID, i18n.T(i18n.KeyChooseFormat, locale), formatKeyboard()); err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("failed to send format prompt")
	}
}

// OnFormatChosen snapshots the pending link and dispatches the fetch/deliver
// task. Without a pending link this is a user error: answer the callback and
// invoke no collaborator.
func (c *Controller) OnFormatChosen(ctx context.Context, userID int64, callbackID string, messageID int, format download.Format) {
	locale := c.users.Language(ctx, userID)

	link, ok := c.users.PendingLink(ctx, userID)
	if !ok {
		c.answerCallback(callbackID, i18n.T(i18n.KeySendLinkFirst, locale))
		return
	}

	c.answerCallback(callbackID, "")

	if err := c.gw.EditMessageText(userID, messageID, i18n.T(i18n.KeyDownloading, locale)); err != nil {
		logger.Debug().Err(err).Int64("user_id", userID).Msg("failed to edit prompt to downloading")
	}

	// Choosing a format again replaces the previous task for this user.
	c.cancelInflight(userID)

	taskCtx, cancel := context.WithTimeout(context.Background(), c.fetchTimeout)
	t := &task{cancel: cancel}
	c.mu.Lock()
	c.inflight[userID] = t
	c.mu.Unlock()

	c.tasks.Add(1)
	go c.fetchAndDeliver(taskCtx, t, userID, locale, link, format, messageID)
}

// fetchAndDeliver runs one link-to-file round trip. The workspace directory
// is removed with its contents on every exit path.
func (c *Controller) fetchAndDeliver(ctx context.Context, t *task, userID int64, locale i18n.Locale, link string, format download.Format, messageID int) {
	defer c.tasks.Done()
	defer c.clearInflight(userID, t)
	defer t.cancel()

	workDir, err := os.MkdirTemp("", "dl_")
	if err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("failed to create workspace")
		c.editError(userID, messageID, locale, "internal error")
		return
	}
	defer os.RemoveAll(workDir)

	filePath, meta, err := c.fetcher.Fetch(ctx, link, format, workDir)
	if err != nil {
		if ctx.Err() != nil {
			// Canceled by a newer submission or shutdown; stay quiet.
			logger.Debug().Int64("user_id", userID).Msg("fetch canceled")
			return
		}
		logger.Warn().Err(err).Int64("user_id", userID).Str("link", link).Msg("extraction failed")
		c.editError(userID, messageID, locale, err.Error())
		return
	}

	info, err := os.Stat(filePath)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("fetched file vanished")
		c.editError(userID, messageID, locale, "download produced no file")
		return
	}

	req := delivery.Request{
		UserID:          userID,
		Locale:          locale,
		FilePath:        filePath,
		Size:            info.Size(),
		Title:           meta.Title,
		Format:          format,
		StatusMessageID: messageID,
	}
	if err := c.resolver.Deliver(ctx, req); err != nil {
		logger.Warn().Err(err).Int64("user_id", userID).Msg("delivery failed")
	}
}

func (c *Controller) cancelInflight(userID int64) {
	c.mu.Lock()
	t, ok := c.inflight[userID]
	if ok {
		delete(c.inflight, userID)
	}
	c.mu.Unlock()
	if ok {
		t.cancel()
	}
}

func (c *Controller) clearInflight(userID int64, t *task) {
	c.mu.Lock()
	// Only clear our own entry; a newer task may have replaced it.
	if current, ok := c.inflight[userID]; ok && current == t {
		delete(c.inflight, userID)
	}
	c.mu.Unlock()
}

func (c *Controller) editError(userID int64, messageID int, locale i18n.Locale, reason string) {
	if err := c.gw.EditMessageText(userID, messageID, i18n.Tf(i18n.KeyError, locale, reason)); err != nil {
		logger.Debug().Err(err).Int64("user_id", userID).Msg("failed to edit error message")
	}
}

func (c *Controller) answerCallback(callbackID, text string) {
	if callbackID == "" {
		return
	}
	if err := c.gw.AnswerCallback(callbackID, text); err != nil {
		logger.Debug().Err(err).Msg("failed to answer callback")
	}
}

// isHTTPURL accepts only well-formed absolute http(s) URLs.
func isHTTPURL(text string) bool {
	u, err := url.Parse(text)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
