// Package delivery decides how a fetched file reaches the user: inline if it
// fits the platform limit, otherwise as an object-storage link, otherwise as
// a public upload link.
package delivery

import (
	"context"
	"path/filepath"

	"github.com/google/uuid"

	"media-downloader-bot/internal/common/apperr"
	"media-downloader-bot/internal/common/i18n"
	"media-downloader-bot/internal/common/logger"
	"media-downloader-bot/internal/features/download"
	"media-downloader-bot/internal/platform/telegram"
)

// ObjectStore uploads a file under a key and returns a time-limited
// retrieval URL.
type ObjectStore interface {
	Upload(ctx context.Context, filePath, key string) (string, error)
}

// FallbackUploader uploads a file to a public sharing service.
type FallbackUploader interface {
	Upload(ctx context.Context, filePath string) (string, error)
}

// Request carries everything the resolver needs for one delivery attempt.
type Request struct {
	UserID   int64
	Locale   i18n.Locale
	FilePath string
	Size     int64
	Title    string
	Format   download.Format

	// StatusMessageID is the in-flight status message, edited during upload
	// and deleted once delivery succeeds.
	StatusMessageID int
}

// Resolver implements the delivery ladder. Each collaborator is called at
// most once per attempt; there are no retries.
type Resolver struct {
	gw        telegram.Gateway
	store     ObjectStore // nil when object storage is unconfigured
	fallback  FallbackUploader
	threshold int64
}

func NewResolver(gw telegram.Gateway, store ObjectStore, fallback FallbackUploader, threshold int64) *Resolver {
	return &Resolver{
		gw:        gw,
		store:     store,
		fallback:  fallback,
		threshold: threshold,
	}
}

// Deliver sends the file or a link to it. User-facing messaging happens here
// on every path; the returned error exists for logging and tests.
func (r *Resolver) Deliver(ctx context.Context, req Request) error {
	if req.Size <= r.threshold {
		return r.deliverInline(req)
	}
	return r.deliverByLink(ctx, req)
}

func (r *Resolver) deliverInline(req Request) error {
	var err error
	if req.Format == download.FormatAudio {
		err = r.gw.SendAudio(req.UserID, req.FilePath, req.Title)
	} else {
		err = r.gw.SendVideo(req.UserID, req.FilePath, req.Title)
	}
	if err != nil {
		r.editStatus(req, i18n.Tf(i18n.KeyError, req.Locale, "upload failed"))
		return apperr.Wrap(err, apperr.CodeDelivery, "inline send")
	}

	r.deleteStatus(req)
	return nil
}

func (r *Resolver) deliverByLink(ctx context.Context, req Request) error {
	r.editStatus(req, i18n.T(i18n.KeyFileTooBig, req.Locale))

	var link string
	if r.store != nil {
		key := uuid.NewString() + filepath.Ext(req.FilePath)
		url, err := r.store.Upload(ctx, req.FilePath, key)
		if err != nil {
			logger.Warn().Err(err).Int64("user_id", req.UserID).
				Msg("object storage upload failed, trying fallback")
		} else {
			link = url
		}
	}

	if link == "" && r.fallback != nil {
		url, err := r.fallback.Upload(ctx, req.FilePath)
		if err != nil {
			logger.Warn().Err(err).Int64("user_id", req.UserID).
				Msg("fallback upload failed")
		} else {
			link = url
		}
	}

	if link == "" {
		r.sendText(req, i18n.T(i18n.KeyUploadFailed, req.Locale))
		r.deleteStatus(req)
		return apperr.New(apperr.CodeDelivery, "all upload paths failed")
	}

	r.sendText(req, i18n.Tf(i18n.KeyDownloadLink, req.Locale, link))
	r.deleteStatus(req)
	return nil
}

func (r *Resolver) sendText(req Request, text string) {
	if _, err := r.gw.SendMessage(req.UserID, text); err != nil {
		logger.Error().Err(err).Int64("user_id", req.UserID).Msg("failed to send delivery message")
	}
}

func (r *Resolver) editStatus(req Request, text string) {
	if req.StatusMessageID == 0 {
		return
	}
	if err := r.gw.EditMessageText(req.UserID, req.StatusMessageID, text); err != nil {
		logger.Debug().Err(err).Int64("user_id", req.UserID).Msg("failed to edit status message")
	}
}

func (r *Resolver) deleteStatus(req Request) {
	if req.StatusMessageID == 0 {
		return
	}
	if err := r.gw.DeleteMessage(req.UserID, req.StatusMessageID); err != nil {
		logger.Debug().Err(err).Int64("user_id", req.UserID).Msg("failed to delete status message")
	}
}
