package delivery

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-downloader-bot/internal/common/i18n"
	"media-downloader-bot/internal/features/download"
)

const threshold = 49 * 1024 * 1024

type fakeGateway struct {
	messages []string
	audios   []string
	videos   []string
	edits    []string
	deletes  []int
}

func (g *fakeGateway) SendMessage(chatID int64, text string) (int, error) {
	g.messages = append(g.messages, text)
	return len(g.messages), nil
}

func (g *fakeGateway) SendMessageWithMarkup(chatID int64, text string, _ tgbotapi.InlineKeyboardMarkup) (int, error) {
	g.messages = append(g.messages, text)
	return len(g.messages), nil
}

func (g *fakeGateway) EditMessageText(chatID int64, messageID int, text string) error {
	g.edits = append(g.edits, text)
	return nil
}

func (g *fakeGateway) DeleteMessage(chatID int64, messageID int) error {
	g.deletes = append(g.deletes, messageID)
	return nil
}

func (g *fakeGateway) SendAudio(chatID int64, filePath, title string) error {
	g.audios = append(g.audios, filePath)
	return nil
}

func (g *fakeGateway) SendVideo(chatID int64, filePath, caption string) error {
	g.videos = append(g.videos, filePath)
	return nil
}

func (g *fakeGateway) AnswerCallback(callbackID, text string) error { return nil }

type fakeStore struct {
	url   string
	err   error
	calls int
}

func (s *fakeStore) Upload(ctx context.Context, filePath, key string) (string, error) {
	s.calls++
	return s.url, s.err
}

type fakeFallback struct {
	url   string
	err   error
	calls int
}

func (f *fakeFallback) Upload(ctx context.Context, filePath string) (string, error) {
	f.calls++
	return f.url, f.err
}

func request(size int64, format download.Format) Request {
	return Request{
		UserID:          10,
		Locale:          i18n.LocaleEn,
		FilePath:        "/tmp/file.mp4",
		Size:            size,
		Title:           "clip",
		Format:          format,
		StatusMessageID: 77,
	}
}

func TestSmallFileGoesInlineOnly(t *testing.T) {
	gw := &fakeGateway{}
	store := &fakeStore{url: "https://s3/x"}
	fallback := &fakeFallback{url: "https://transfer/x"}
	r := NewResolver(gw, store, fallback, threshold)

	err := r.Deliver(context.Background(), request(10*1024*1024, download.FormatVideo))
	require.NoError(t, err)

	assert.Len(t, gw.videos, 1)
	assert.Empty(t, gw.audios)
	assert.Zero(t, store.calls, "inline path must not touch object storage")
	assert.Zero(t, fallback.calls)
	assert.Equal(t, []int{77}, gw.deletes, "prompt message removed on success")
}

func TestThresholdBoundaryIsInline(t *testing.T) {
	gw := &fakeGateway{}
	store := &fakeStore{}
	r := NewResolver(gw, store, &fakeFallback{}, threshold)

	require.NoError(t, r.Deliver(context.Background(), request(threshold, download.FormatVideo)))
	assert.Len(t, gw.videos, 1)
	assert.Zero(t, store.calls)
}

func TestAudioFormatSendsAudio(t *testing.T) {
	gw := &fakeGateway{}
	r := NewResolver(gw, nil, &fakeFallback{}, threshold)

	require.NoError(t, r.Deliver(context.Background(), request(1024, download.FormatAudio)))
	assert.Len(t, gw.audios, 1)
	assert.Empty(t, gw.videos)
}

func TestLargeFileUsesStorageLink(t *testing.T) {
	gw := &fakeGateway{}
	store := &fakeStore{url: "https://s3.example/presigned"}
	fallback := &fakeFallback{url: "https://transfer.example/f"}
	r := NewResolver(gw, store, fallback, threshold)

	err := r.Deliver(context.Background(), request(200*1024*1024, download.FormatVideo))
	require.NoError(t, err)

	assert.Empty(t, gw.videos, "oversized file must never be sent inline")
	assert.Empty(t, gw.audios)
	assert.Equal(t, 1, store.calls)
	assert.Zero(t, fallback.calls, "fallback untouched when storage succeeds")
	require.Len(t, gw.messages, 1)
	assert.Contains(t, gw.messages[0], "https://s3.example/presigned")
}

func TestStorageFailureFallsBack(t *testing.T) {
	gw := &fakeGateway{}
	store := &fakeStore{err: errors.New("bucket gone")}
	fallback := &fakeFallback{url: "https://transfer.example/f"}
	r := NewResolver(gw, store, fallback, threshold)

	err := r.Deliver(context.Background(), request(200*1024*1024, download.FormatVideo))
	require.NoError(t, err)

	assert.Equal(t, 1, store.calls)
	assert.Equal(t, 1, fallback.calls)
	require.Len(t, gw.messages, 1)
	assert.Contains(t, gw.messages[0], "https://transfer.example/f")
}

func TestNoStorageConfiguredUsesFallback(t *testing.T) {
	gw := &fakeGateway{}
	fallback := &fakeFallback{url: "https://transfer.example/f"}
	r := NewResolver(gw, nil, fallback, threshold)

	require.NoError(t, r.Deliver(context.Background(), request(200*1024*1024, download.FormatAudio)))
	assert.Equal(t, 1, fallback.calls)
}

func TestBothUploadPathsFailing(t *testing.T) {
	gw := &fakeGateway{}
	store := &fakeStore{err: errors.New("down")}
	fallback := &fakeFallback{err: errors.New("also down")}
	r := NewResolver(gw, store, fallback, threshold)

	err := r.Deliver(context.Background(), request(200*1024*1024, download.FormatVideo))
	assert.Error(t, err)

	// Each collaborator called at most once, no retries.
	assert.Equal(t, 1, store.calls)
	assert.Equal(t, 1, fallback.calls)
	require.Len(t, gw.messages, 1)
	assert.Equal(t, i18n.T(i18n.KeyUploadFailed, i18n.LocaleEn), gw.messages[0])
}
