// Package http exposes the webhook endpoint Telegram pushes updates to,
// plus a health probe.
package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"media-downloader-bot/internal/common/logger"
)

// UpdateHandler consumes one decoded Bot API update.
type UpdateHandler func(ctx context.Context, update tgbotapi.Update)

// NewRouter builds the gin engine. The webhook path embeds the secret
// segment and the bot id, so only Telegram (told the full URL at
// registration) can reach it.
func NewRouter(secretPath, botID string, handle UpdateHandler, debug bool) *gin.Engine {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.POST(WebhookPath(secretPath, botID), func(c *gin.Context) {
		contentType := c.GetHeader("Content-Type")
		if !strings.HasPrefix(contentType, "application/json") {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		var update tgbotapi.Update
		if err := c.ShouldBindJSON(&update); err != nil {
			logger.Warn().Err(err).Msg("malformed webhook update")
			c.Status(http.StatusOK)
			return
		}

		handle(c.Request.Context(), update)
		c.Status(http.StatusOK)
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "media-downloader-bot",
		})
	})

	return router
}

// WebhookPath returns the secret route Telegram will POST to.
func WebhookPath(secretPath, botID string) string {
	return "/" + secretPath + "/" + botID
}
