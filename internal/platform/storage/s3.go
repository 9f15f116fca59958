// Package storage is the object-storage collaborator: uploads go to any
// S3-compatible endpoint (AWS, Cloudflare R2, MinIO) and come back as
// time-limited retrieval URLs.
package storage

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"media-downloader-bot/internal/common/config"
)

// Retrieval links stay valid for 7 days.
const presignExpiry = 7 * 24 * time.Hour

type Client struct {
	mc     *minio.Client
	bucket string
}

// NewClient builds an S3 client from config. Callers are expected to have
// checked cfg.S3Configured() first.
func NewClient(cfg *config.Config) (*Client, error) {
	endpoint := cfg.S3.Endpoint
	secure := true
	if strings.HasPrefix(endpoint, "http://") {
		endpoint = strings.TrimPrefix(endpoint, "http://")
		secure = false
	} else {
		endpoint = strings.TrimPrefix(endpoint, "https://")
	}

	mc, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3.AccessKey, cfg.S3.SecretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, err
	}

	return &Client{mc: mc, bucket: cfg.S3.Bucket}, nil
}

// Upload stores the file under key and returns a presigned retrieval URL.
func (c *Client) Upload(ctx context.Context, filePath, key string) (string, error) {
	if _, err := c.mc.FPutObject(ctx, c.bucket, key, filePath, minio.PutObjectOptions{}); err != nil {
		return "", err
	}

	presigned, err := c.mc.PresignedGetObject(ctx, c.bucket, key, presignExpiry, url.Values{})
	if err != nil {
		return "", err
	}
	return presigned.String(), nil
}
