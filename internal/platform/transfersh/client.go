// Package transfersh uploads files to a transfer.sh-style public sharing
// service, the last-resort delivery path when object storage is absent or
// failing.
package transfersh

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const defaultBaseURL = "https://transfer.sh"

type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			// The upload gets one bounded attempt.
			Timeout: 300 * time.Second,
		},
		baseURL: defaultBaseURL,
	}
}

// Upload PUTs the file and returns the public URL the service responds with.
func (c *Client) Upload(ctx context.Context, filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	target := fmt.Sprintf("%s/%s", c.baseURL, filepath.Base(filePath))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, f)
	if err != nil {
		return "", err
	}
	if info, err := f.Stat(); err == nil {
		req.ContentLength = info.Size()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("upload rejected: status %d", resp.StatusCode)
	}

	return strings.TrimSpace(string(body)), nil
}
