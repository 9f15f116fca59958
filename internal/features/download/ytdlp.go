package download

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"media-downloader-bot/internal/common/apperr"
	"media-downloader-bot/internal/common/logger"
)

// YTDLPFetcher shells out to yt-dlp. Audio mode extracts mp3 at 192k, video
// mode merges best video+audio into mp4.
type YTDLPFetcher struct {
	binary string
}

func NewYTDLPFetcher() *YTDLPFetcher {
	return &YTDLPFetcher{binary: "yt-dlp"}
}

// CheckBinary verifies yt-dlp is installed; called once at startup.
func (f *YTDLPFetcher) CheckBinary() error {
	if _, err := exec.LookPath(f.binary); err != nil {
		return fmt.Errorf("%s not found in PATH: %w", f.binary, err)
	}
	return nil
}

func (f *YTDLPFetcher) args(url string, format Format, workDir string) []string {
	args := []string{
		"--no-playlist",
		"--quiet",
		"--no-warnings",
		"--no-cache-dir",
		"--print-json",
		"-o", filepath.Join(workDir, "%(id)s.%(ext)s"),
	}
	if format == FormatAudio {
		args = append(args,
			"-f", "bestaudio/best",
			"-x",
			"--audio-format", "mp3",
			"--audio-quality", "192K",
		)
	} else {
		args = append(args,
			"-f", "bestvideo+bestaudio/best",
			"--merge-output-format", "mp4",
		)
	}
	return append(args, url)
}

func (f *YTDLPFetcher) Fetch(ctx context.Context, url string, format Format, workDir string) (string, Metadata, error) {
	cmd := exec.CommandContext(ctx, f.binary, f.args(url, format, workDir)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug().Str("url", url).Str("format", string(format)).Msg("invoking yt-dlp")

	if err := cmd.Run(); err != nil {
		reason := strings.TrimSpace(stderr.String())
		if reason == "" {
			reason = err.Error()
		}
		return "", Metadata{}, apperr.Wrap(fmt.Errorf("%s", reason), apperr.CodeExtraction, "yt-dlp failed")
	}

	meta := parseInfo(stdout.Bytes())

	path, err := locateFile(workDir, meta, format)
	if err != nil {
		return "", Metadata{}, apperr.Wrap(err, apperr.CodeExtraction, "no output file")
	}
	if meta.Title == "" {
		meta.Title = filepath.Base(path)
	}
	return path, meta, nil
}

// parseInfo extracts id/title/ext from the --print-json line. yt-dlp prints
// one JSON object per downloaded entry; with --no-playlist there is one.
func parseInfo(out []byte) Metadata {
	var meta Metadata
	for _, line := range bytes.Split(out, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] != '{' {
			continue
		}
		var info struct {
			ID    string `json:"id"`
			Title string `json:"title"`
			Ext   string `json:"ext"`
		}
		if err := json.Unmarshal(line, &info); err != nil {
			continue
		}
		meta = Metadata{ID: info.ID, Title: info.Title, Ext: info.Ext}
	}
	return meta
}

// locateFile resolves the downloaded file: the info-dict ext first (audio
// postprocessing rewrites it to mp3), then a directory scan as a fallback.
func locateFile(workDir string, meta Metadata, format Format) (string, error) {
	if meta.ID != "" {
		exts := []string{meta.Ext}
		if format == FormatAudio {
			exts = append([]string{"mp3"}, exts...)
		} else {
			exts = append(exts, "mp4")
		}
		for _, ext := range exts {
			if ext == "" {
				continue
			}
			candidate := filepath.Join(workDir, meta.ID+"."+ext)
			if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
				return candidate, nil
			}
		}
	}

	entries, err := os.ReadDir(workDir)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			return filepath.Join(workDir, entry.Name()), nil
		}
	}
	return "", fmt.Errorf("workspace %s is empty", workDir)
}
