package download

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgsVideo(t *testing.T) {
	f := NewYTDLPFetcher()
	args := f.args("https://example.com/v", FormatVideo, "/tmp/dl_x")

	assert.Contains(t, args, "--no-playlist")
	assert.Contains(t, args, "--print-json")
	assert.Contains(t, args, "bestvideo+bestaudio/best")
	assert.Contains(t, args, "--merge-output-format")
	assert.NotContains(t, args, "-x")
	assert.Equal(t, "https://example.com/v", args[len(args)-1], "url must come last")

	for i, a := range args {
		if a == "-o" {
			assert.Equal(t, filepath.Join("/tmp/dl_x", "%(id)s.%(ext)s"), args[i+1])
		}
	}
}

func TestArgsAudio(t *testing.T) {
	f := NewYTDLPFetcher()
	args := f.args("https://example.com/v", FormatAudio, "/tmp/dl_x")

	assert.Contains(t, args, "-x")
	assert.Contains(t, args, "bestaudio/best")
	assert.Contains(t, args, "mp3")
	assert.Contains(t, args, "192K")
	assert.NotContains(t, args, "--merge-output-format")
}

func TestParseInfo(t *testing.T) {
	out := []byte("warning: something\n" +
		`{"id": "abc123", "title": "My Clip", "ext": "mp4", "duration": 12}` + "\n")

	meta := parseInfo(out)
	assert.Equal(t, "abc123", meta.ID)
	assert.Equal(t, "My Clip", meta.Title)
	assert.Equal(t, "mp4", meta.Ext)
}

func TestParseInfoNoJSON(t *testing.T) {
	meta := parseInfo([]byte("plain output\nno json here\n"))
	assert.Empty(t, meta.ID)
	assert.Empty(t, meta.Title)
}

func TestLocateFileByInfoDict(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "abc.mp4"), []byte("x"), 0o644))

	path, err := locateFile(dir, Metadata{ID: "abc", Ext: "mp4"}, FormatVideo)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "abc.mp4"), path)
}

func TestLocateFilePrefersMP3ForAudio(t *testing.T) {
	dir := t.TempDir()
	// Postprocessing rewrote the container; the info dict still says webm.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "abc.mp3"), []byte("x"), 0o644))

	path, err := locateFile(dir, Metadata{ID: "abc", Ext: "webm"}, FormatAudio)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "abc.mp3"), path)
}

func TestLocateFileFallsBackToScan(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unexpected-name.mp4"), []byte("x"), 0o644))

	path, err := locateFile(dir, Metadata{ID: "abc", Ext: "mp4"}, FormatVideo)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "unexpected-name.mp4"), path)
}

func TestLocateFileEmptyWorkspace(t *testing.T) {
	_, err := locateFile(t.TempDir(), Metadata{}, FormatVideo)
	assert.Error(t, err)
}
