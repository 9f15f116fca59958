package download

import "context"

// Format is the user's chosen output mode.
type Format string

const (
	FormatVideo Format = "video"
	FormatAudio Format = "audio"
)

// Metadata describes a fetched media file.
type Metadata struct {
	ID    string
	Title string
	Ext   string
}

// Fetcher turns a source URL into a local file inside workDir. Whether the
// extraction happens through a library, a subprocess, or a hosted API is not
// part of the contract.
type Fetcher interface {
	Fetch(ctx context.Context, url string, format Format, workDir string) (string, Metadata, error)
}
