package audio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// DefaultMaxAssetBytes bounds a downloaded asset.
const DefaultMaxAssetBytes = 256 << 20

// Loader resolves an asset source (http(s) URL, file:// URL or local path)
// to a local audio file.
type Loader struct {
	client   *http.Client
	cacheDir string
	maxBytes int64
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithHTTPClient sets the client used for remote assets.
func WithHTTPClient(c *http.Client) LoaderOption {
	return func(l *Loader) {
		if c != nil {
			l.client = c
		}
	}
}

// WithCacheDir sets where remote assets are stored.
func WithCacheDir(dir string) LoaderOption {
	return func(l *Loader) {
		if dir != "" {
			l.cacheDir = dir
		}
	}
}

// WithMaxBytes bounds the size of a remote asset.
func WithMaxBytes(n int64) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.maxBytes = n
		}
	}
}

// NewLoader creates an asset loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		client:   &http.Client{Timeout: 2 * time.Minute},
		cacheDir: filepath.Join(os.TempDir(), "sensetype-audio"),
		maxBytes: DefaultMaxAssetBytes,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Fetch resolves src to a local audio asset.
func (l *Loader) Fetch(ctx context.Context, src string) (Asset, error) {
	u, err := url.Parse(src)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return l.download(ctx, src)
	}

	path := src
	if err == nil && u.Scheme == "file" {
		path = u.Path
	}
	return l.local(src, path)
}

func (l *Loader) local(src, path string) (Asset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Asset{}, fmt.Errorf("audio asset %s: %w", src, err)
	}
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return Asset{}, fmt.Errorf("sniff %s: %w", path, err)
	}
	if !isAudio(mt) {
		return Asset{}, fmt.Errorf("%w: %s is %s", ErrNotAudio, src, mt.String())
	}
	return Asset{Source: src, Path: path, MIME: mt.String(), Size: info.Size()}, nil
}

func (l *Loader) download(ctx context.Context, src string) (Asset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return Asset{}, fmt.Errorf("audio request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return Asset{}, fmt.Errorf("fetch %s: %w", src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Asset{}, fmt.Errorf("fetch %s: status %s", src, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes+1))
	if err != nil {
		return Asset{}, fmt.Errorf("read %s: %w", src, err)
	}
	if int64(len(data)) > l.maxBytes {
		return Asset{}, fmt.Errorf("fetch %s: asset exceeds %d bytes", src, l.maxBytes)
	}

	mt := mimetype.Detect(data)
	if !isAudio(mt) {
		return Asset{}, fmt.Errorf("%w: %s is %s", ErrNotAudio, src, mt.String())
	}

	if err := os.MkdirAll(l.cacheDir, 0o755); err != nil {
		return Asset{}, fmt.Errorf("audio cache: %w", err)
	}
	name := uuid.NewSHA1(uuid.NameSpaceURL, []byte(src)).String() + mt.Extension()
	path := filepath.Join(l.cacheDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Asset{}, fmt.Errorf("audio cache: %w", err)
	}
	return Asset{Source: src, Path: path, MIME: mt.String(), Size: int64(len(data))}, nil
}

// isAudio accepts audio/* types and containers commonly used for speech.
func isAudio(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		s := m.String()
		if strings.HasPrefix(s, "audio/") || s == "video/webm" || s == "application/ogg" {
			return true
		}
	}
	return false
}
