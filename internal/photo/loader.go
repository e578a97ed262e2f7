package photo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/thuso-software/veriface/internal/domain"
)

const maxPhotoBytes = 10 * 1024 * 1024

// Loader resolves a profile's photo reference to raw image bytes. A
// reference is either an http(s) URL or a path relative to the configured
// base directory.
type Loader struct {
	baseDir string
	client  *http.Client
}

func NewLoader(baseDir string) *Loader {
	return &Loader{
		baseDir: baseDir,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (l *Loader) Load(ctx context.Context, ref string) ([]byte, error) {
	if ref == "" {
		return nil, domain.ErrImageLoadFailure.WithError(fmt.Errorf("empty photo reference"))
	}

	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return l.fetch(ctx, ref)
	}
	return l.readFile(ref)
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, domain.ErrImageLoadFailure.WithError(err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, domain.ErrImageLoadFailure.WithError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.ErrImageLoadFailure.WithError(fmt.Errorf("photo fetch returned status %d", resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes+1))
	if err != nil {
		return nil, domain.ErrImageLoadFailure.WithError(err)
	}
	if len(data) > maxPhotoBytes {
		return nil, domain.ErrImageLoadFailure.WithError(fmt.Errorf("photo exceeds %d bytes", maxPhotoBytes))
	}
	return data, nil
}

// resolve confines a file reference to the base directory. Photo
// references come from imported profile rows, so a path with traversal
// segments or an absolute path outside the base must never reach the
// filesystem.
func (l *Loader) resolve(ref string) (string, error) {
	base, err := filepath.Abs(l.baseDir)
	if err != nil {
		return "", domain.ErrImageLoadFailure.WithError(err)
	}

	path := ref
	if !filepath.IsAbs(path) {
		path = filepath.Join(base, ref)
	}
	path = filepath.Clean(path)

	if path != base && !strings.HasPrefix(path, base+string(filepath.Separator)) {
		return "", domain.ErrImageLoadFailure.WithError(fmt.Errorf("photo reference %q escapes base directory", ref))
	}
	return path, nil
}

func (l *Loader) readFile(ref string) ([]byte, error) {
	path, err := l.resolve(ref)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.ErrImageLoadFailure.WithError(err)
	}
	if len(data) > maxPhotoBytes {
		return nil, domain.ErrImageLoadFailure.WithError(fmt.Errorf("photo exceeds %d bytes", maxPhotoBytes))
	}
	return data, nil
}
