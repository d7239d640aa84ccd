package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Local writes uploads below a directory served by the HTTP router.
type Local struct {
	dir      string
	baseURL  string
	maxBytes int64
}

// NewLocal creates a Local uploader rooted at dir whose files are served under baseURL.
func NewLocal(dir, baseURL string, maxBytes int64) *Local {
	return &Local{dir: dir, baseURL: baseURL, maxBytes: maxBytes}
}

// Dir returns the root directory.
func (l *Local) Dir() string { return l.dir }

// Upload validates obj and writes it to a fresh uuid-named file.
func (l *Local) Upload(ctx context.Context, folder string, obj Object) (string, error) {
	in, err := Inspect(obj, l.maxBytes)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := ObjectKey(folder, in.Extension)
	dst := filepath.Join(l.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	f, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	body := in.Body
	if l.maxBytes > 0 {
		body = io.LimitReader(body, l.maxBytes+1)
	}
	written, err := io.Copy(f, body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && l.maxBytes > 0 && written > l.maxBytes {
		err = ErrFileTooLarge
	}
	if err != nil {
		_ = os.Remove(dst)
		return "", err
	}
	return joinURL(l.baseURL, key), nil
}
