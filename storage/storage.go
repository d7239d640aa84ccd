// Package storage persists uploaded attachments and returns their public URL.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/jayeshjain4/StatusGo/config"
)

var (
	ErrUnsupportedType = errors.New("only image and video files are allowed")
	ErrFileTooLarge    = errors.New("file size exceeds maximum allowed")
	ErrEmptyFile       = errors.New("file is empty")
)

// sniffLen is how much of the body is read to detect its type.
const sniffLen = 3072

// Object is an upload as received from the client.
type Object struct {
	Name string
	Size int64
	Body io.Reader
}

// Uploader stores objects under a folder and returns the URL they are served from.
type Uploader interface {
	Upload(ctx context.Context, folder string, obj Object) (string, error)
}

// New builds the uploader selected by cfg.Driver.
func New(ctx context.Context, cfg config.UploadSection) (Uploader, error) {
	maxBytes := int64(cfg.MaxSizeMB) * 1024 * 1024
	switch cfg.Driver {
	case "", "local":
		return NewLocal(cfg.Dir, cfg.PublicBaseURL, maxBytes), nil
	case "s3":
		return NewS3(ctx, S3Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			UsePathStyle:  cfg.S3UsePathStyle,
			PublicBaseURL: cfg.PublicBaseURL,
			MaxBytes:      maxBytes,
		})
	default:
		return nil, fmt.Errorf("unknown upload driver %q", cfg.Driver)
	}
}

// Inspected is an object whose size and content type passed validation.
// Body replays the sniffed prefix before the rest of the stream.
type Inspected struct {
	ContentType string
	Extension   string
	Body        io.Reader
}

// Inspect enforces the size limit and sniffs the content type from the first bytes.
// The declared file name is never trusted for the type.
func Inspect(obj Object, maxBytes int64) (Inspected, error) {
	if obj.Size <= 0 || obj.Body == nil {
		return Inspected{}, ErrEmptyFile
	}
	if maxBytes > 0 && obj.Size > maxBytes {
		return Inspected{}, ErrFileTooLarge
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(obj.Body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Inspected{}, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return Inspected{}, ErrEmptyFile
	}

	mt := mimetype.Detect(head)
	contentType := mt.String()
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	if !strings.HasPrefix(contentType, "image/") && !strings.HasPrefix(contentType, "video/") {
		return Inspected{}, ErrUnsupportedType
	}

	return Inspected{
		ContentType: contentType,
		Extension:   mt.Extension(),
		Body:        io.MultiReader(bytes.NewReader(head), obj.Body),
	}, nil
}

// ObjectKey returns folder/<uuid><ext>.
func ObjectKey(folder, ext string) string {
	folder = strings.Trim(path.Clean("/"+folder), "/")
	name := uuid.NewString() + ext
	if folder == "" {
		return name
	}
	return folder + "/" + name
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
