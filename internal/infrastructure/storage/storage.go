package storage

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

const (
	DriverLocal = "local"
	DriverS3    = "s3"
)

var (
	// ErrNotFound is returned by Open when no object exists under the key.
	ErrNotFound = eris.New("object not found")
	// ErrInvalidKey is returned for empty keys or keys that escape the storage root.
	ErrInvalidKey = eris.New("invalid object key")
)

// Storage keeps opaque objects such as uploaded resumes.
type Storage interface {
	// Put writes size bytes from body under key, replacing any existing object.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	// Open returns a reader for the object. The caller must close it.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
}

// Options selects and configures a storage backend.
type Options struct {
	Driver string
	Path   string
	S3     S3Config
	Logger *logrus.Logger
}

// New builds the backend named by opts.Driver.
func New(ctx context.Context, opts Options) (Storage, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case "", DriverLocal:
		return NewLocal(opts.Path, opts.Logger)
	case DriverS3:
		return NewS3(ctx, opts.S3, opts.Logger)
	default:
		return nil, eris.Errorf("unsupported storage driver: %s", opts.Driver)
	}
}

// cleanKey normalises key into a relative slash-separated path.
func cleanKey(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" || strings.ContainsRune(trimmed, '\\') || strings.ContainsRune(trimmed, 0) {
		return "", eris.Wrapf(ErrInvalidKey, "key %q", key)
	}

	if strings.HasPrefix(trimmed, "/") {
		return "", eris.Wrapf(ErrInvalidKey, "key %q is absolute", key)
	}

	for _, segment := range strings.Split(trimmed, "/") {
		if segment == ".." {
			return "", eris.Wrapf(ErrInvalidKey, "key %q escapes the storage root", key)
		}
	}

	cleaned := path.Clean(trimmed)
	if cleaned == "." {
		return "", eris.Wrapf(ErrInvalidKey, "key %q", key)
	}

	return cleaned, nil
}
