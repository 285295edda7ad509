package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

// Local stores objects as files below a base directory.
type Local struct {
	basePath string
	logger   *logrus.Logger
}

var _ Storage = (*Local)(nil)

// NewLocal creates the base directory when missing.
func NewLocal(basePath string, logger *logrus.Logger) (*Local, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, eris.New("storage path is required")
	}

	if err := os.MkdirAll(basePath, 0o750); err != nil {
		return nil, eris.Wrapf(err, "creating storage directory %s", basePath)
	}

	return &Local{basePath: basePath, logger: logger}, nil
}

func (l *Local) Put(ctx context.Context, key string, body io.Reader, size int64, _ string) error {
	dest, err := l.resolve(key)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "storing object")
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return eris.Wrapf(err, "creating directory for %s", key)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".upload-*")
	if err != nil {
		return eris.Wrapf(err, "creating temp file for %s", key)
	}
	tmpName := tmp.Name()

	written, copyErr := io.Copy(tmp, body)
	closeErr := tmp.Close()

	if copyErr == nil && size >= 0 && written != size {
		copyErr = eris.Errorf("wrote %d bytes, expected %d", written, size)
	}
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		_ = os.Remove(tmpName)
		return eris.Wrapf(copyErr, "writing object %s", key)
	}

	if err := os.Rename(tmpName, dest); err != nil {
		_ = os.Remove(tmpName)
		return eris.Wrapf(err, "moving object %s into place", key)
	}

	if l.logger != nil {
		l.logger.WithFields(logrus.Fields{"key": key, "size": written}).Debug("stored object")
	}

	return nil
}

func (l *Local) Open(_ context.Context, key string) (io.ReadCloser, error) {
	src, err := l.resolve(key)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, eris.Wrapf(ErrNotFound, "key %s", key)
		}
		return nil, eris.Wrapf(err, "opening object %s", key)
	}

	return file, nil
}

func (l *Local) Delete(_ context.Context, key string) error {
	target, err := l.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return eris.Wrapf(err, "removing object %s", key)
	}

	return nil
}

func (l *Local) resolve(key string) (string, error) {
	cleaned, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(l.basePath, filepath.FromSlash(cleaned)), nil
}
