package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// LocalStorage writes objects below a root directory served at a public URL prefix.
type LocalStorage struct {
	root   string
	prefix string
	log    *zap.Logger
}

func NewLocalStorage(root, publicPrefix string, log *zap.Logger) (*LocalStorage, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve media root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}

	return &LocalStorage{
		root:   abs,
		prefix: "/" + strings.Trim(publicPrefix, "/"),
		log:    log.With(zap.String("storage", "local")),
	}, nil
}

// Root is the directory objects are written under.
func (s *LocalStorage) Root() string { return s.root }

// Prefix is the URL prefix returned paths start with.
func (s *LocalStorage) Prefix() string { return s.prefix }

func (s *LocalStorage) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	full := filepath.Join(s.root, filepath.FromSlash(clean))
	if full == s.root || !strings.HasPrefix(full, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("media key %q escapes root", key)
	}
	return full, nil
}

// Put writes to a temp file first and renames it into place, so readers never see partial files.
func (s *LocalStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	full, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create media folder: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	written, err := io.Copy(tmp, ctxReader{ctx: ctx, r: r})
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil && written == 0 {
		err = ErrEmptyUpload
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("write %s: %w", key, err)
	}

	if err := os.Rename(tmpName, full); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("store %s: %w", key, err)
	}

	s.log.Debug("Media stored",
		zap.String("key", key),
		zap.Int64("bytes", written),
		zap.String("content_type", contentType))

	return s.prefix + "/" + strings.TrimPrefix(path.Clean("/"+key), "/"), nil
}

// Remove deletes the object behind a path returned by Put. A missing file is not an error.
func (s *LocalStorage) Remove(ctx context.Context, p string) error {
	key := strings.TrimPrefix(p, s.prefix+"/")
	full, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
