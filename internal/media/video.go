package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"streaming-catalog/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var videoTypes = map[string]string{
	".mp4":  "video/mp4",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".m3u8": "application/vnd.apple.mpegurl",
	".ts":   "video/mp2t",
}

// IsVideoFile reports whether the filename carries an accepted video extension.
func IsVideoFile(filename string) bool {
	_, ok := videoTypes[strings.ToLower(filepath.Ext(filename))]
	return ok
}

type VideoService interface {
	Upload(ctx context.Context, r io.Reader, filename string, size int64) (string, error)
	Delete(ctx context.Context, path string) error
}

type videoService struct {
	storage Storage
	folder  string
	log     *zap.Logger
}

func NewVideoService(storage Storage, folder string, log *zap.Logger) VideoService {
	return &videoService{
		storage: storage,
		folder:  folder,
		log:     log.With(zap.String("service", "video")),
	}
}

// Upload stores the stream unchanged. size may be -1 when unknown.
func (s *videoService) Upload(ctx context.Context, r io.Reader, filename string, size int64) (pathOut string, err error) {
	defer func() { metrics.RecordMediaUpload("video", size, err) }()

	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := videoTypes[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	key := path.Join(s.folder, uuid.NewString()+ext)
	stored, err := s.storage.Put(ctx, key, r, size, contentType)
	if err != nil {
		s.log.Error("Failed to store video", zap.Error(err), zap.String("key", key))
		return "", fmt.Errorf("store video: %w", err)
	}

	s.log.Info("Video uploaded", zap.String("path", stored), zap.String("original", filename))
	return stored, nil
}

func (s *videoService) Delete(ctx context.Context, p string) error {
	if p == "" {
		return nil
	}
	if err := s.storage.Remove(ctx, p); err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	return nil
}
