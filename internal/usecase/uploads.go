package usecase

import (
	"context"
	"errors"
	"fmt"

	"streaming-catalog/internal/dto/request"
	"streaming-catalog/internal/media"

	"go.uber.org/zap"
)

// uploadBatch tracks files stored during one request so they can be removed if the request fails.
type uploadBatch struct {
	images media.ImageService
	videos media.VideoService
	log    *zap.Logger

	imagePaths []string
	videoPaths []string
}

func newUploadBatch(images media.ImageService, videos media.VideoService, log *zap.Logger) *uploadBatch {
	return &uploadBatch{images: images, videos: videos, log: log}
}

func (b *uploadBatch) image(ctx context.Context, field string, file *request.File, opts media.ImageOptions) (string, error) {
	path, err := b.images.Upload(ctx, file.Content, opts)
	if err != nil {
		return "", uploadError(field, err)
	}
	b.imagePaths = append(b.imagePaths, path)
	return path, nil
}

func (b *uploadBatch) video(ctx context.Context, field string, file *request.File) (string, error) {
	path, err := b.videos.Upload(ctx, file.Content, file.Filename, file.Size)
	if err != nil {
		return "", uploadError(field, err)
	}
	b.videoPaths = append(b.videoPaths, path)
	return path, nil
}

// rollback removes every file stored so far, on a fresh context so a cancelled
// request still cleans up.
func (b *uploadBatch) rollback() {
	ctx := context.Background()
	for _, p := range b.imagePaths {
		if err := b.images.Delete(ctx, p); err != nil {
			b.log.Warn("Failed to remove orphaned image", zap.Error(err), zap.String("path", p))
		}
	}
	for _, p := range b.videoPaths {
		if err := b.videos.Delete(ctx, p); err != nil {
			b.log.Warn("Failed to remove orphaned video", zap.Error(err), zap.String("path", p))
		}
	}
	b.imagePaths, b.videoPaths = nil, nil
}

// uploadError turns bad client files into validation errors; storage failures stay internal.
func uploadError(field string, err error) error {
	switch {
	case errors.Is(err, media.ErrInvalidImage):
		return newValidationError(field, "File is not a supported image")
	case errors.Is(err, media.ErrUnsupportedFormat):
		return newValidationError(field, "Unsupported video format")
	case errors.Is(err, media.ErrEmptyUpload):
		return newValidationError(field, "File is empty")
	}
	return fmt.Errorf("upload %s: %w", field, err)
}

// removeFiles deletes replaced or orphaned media without failing the caller.
func removeFiles(ctx context.Context, log *zap.Logger, images media.ImageService, videos media.VideoService, imagePaths, videoPaths []string) {
	ctx = context.WithoutCancel(ctx)
	for _, p := range imagePaths {
		if p == "" {
			continue
		}
		if err := images.Delete(ctx, p); err != nil {
			log.Warn("Failed to remove image", zap.Error(err), zap.String("path", p))
		}
	}
	for _, p := range videoPaths {
		if p == "" {
			continue
		}
		if err := videos.Delete(ctx, p); err != nil {
			log.Warn("Failed to remove video", zap.Error(err), zap.String("path", p))
		}
	}
}
