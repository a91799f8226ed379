package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"streaming-catalog/pkg/metrics"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ImageOptions describes where an image goes and the box it must fit in.
// A zero bound leaves that dimension unconstrained.
type ImageOptions struct {
	Folder    string
	MaxWidth  int
	MaxHeight int
}

type ImageService interface {
	Upload(ctx context.Context, r io.Reader, opts ImageOptions) (string, error)
	Delete(ctx context.Context, path string) error
}

type imageService struct {
	storage Storage
	folder  string
	quality float32
	log     *zap.Logger
}

func NewImageService(storage Storage, folder string, quality float32, log *zap.Logger) ImageService {
	if quality <= 0 || quality > 100 {
		quality = 80
	}
	return &imageService{
		storage: storage,
		folder:  folder,
		quality: quality,
		log:     log.With(zap.String("service", "image")),
	}
}

// Upload decodes any supported format, resizes it down to the bounds and stores it as WebP.
func (s *imageService) Upload(ctx context.Context, r io.Reader, opts ImageOptions) (pathOut string, err error) {
	var size int64
	defer func() { metrics.RecordMediaUpload("image", size, err) }()

	// 1. Decode (JPEG, PNG, GIF, BMP, TIFF and WebP are registered)
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	// 2. Fit within the bounds, never upscale
	bounds := img.Bounds()
	maxW, maxH := opts.MaxWidth, opts.MaxHeight
	if maxW <= 0 {
		maxW = bounds.Dx()
	}
	if maxH <= 0 {
		maxH = bounds.Dy()
	}
	if bounds.Dx() > maxW || bounds.Dy() > maxH {
		img = imaging.Fit(img, maxW, maxH, imaging.Lanczos)
	}

	// 3. Encode to WebP
	var buf bytes.Buffer
	if err = webp.Encode(&buf, img, &webp.Options{Lossless: false, Quality: s.quality}); err != nil {
		return "", fmt.Errorf("encode webp: %w", err)
	}
	size = int64(buf.Len())

	// 4. Store
	key := path.Join(s.folder, opts.Folder, uuid.NewString()+".webp")
	stored, err := s.storage.Put(ctx, key, &buf, size, "image/webp")
	if err != nil {
		s.log.Error("Failed to store image", zap.Error(err), zap.String("key", key))
		return "", fmt.Errorf("store image: %w", err)
	}

	s.log.Info("Image uploaded",
		zap.String("path", stored),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
		zap.Int64("bytes", size))

	return stored, nil
}

func (s *imageService) Delete(ctx context.Context, p string) error {
	if p == "" {
		return nil
	}
	if err := s.storage.Remove(ctx, p); err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}
