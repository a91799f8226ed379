package media

import (
	"context"
	"fmt"
	"io"
	"strings"

	"streaming-catalog/pkg/utils"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// MinIOStorage keeps objects in an S3 compatible bucket with public read access.
type MinIOStorage struct {
	client    *minio.Client
	bucket    string
	region    string
	publicURL string
	log       *zap.Logger
}

func NewMinIOStorage(ctx context.Context, cfg utils.MinIOConfig, log *zap.Logger) (*MinIOStorage, error) {
	endpoint := strings.TrimPrefix(cfg.Endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create MinIO client: %w", err)
	}

	publicURL := strings.TrimRight(cfg.PublicURL, "/")
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s", scheme, endpoint)
	}

	storage := &MinIOStorage{
		client:    client,
		bucket:    cfg.BucketName,
		region:    cfg.Region,
		publicURL: publicURL,
		log:       log.With(zap.String("storage", "minio")),
	}

	if err := storage.ensureBucket(ctx); err != nil {
		return nil, err
	}

	storage.log.Info("MinIO storage ready",
		zap.String("endpoint", endpoint),
		zap.String("bucket", cfg.BucketName),
		zap.Bool("ssl", cfg.UseSSL))

	return storage, nil
}

func (s *MinIOStorage) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}

	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.bucket, err)
		}
		s.log.Info("Bucket created", zap.String("bucket", s.bucket))
	}

	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [
			{
				"Effect": "Allow",
				"Principal": {"AWS": ["*"]},
				"Action": ["s3:GetObject"],
				"Resource": ["arn:aws:s3:::%s/*"]
			}
		]
	}`, s.bucket)

	if err := s.client.SetBucketPolicy(ctx, s.bucket, policy); err != nil {
		return fmt.Errorf("set bucket policy: %w", err)
	}

	return nil
}

func (s *MinIOStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	info, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	if info.Size == 0 {
		_ = s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
		return "", fmt.Errorf("put object %s: %w", key, ErrEmptyUpload)
	}

	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, key), nil
}

func (s *MinIOStorage) objectKey(p string) string {
	p = strings.TrimPrefix(p, s.publicURL+"/")
	return strings.TrimPrefix(p, s.bucket+"/")
}

func (s *MinIOStorage) Remove(ctx context.Context, p string) error {
	key := s.objectKey(p)
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		s.log.Error("Failed to delete object", zap.Error(err), zap.String("key", key))
		return fmt.Errorf("remove object %s: %w", key, err)
	}
	return nil
}
