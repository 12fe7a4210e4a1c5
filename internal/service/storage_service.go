package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/logiscore/logiscore-backend/internal/observability"
)

const (
	maxLogoSize     = 5 * 1024 * 1024 // 5 MB
	presignedURLTTL = 15 * time.Minute
	logoPathPrefix  = "logos"
)

var (
	ErrFileTooBig           = errors.New("file size exceeds 5MB limit")
	ErrInvalidFileType      = errors.New("invalid file type, only JPEG and PNG images are allowed")
	ErrBucketCreationFailed = errors.New("failed to create storage bucket")
	ErrUploadFailed         = errors.New("failed to upload file")
	ErrDeleteFailed         = errors.New("failed to delete file")
	ErrURLGenerationFailed  = errors.New("failed to generate presigned URL")

	allowedLogoTypes = map[string]struct{}{
		"image/jpeg": {},
		"image/png":  {},
	}
)

// StorageService stores company logos in an S3-compatible object store.
type StorageService interface {
	// UploadLogo uploads a forwarder logo and returns the object key.
	UploadLogo(ctx context.Context, forwarderID string, file io.Reader, fileSize int64) (string, error)

	// DeleteLogo removes a logo object. Empty keys are a no-op.
	DeleteLogo(ctx context.Context, objectKey string) error

	// LogoURL generates a presigned GET URL for a stored logo.
	LogoURL(ctx context.Context, objectKey string) (string, error)
}

type MinIOStorageService struct {
	client     *minio.Client
	bucketName string
	initOnce   sync.Once
	initErr    error
}

// NewMinIOStorageService creates a MinIO-backed storage service. Bucket
// creation is deferred until the first operation so a cold object store
// does not block startup.
func NewMinIOStorageService(endpoint, accessKey, secretKey, bucketName string, useSSL bool) (*MinIOStorageService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &MinIOStorageService{
		client:     client,
		bucketName: bucketName,
	}, nil
}

// Client exposes the underlying MinIO client for readiness checks.
func (s *MinIOStorageService) Client() *minio.Client { return s.client }

func (s *MinIOStorageService) Bucket() string { return s.bucketName }

func (s *MinIOStorageService) lazyInit(ctx context.Context) error {
	s.initOnce.Do(func() {
		s.initErr = s.ensureBucketExists(ctx)
	})
	return s.initErr
}

func (s *MinIOStorageService) ensureBucketExists(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("%w: check bucket existence: %v", ErrBucketCreationFailed, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("%w: create bucket: %v", ErrBucketCreationFailed, err)
		}
	}
	return nil
}

// UploadLogo validates size and content type before touching the object
// store. The content type is sniffed from the actual bytes, not taken
// from the client.
func (s *MinIOStorageService) UploadLogo(ctx context.Context, forwarderID string, file io.Reader, fileSize int64) (string, error) {
	if fileSize > maxLogoSize {
		observability.RecordLogoUpload(ctx, "too_big")
		return "", ErrFileTooBig
	}

	buf := make([]byte, 512)
	n, err := io.ReadFull(file, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("%w: read file for content detection: %v", ErrUploadFailed, err)
	}
	buf = buf[:n]

	detected := strings.ToLower(strings.TrimSpace(http.DetectContentType(buf)))
	if _, allowed := allowedLogoTypes[detected]; !allowed {
		observability.RecordLogoUpload(ctx, "invalid_type")
		return "", ErrInvalidFileType
	}

	if err := s.lazyInit(ctx); err != nil {
		return "", err
	}

	fullFile := io.MultiReader(bytes.NewReader(buf), file)
	objectKey := fmt.Sprintf("%s/%s/%s%s", logoPathPrefix, forwarderID, uuid.New().String(), extensionFor(detected))

	_, err = s.client.PutObject(ctx, s.bucketName, objectKey, fullFile, fileSize, minio.PutObjectOptions{
		ContentType: detected,
		UserMetadata: map[string]string{
			"Forwarder-ID": forwarderID,
			"Uploaded-At":  time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		observability.RecordLogoUpload(ctx, "error")
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	observability.RecordLogoUpload(ctx, "success")
	return objectKey, nil
}

func (s *MinIOStorageService) DeleteLogo(ctx context.Context, objectKey string) error {
	if strings.TrimSpace(objectKey) == "" {
		return nil
	}
	if strings.Contains(objectKey, "..") || !strings.HasPrefix(objectKey, logoPathPrefix+"/") {
		return fmt.Errorf("%w: key outside logo namespace", ErrDeleteFailed)
	}
	if err := s.lazyInit(ctx); err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.bucketName, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	return nil
}

func (s *MinIOStorageService) LogoURL(ctx context.Context, objectKey string) (string, error) {
	if strings.TrimSpace(objectKey) == "" {
		return "", fmt.Errorf("%w: empty object key", ErrURLGenerationFailed)
	}
	if err := s.lazyInit(ctx); err != nil {
		return "", err
	}
	presigned, err := s.client.PresignedGetObject(ctx, s.bucketName, objectKey, presignedURLTTL, url.Values{})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrURLGenerationFailed, err)
	}
	return presigned.String(), nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	default:
		return ""
	}
}
