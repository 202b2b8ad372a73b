package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrTooLarge      = errors.New("evidence file too large")
	ErrNotAnImage    = errors.New("evidence must be an image")
	ErrNotConfigured = errors.New("media storage is not configured")
)

const (
	signedURLTTL       = 5 * time.Minute
	defaultMaxSizeByte = 5 << 20
)

type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	PutEvidence(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// Service stores report evidence screenshots. A report carries at most
// one evidence object, referenced by its object key.
type Service struct {
	storage ObjectStorage
	maxSize int64
}

func NewService(storage ObjectStorage, maxSize int64) *Service {
	if maxSize <= 0 {
		maxSize = defaultMaxSizeByte
	}
	return &Service{
		storage: storage,
		maxSize: maxSize,
	}
}

// UploadEvidence validates and stores an evidence image, returning the
// object key to persist on the report.
func (s *Service) UploadEvidence(ctx context.Context, fileName, contentType string, body io.Reader, size int64) (string, error) {
	if body == nil || size <= 0 {
		return "", ErrValidation
	}
	if s.storage == nil {
		return "", ErrNotConfigured
	}
	if size > s.maxSize {
		return "", ErrTooLarge
	}
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/") {
		return "", ErrNotAnImage
	}

	if err := s.storage.EnsureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", err)
	}

	key := buildEvidenceKey(fileName)
	if err := s.storage.PutEvidence(ctx, key, body, size, contentType); err != nil {
		return "", fmt.Errorf("put evidence object: %w", err)
	}

	return key, nil
}

// EvidenceURL returns a short-lived presigned link for an evidence key.
func (s *Service) EvidenceURL(ctx context.Context, key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", nil
	}
	if s.storage == nil {
		return "", ErrNotConfigured
	}

	url, err := s.storage.PresignGet(ctx, key, signedURLTTL)
	if err != nil {
		return "", fmt.Errorf("presign evidence url: %w", err)
	}
	return url, nil
}

func (s *Service) DeleteEvidence(ctx context.Context, key string) error {
	if strings.TrimSpace(key) == "" || s.storage == nil {
		return nil
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete evidence object: %w", err)
	}
	return nil
}

func buildEvidenceKey(fileName string) string {
	ext := strings.ToLower(path.Ext(strings.TrimSpace(fileName)))
	if ext == "" {
		ext = ".bin"
	}

	stamp := time.Now().UTC().Format("20060102")
	return fmt.Sprintf("evidence/%s/%s%s", stamp, uuid.NewString(), ext)
}
