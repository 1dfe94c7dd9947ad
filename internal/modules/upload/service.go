package upload

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/andrew-zhouu/unjargon-ai/internal/config"
)

const (
	// MaxUploadBytes caps a single presigned upload.
	MaxUploadBytes = 10 << 20
	// MaxFilenameLen caps the client-reported filename.
	MaxFilenameLen = 200

	putExpiry = 60 * time.Second
	getExpiry = 5 * time.Minute
)

var (
	ErrNotConfigured   = errors.New("object storage is not configured")
	ErrMissingFilename = errors.New("filename is required")
	ErrFilenameTooLong = errors.New("filename is too long")
	ErrUnsupportedType = errors.New("unsupported upload content type")
	ErrInvalidSize     = errors.New("invalid upload size")
)

// allowedUploadTypes maps each accepted content type to a fallback extension
// used when the filename has none.
var allowedUploadTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"image/heic":      ".heic",
	"image/heif":      ".heif",
	"application/pdf": ".pdf",
	"text/plain":      ".txt",
}

// SignRequest is a client's ask for a presigned upload slot.
type SignRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// SignResult carries everything the client needs to upload and then read back
// the object: a PUT URL, the object key, a short-lived presigned view URL,
// and the public URL when the bucket fronts a CDN.
type SignResult struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"contentType"`
	PublicURL   string `json:"publicUrl,omitempty"`
	ViewURL     string `json:"viewUrl"`
}

type presigner interface {
	PresignPutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Service issues presigned S3 URLs for direct browser uploads.
type Service struct {
	cfg     config.S3Config
	presign presigner
	now     func() time.Time
	newID   func() string
}

func NewService(cfg config.S3Config) *Service {
	svc := &Service{
		cfg:   cfg,
		now:   time.Now,
		newID: uuid.NewString,
	}
	if cfg.Configured() {
		client := s3.New(s3.Options{
			Region:      cfg.Region,
			Credentials: aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		})
		svc.presign = s3.NewPresignClient(client)
	}
	return svc
}

// Sign validates the request and returns presigned PUT and GET URLs for a
// fresh object key under a date-stamped prefix.
func (s *Service) Sign(ctx context.Context, req SignRequest) (*SignResult, error) {
	filename := strings.TrimSpace(req.Filename)
	if filename == "" {
		return nil, ErrMissingFilename
	}
	if len(filename) > MaxFilenameLen {
		return nil, ErrFilenameTooLong
	}

	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))
	fallbackExt, ok := allowedUploadTypes[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	if req.Size <= 0 || req.Size > MaxUploadBytes {
		return nil, ErrInvalidSize
	}
	if s.presign == nil {
		return nil, ErrNotConfigured
	}

	key := s.objectKey(filename, fallbackExt)

	put, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(putExpiry))
	if err != nil {
		return nil, fmt.Errorf("presign put: %w", err)
	}

	view, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(getExpiry))
	if err != nil {
		return nil, fmt.Errorf("presign get: %w", err)
	}

	result := &SignResult{
		URL:         put.URL,
		Key:         key,
		ContentType: contentType,
		ViewURL:     view.URL,
	}
	if s.cfg.PublicBase != "" {
		result.PublicURL = s.cfg.PublicBase + "/" + key
	}
	return result, nil
}

// objectKey builds "uploads/YYYY-MM-DD/<uuid><ext>". The extension comes from
// the filename when present, otherwise from the content type.
func (s *Service) objectKey(filename, fallbackExt string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" || len(ext) > 10 {
		ext = fallbackExt
	}
	return fmt.Sprintf("uploads/%s/%s%s", s.now().UTC().Format("2006-01-02"), s.newID(), ext)
}
