package simplify

import (
	"context"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/andrew-zhouu/unjargon-ai/internal/pkg/upstream"
)

// Service wires prompt construction, image resolution, and the model client
// behind the HTTP handlers.
type Service struct {
	client *upstream.Client
	http   *http.Client
	logger *zap.Logger
}

func NewService(client *upstream.Client, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		http:   &http.Client{Timeout: 15 * time.Second},
		logger: logger,
	}
}

// Stream opens a model stream for a plain-text simplification request. The
// caller relays and closes the returned stream.
func (s *Service) Stream(ctx context.Context, req Request) (io.ReadCloser, error) {
	return s.client.OpenStream(ctx, SystemPrompt, BuildPrompt(req.Domain, req.Text, req.Level))
}

// Simplify runs a non-streaming completion for clients that opted out of
// streaming and returns the repaired three-section result.
func (s *Service) Simplify(ctx context.Context, req Request) (string, error) {
	out, err := s.client.Complete(ctx, SystemPrompt, BuildPrompt(req.Domain, req.Text, req.Level))
	if err != nil {
		return "", err
	}
	return RepairOutput(out), nil
}

// StreamDocument opens a model stream for extracted document text. Oversized
// documents are truncated to MaxDocumentChars rather than rejected.
func (s *Service) StreamDocument(ctx context.Context, req Request) (io.ReadCloser, error) {
	return s.client.OpenStream(ctx, SystemPrompt, BuildPrompt(req.Domain, truncateDocument(req.Text), req.Level))
}

// SimplifyDocument runs a non-streaming document completion and returns the
// repaired three-section result.
func (s *Service) SimplifyDocument(ctx context.Context, req Request) (string, error) {
	out, err := s.client.Complete(ctx, SystemPrompt, BuildPrompt(req.Domain, truncateDocument(req.Text), req.Level))
	if err != nil {
		return "", err
	}
	return RepairDocumentOutput(out), nil
}

// AnalyzeImage runs a vision completion over an inlined image and returns the
// repaired three-section result.
func (s *Service) AnalyzeImage(ctx context.Context, dataURL, level string) (string, error) {
	out, err := s.client.DescribeImage(ctx, ImageSystemPrompt, BuildImagePrompt(level), dataURL)
	if err != nil {
		return "", err
	}
	return RepairOutput(out), nil
}

// ResolveImage turns a remote image URL into an inline data URL.
func (s *Service) ResolveImage(ctx context.Context, imageURL string) (string, error) {
	return FetchImageAsDataURL(ctx, s.http, imageURL)
}

func truncateDocument(text string) string {
	return upstream.Truncate(text, MaxDocumentChars)
}
