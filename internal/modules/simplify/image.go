package simplify

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/andrew-zhouu/unjargon-ai/internal/pkg/upstream"
)

// MaxImageBytes caps the decoded size of a fetched or inlined image.
const MaxImageBytes = 3 << 20

const imageDetailLimit = 500

var allowedImageTypes = map[string]bool{
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

var (
	ErrImageTooLarge        = errors.New("image exceeds the 3MB size limit")
	ErrUnsupportedImageType = errors.New("unsupported image content type")
	ErrInvalidDataURL       = errors.New("invalid data URL")
)

// ImageFetchError reports a non-success response from the image host. Detail
// carries a truncated slice of the upstream body for the client.
type ImageFetchError struct {
	StatusCode int
	Detail     string
}

func (e *ImageFetchError) Error() string {
	return fmt.Sprintf("image fetch failed with status %d", e.StatusCode)
}

// FetchImageAsDataURL downloads an image over HTTP and returns it inlined as
// a base64 data URL suitable for a vision completion. The response content
// type must be on the allow list and the body must fit MaxImageBytes.
func FetchImageAsDataURL(ctx context.Context, client *http.Client, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, imageDetailLimit))
		return "", &ImageFetchError{StatusCode: resp.StatusCode, Detail: upstream.Truncate(string(body), imageDetailLimit)}
	}

	mime := resp.Header.Get("Content-Type")
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}
	mime = strings.ToLower(strings.TrimSpace(mime))
	if !allowedImageTypes[mime] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedImageType, mime)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxImageBytes+1))
	if err != nil {
		return "", err
	}
	if len(data) > MaxImageBytes {
		return "", ErrImageTooLarge
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

var dataURLRe = regexp.MustCompile(`^data:([a-z0-9.+/-]+);base64,([A-Za-z0-9+/=\s]+)$`)

// ValidateDataURL checks a client-supplied data URL without decoding it:
// shape, allow-listed media type, and decoded size within MaxImageBytes.
func ValidateDataURL(dataURL string) error {
	m := dataURLRe.FindStringSubmatch(dataURL)
	if m == nil {
		return ErrInvalidDataURL
	}
	if !allowedImageTypes[m[1]] {
		return fmt.Errorf("%w: %s", ErrUnsupportedImageType, m[1])
	}
	// Base64 expands by 4/3, so the decoded size is recoverable from length.
	if len(m[2])/4*3 > MaxImageBytes {
		return ErrImageTooLarge
	}
	return nil
}
