package media

import (
	"context"
	"fmt"
	"path"
	"strings"
	"unicode"

	"github.com/casakiran/storefront-backend/pkg/config"
	pkgerrors "github.com/casakiran/storefront-backend/pkg/errors"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

type objectStore interface {
	Upload(ctx context.Context, object, contentType string, payload []byte) error
	PublicURL(object string) string
}

// Allowed image types for product photos. The type is sniffed from the
// payload, never trusted from the request.
var allowedImageMimes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// UploadInput carries one product image upload.
type UploadInput struct {
	FileName string
	Payload  []byte
}

// UploadOutput reports where the stored image lives.
type UploadOutput struct {
	ObjectKey string `json:"object_key"`
	PublicURL string `json:"public_url"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
}

// Service stores product images and returns their public URLs.
type Service interface {
	UploadProductImage(ctx context.Context, input UploadInput) (*UploadOutput, error)
}

type service struct {
	store    objectStore
	maxBytes int64
}

// NewService builds the media service on top of the configured object store.
func NewService(store objectStore, cfg config.MediaConfig) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("object store required")
	}
	if cfg.MaxUploadMB <= 0 {
		return nil, fmt.Errorf("max upload size must be positive")
	}
	return &service{
		store:    store,
		maxBytes: int64(cfg.MaxUploadMB) * 1024 * 1024,
	}, nil
}

func (s *service) UploadProductImage(ctx context.Context, input UploadInput) (*UploadOutput, error) {
	size := int64(len(input.Payload))
	if size == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is empty")
	}
	if size > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file exceeds the upload size limit").
			WithDetails(map[string]any{"max_bytes": s.maxBytes, "size_bytes": size})
	}

	detected := mimetype.Detect(input.Payload)
	mime := detected.String()
	ext, ok := allowedImageMimes[mime]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file must be a jpeg, png, or webp image").
			WithDetails(map[string]any{"detected": mime})
	}

	key := buildObjectKey(input.FileName, ext)
	if err := s.store.Upload(ctx, key, mime, input.Payload); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store image")
	}

	return &UploadOutput{
		ObjectKey: key,
		PublicURL: s.store.PublicURL(key),
		MimeType:  mime,
		SizeBytes: size,
	}, nil
}

func buildObjectKey(fileName, ext string) string {
	id := uuid.New()
	clean := sanitizeFileName(fileName)
	if clean == "" {
		clean = id.String() + ext
	} else if !strings.HasSuffix(strings.ToLower(clean), ext) {
		clean += ext
	}
	return fmt.Sprintf("media/products/%s/%s", id.String(), clean)
}

func sanitizeFileName(name string) string {
	if name == "" {
		return ""
	}
	clean := path.Base(strings.TrimSpace(name))
	if clean == "." || clean == "/" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		switch {
		case r == '/' || r == '\\' || unicode.IsControl(r):
			continue
		case unicode.IsSpace(r):
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-_.")
}
