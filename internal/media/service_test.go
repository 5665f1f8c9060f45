package media

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/casakiran/storefront-backend/pkg/config"
	pkgerrors "github.com/casakiran/storefront-backend/pkg/errors"
)

type stubStore struct {
	uploads   map[string][]byte
	lastMime  string
	uploadErr error
}

func newStubStore() *stubStore {
	return &stubStore{uploads: map[string][]byte{}}
}

func (s *stubStore) Upload(_ context.Context, object, contentType string, payload []byte) error {
	if s.uploadErr != nil {
		return s.uploadErr
	}
	s.uploads[object] = payload
	s.lastMime = contentType
	return nil
}

func (s *stubStore) PublicURL(object string) string {
	return "https://storage.googleapis.com/test-bucket/" + object
}

func newTestService(t *testing.T, store *stubStore) Service {
	t.Helper()
	svc, err := NewService(store, config.MediaConfig{MaxUploadMB: 1})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

var (
	jpegPayload = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
	pngPayload  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n', 0, 0, 0, 13}
)

func TestUploadProductImageStoresJPEG(t *testing.T) {
	store := newStubStore()
	svc := newTestService(t, store)

	out, err := svc.UploadProductImage(context.Background(), UploadInput{
		FileName: "vela lavanda.jpg",
		Payload:  jpegPayload,
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if out.MimeType != "image/jpeg" {
		t.Fatalf("unexpected mime %q", out.MimeType)
	}
	if !strings.HasPrefix(out.ObjectKey, "media/products/") {
		t.Fatalf("unexpected object key %q", out.ObjectKey)
	}
	if !strings.HasSuffix(out.ObjectKey, "vela-lavanda.jpg") {
		t.Fatalf("file name not sanitized: %q", out.ObjectKey)
	}
	if store.lastMime != "image/jpeg" {
		t.Fatalf("store received mime %q", store.lastMime)
	}
	if out.PublicURL == "" || !strings.Contains(out.PublicURL, out.ObjectKey) {
		t.Fatalf("unexpected public url %q", out.PublicURL)
	}
}

func TestUploadProductImageDetectsPNGRegardlessOfName(t *testing.T) {
	store := newStubStore()
	svc := newTestService(t, store)

	out, err := svc.UploadProductImage(context.Background(), UploadInput{
		FileName: "foto",
		Payload:  pngPayload,
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if out.MimeType != "image/png" {
		t.Fatalf("unexpected mime %q", out.MimeType)
	}
	if !strings.HasSuffix(out.ObjectKey, "foto.png") {
		t.Fatalf("extension should follow the sniffed type: %q", out.ObjectKey)
	}
}

func TestUploadProductImageRejectsNonImages(t *testing.T) {
	svc := newTestService(t, newStubStore())

	_, err := svc.UploadProductImage(context.Background(), UploadInput{
		FileName: "malicioso.jpg",
		Payload:  []byte("#!/bin/sh\necho hola\n"),
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUploadProductImageRejectsEmptyAndOversized(t *testing.T) {
	svc := newTestService(t, newStubStore())
	ctx := context.Background()

	if _, err := svc.UploadProductImage(ctx, UploadInput{FileName: "x.jpg"}); err == nil {
		t.Fatal("expected error for empty payload")
	}

	big := make([]byte, 2*1024*1024)
	copy(big, jpegPayload)
	_, err := svc.UploadProductImage(ctx, UploadInput{FileName: "x.jpg", Payload: big})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected size validation error, got %v", err)
	}
}

func TestUploadProductImagePropagatesStoreFailure(t *testing.T) {
	store := newStubStore()
	store.uploadErr = errors.New("bucket unavailable")
	svc := newTestService(t, store)

	_, err := svc.UploadProductImage(context.Background(), UploadInput{FileName: "x.jpg", Payload: jpegPayload})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
