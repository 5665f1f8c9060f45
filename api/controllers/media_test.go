package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/casakiran/storefront-backend/internal/media"
	"github.com/casakiran/storefront-backend/pkg/config"
	pkgerrors "github.com/casakiran/storefront-backend/pkg/errors"
)

type stubMediaService struct {
	lastInput media.UploadInput
	out       *media.UploadOutput
	err       error
}

func (s *stubMediaService) UploadProductImage(_ context.Context, input media.UploadInput) (*media.UploadOutput, error) {
	s.lastInput = input
	if s.err != nil {
		return nil, s.err
	}
	return s.out, nil
}

func multipartUpload(t *testing.T, fileName string, payload []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/media", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestMediaUploadForwardsFile(t *testing.T) {
	svc := &stubMediaService{out: &media.UploadOutput{
		ObjectKey: "media/products/abc/vela.jpg",
		PublicURL: "https://storage.googleapis.com/bucket/media/products/abc/vela.jpg",
		MimeType:  "image/jpeg",
		SizeBytes: 3,
	}}
	handler := MediaUpload(svc, testMediaConfig(), nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, multipartUpload(t, "vela.jpg", []byte{0xFF, 0xD8, 0xFF}))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastInput.FileName != "vela.jpg" {
		t.Fatalf("unexpected file name %q", svc.lastInput.FileName)
	}
	if len(svc.lastInput.Payload) != 3 {
		t.Fatalf("unexpected payload size %d", len(svc.lastInput.Payload))
	}

	var payload struct {
		Data media.UploadOutput `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Data.PublicURL == "" {
		t.Fatal("expected public url in response")
	}
}

func TestMediaUploadRequiresFileField(t *testing.T) {
	handler := MediaUpload(&stubMediaService{}, testMediaConfig(), nil)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/media", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestMediaUploadPropagatesServiceError(t *testing.T) {
	svc := &stubMediaService{err: pkgerrors.New(pkgerrors.CodeValidation, "file must be a jpeg, png, or webp image")}
	handler := MediaUpload(svc, testMediaConfig(), nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, multipartUpload(t, "nota.txt", []byte("hola")))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func testMediaConfig() config.MediaConfig {
	return config.MediaConfig{MaxUploadMB: 1}
}

func TestMediaUploadCapsRequestBody(t *testing.T) {
	svc := &stubMediaService{}
	handler := MediaUpload(svc, testMediaConfig(), nil)

	oversize := bytes.Repeat([]byte{0xAB}, 2*1024*1024)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, multipartUpload(t, "gigante.jpg", oversize))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if svc.lastInput.FileName != "" {
		t.Fatal("oversize upload should be rejected before reaching the service")
	}

	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("expected validation code, got %q", payload.Error.Code)
	}
}
