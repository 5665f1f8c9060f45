package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/casakiran/storefront-backend/api/responses"
	"github.com/casakiran/storefront-backend/internal/media"
	"github.com/casakiran/storefront-backend/pkg/config"
	pkgerrors "github.com/casakiran/storefront-backend/pkg/errors"
	"github.com/casakiran/storefront-backend/pkg/logger"
)

const (
	mediaFormMemoryLimit = 4 << 20
	// Slack on top of the image cap for the multipart boundary and headers.
	mediaFormOverhead = 64 << 10
)

// MediaUpload accepts a multipart product image and stores it in the bucket.
func MediaUpload(svc media.Service, cfg config.MediaConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		maxBytes := int64(cfg.MaxUploadMB)*1024*1024 + mediaFormOverhead
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

		if err := r.ParseMultipartForm(mediaFormMemoryLimit); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "file exceeds the upload limit").
						WithDetails(map[string]any{"max_bytes": maxErr.Limit}))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body"))
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file field missing"))
			return
		}
		defer file.Close()

		payload, err := io.ReadAll(file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read upload"))
			return
		}

		out, err := svc.UploadProductImage(r.Context(), media.UploadInput{
			FileName: header.Filename,
			Payload:  payload,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, out)
	}
}
