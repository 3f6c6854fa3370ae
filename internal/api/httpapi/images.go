package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/dtroode/memoria-server/internal/apierrors"
	"github.com/dtroode/memoria-server/internal/logger"
	"github.com/dtroode/memoria-server/internal/model"
)

// ImageUploader stores an image and returns its public URL.
type ImageUploader interface {
	Upload(ctx context.Context, caller model.Identity, filename, contentType string, size int64, reader io.Reader) (string, error)
	MaxSize() int64
}

// multipartOverhead leaves room for boundaries and part headers.
const multipartOverhead = 1 << 20

// Images accepts multipart image uploads for posts.
type Images struct {
	uploader       ImageUploader
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewImages creates a new Images handler.
func NewImages(uploader ImageUploader, contextManager model.ContextManager, logger *logger.Logger) *Images {
	return &Images{
		uploader:       uploader,
		contextManager: contextManager,
		logger:         logger,
	}
}

type uploadResponse struct {
	URL string `json:"url"`
}

// Upload reads the "image" part and responds with the stored image URL.
func (h *Images) Upload(w http.ResponseWriter, r *http.Request) {
	caller, _ := h.contextManager.GetIdentityFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.uploader.MaxSize()+multipartOverhead)
	file, header, err := r.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, apierrors.NewErrValidation("image is larger than %d bytes", h.uploader.MaxSize()))
		case errors.Is(err, http.ErrMissingFile):
			writeError(w, apierrors.NewErrMissingImage())
		default:
			writeError(w, apierrors.NewErrValidation("malformed multipart body"))
		}
		return
	}
	defer file.Close()

	url, err := h.uploader.Upload(r.Context(), caller, header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, uploadResponse{URL: url})
}
