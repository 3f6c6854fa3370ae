package service

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/memoria-server/internal/apierrors"
	"github.com/dtroode/memoria-server/internal/logger"
	"github.com/dtroode/memoria-server/internal/model"
)

// DefaultMaxImageSize caps uploads at 10 MiB.
const DefaultMaxImageSize int64 = 10 << 20

// Image uploads post images to the image host and hands back their public URLs.
type Image struct {
	storage model.ImageStorage
	maxSize int64
	logger  *logger.Logger
}

func NewImage(storage model.ImageStorage, maxSize int64, logger *logger.Logger) *Image {
	if maxSize <= 0 {
		maxSize = DefaultMaxImageSize
	}
	return &Image{
		storage: storage,
		maxSize: maxSize,
		logger:  logger,
	}
}

// MaxSize returns the upload limit in bytes.
func (s *Image) MaxSize() int64 {
	return s.maxSize
}

// Upload stores an image under posts/<user-id>/<random><ext> and returns its public URL.
func (s *Image) Upload(ctx context.Context, caller model.Identity, filename, contentType string, size int64, reader io.Reader) (string, error) {
	if caller.UserID == uuid.Nil {
		return "", apierrors.NewErrForbidden("upload images")
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		return "", apierrors.NewErrValidation("file must be an image, got %q", contentType)
	}
	if size <= 0 {
		return "", apierrors.NewErrMissingImage()
	}
	if size > s.maxSize {
		return "", apierrors.NewErrValidation("image is %d bytes, the maximum is %d", size, s.maxSize)
	}

	key := fmt.Sprintf("posts/%s/%s%s", caller.UserID, uuid.NewString(), imageExt(filename, mediaType))

	if err := s.storage.Upload(ctx, key, io.LimitReader(reader, size), size, mediaType); err != nil {
		s.logger.Error("Image service: failed to upload image",
			"user_id", caller.UserID,
			"key", key,
			"error", err.Error())
		return "", apierrors.NewErrUpstreamUnavailable(fmt.Errorf("failed to upload image: %w", err))
	}

	s.logger.Info("Image service: image uploaded",
		"user_id", caller.UserID,
		"key", key,
		"size", size)

	return s.storage.URL(key), nil
}

func imageExt(filename, mediaType string) string {
	ext := strings.ToLower(path.Ext(filename))
	if len(ext) > 1 && len(ext) <= 6 && strings.IndexFunc(ext[1:], notAlnum) < 0 {
		return ext
	}
	if exts, err := mime.ExtensionsByType(mediaType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}

func notAlnum(r rune) bool {
	return (r < 'a' || r > 'z') && (r < '0' || r > '9')
}
