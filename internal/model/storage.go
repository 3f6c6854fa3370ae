package model

import (
	"context"
	"io"
)

// ImageStorage is the image host: it keeps uploaded objects and hands out
// stable public URLs for them.
type ImageStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	URL(key string) string
}
