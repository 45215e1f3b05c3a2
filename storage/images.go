// Package storage keeps uploaded game images and hands back the reference stored on the game.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/game-catalog-backend/config"
)

// ImageStore persists an uploaded image and returns the reference to record on the game.
type ImageStore interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
	Remove(ctx context.Context, ref string) error
}

// New picks the store named by IMAGE_STORE (local or s3).
func New(ctx context.Context, c map[string]string) (ImageStore, error) {
	switch kind := config.GetString(c, "IMAGE_STORE", "local"); kind {
	case "local":
		return NewLocalStore(config.GetString(c, "UPLOAD_DIR", "static/images"))
	case "s3":
		bucket := config.GetString(c, "S3_BUCKET", "")
		if bucket == "" {
			return nil, fmt.Errorf("S3_BUCKET is required when IMAGE_STORE=s3")
		}
		return NewS3Store(ctx, bucket, config.GetString(c, "S3_PREFIX", "images/"))
	default:
		return nil, fmt.Errorf("unsupported IMAGE_STORE %q", kind)
	}
}

// objectName gives every upload a unique name that keeps the original extension.
func objectName(filename string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(filename))
}
