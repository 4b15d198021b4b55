package filesystem

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// PhotoStore wraps the Cloudinary account holding the mobile app's photo
// assets.
type PhotoStore struct {
	cld *cloudinary.Cloudinary
}

// NewPhotoStore builds a store from a cloudinary:// URL
// (CLOUDINARY_URL in the environment).
func NewPhotoStore(cloudinaryURL string) (*PhotoStore, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to init cloudinary: %w", err)
	}
	return &PhotoStore{cld: cld}, nil
}

// Destroy removes one asset and returns the provider's result string:
// "ok" when deleted, "not found" when already gone, anything else when
// the asset is present but could not be released.
func (s *PhotoStore) Destroy(ctx context.Context, publicID string) (string, error) {
	resp, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return "", fmt.Errorf("failed to destroy asset %s: %w", publicID, err)
	}
	return resp.Result, nil
}

// ExtractPublicID recovers the Cloudinary public id from a delivery URL,
// e.g. .../image/upload/v12345/jobs/abc123.jpg -> jobs/abc123.
func ExtractPublicID(url string) string {
	_, after, found := strings.Cut(url, "/upload/")
	if !found {
		return url
	}
	parts := strings.Split(after, "/")
	// Drop the version segment if present.
	if len(parts) > 1 && strings.HasPrefix(parts[0], "v") && isDigits(parts[0][1:]) {
		parts = parts[1:]
	}
	id := strings.Join(parts, "/")
	if dot := strings.LastIndex(id, "."); dot > strings.LastIndex(id, "/") {
		id = id[:dot]
	}
	return id
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
