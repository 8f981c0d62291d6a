// Package storage keeps uploaded recipe images and avatars.
package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidImage is returned for payloads that are not base64 image data URIs.
var ErrInvalidImage = errors.New("invalid image")

// ImageStore persists an image given as a data URI and returns the reference
// clients use to fetch it.
type ImageStore interface {
	Save(ctx context.Context, prefix, dataURI string) (string, error)
}

var extensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// Image is a decoded upload.
type Image struct {
	ContentType string
	Ext         string
	Data        []byte
}

// DecodeDataURI parses "data:image/<type>;base64,<payload>".
func DecodeDataURI(dataURI string) (*Image, error) {
	header, payload, ok := strings.Cut(strings.TrimSpace(dataURI), ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return nil, fmt.Errorf("%w: expected a base64 data URI", ErrInvalidImage)
	}
	contentType := strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64"))
	ext, known := extensions[contentType]
	if !known {
		return nil, fmt.Errorf("%w: unsupported content type %q", ErrInvalidImage, contentType)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}
	return &Image{ContentType: contentType, Ext: ext, Data: data}, nil
}

func objectKey(prefix string, img *Image) string {
	return fmt.Sprintf("%s/%s.%s", strings.Trim(prefix, "/"), uuid.New().String(), img.Ext)
}
