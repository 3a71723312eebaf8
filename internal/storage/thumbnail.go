package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
)

// MaxThumbnailWidth bounds stored campaign images.
const MaxThumbnailWidth = 1200

var ErrInvalidImage = errors.New("invalid image")

// MakeThumbnail decodes r, shrinks it to at most MaxThumbnailWidth pixels
// wide keeping the aspect ratio, and re-encodes it as JPEG.
func MakeThumbnail(r io.Reader) ([]byte, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	if img.Bounds().Dx() > MaxThumbnailWidth {
		img = imaging.Resize(img, MaxThumbnailWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
