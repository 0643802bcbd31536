// Package assets inspects publish media before upload: image format and
// dimensions, plus icon normalization to the catalog's standard size.
package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/nfnt/resize"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/webp"
)

const (
	// StandardIconSize is the icon edge length the catalog expects
	StandardIconSize = 144
)

// Info describes a decoded image asset
type Info struct {
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Inspect decodes an image header and reports format and dimensions
func Inspect(data []byte) (*Info, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return &Info{
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}

// NormalizeIcon re-encodes an icon as a StandardIconSize PNG, downscaling
// with Lanczos3 when it is larger. Icons already at or below the target size
// are returned unchanged.
func NormalizeIcon(data []byte) ([]byte, error) {
	info, err := Inspect(data)
	if err != nil {
		return nil, err
	}
	if info.Width <= StandardIconSize && info.Height <= StandardIconSize {
		return data, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode icon: %w", err)
	}

	resized := resize.Resize(StandardIconSize, StandardIconSize, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := png.Encode(&buf, resized); err != nil {
		return nil, fmt.Errorf("failed to encode icon: %w", err)
	}
	return buf.Bytes(), nil
}
