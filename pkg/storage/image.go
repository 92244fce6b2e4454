package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// MaxAvatarDimension is the longest edge an avatar is stored at.
const MaxAvatarDimension = 512

// NormalizeAvatar decodes an uploaded image, downscales it so its longest
// edge is at most MaxAvatarDimension, and re-encodes as JPEG. Images already
// within bounds are still re-encoded, stripping any foreign metadata.
func NormalizeAvatar(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode avatar image: %w", err)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width > MaxAvatarDimension || height > MaxAvatarDimension {
		scale := float64(MaxAvatarDimension) / float64(max(width, height))
		width = int(float64(width) * scale)
		height = int(float64(height) * scale)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("failed to encode avatar image: %w", err)
	}
	return buf.Bytes(), nil
}
