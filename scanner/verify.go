package scanner

import (
	"fmt"
	"image"
	"os"

	// Decoders for the thumbnail formats
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// VerifyImage decodes the image header of path and returns its format
func VerifyImage(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return format, fmt.Errorf("image has no pixels")
	}
	return format, nil
}
