package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/image/draw"
)

// ThumbnailService processes embedded thumbnails pulled out of image
// metadata blocks during extraction.
//
// ThumbnailService is used to:
//   - Resize thumbnails to fit maximum dimensions before export
//   - Re-encode thumbnails as JPEG for consistent output
//   - Write thumbnails to the export directory with sanitized names
//
// Example usage:
//
//	svc := NewThumbnailService("/tmp/thumbs", 160)
//	err := svc.Export("photo.jpg", thumbnailBytes)
type ThumbnailService struct {
	dir     string
	maxSize int
}

// NewThumbnailService creates a ThumbnailService writing into dir.
// Thumbnails larger than maxSize pixels on either side are scaled
// down; maxSize <= 0 disables resizing.
func NewThumbnailService(dir string, maxSize int) *ThumbnailService {
	return &ThumbnailService{dir: dir, maxSize: maxSize}
}

// Export writes the thumbnail extracted from srcPath's metadata to the
// export directory as "<basename>_thumb.jpg", resizing when the
// service has a size limit.
func (s *ThumbnailService) Export(srcPath string, data []byte) error {
	if len(data) == 0 {
		return nil
	}

	if s.maxSize > 0 {
		resized, err := s.Resize(data, s.maxSize, s.maxSize)
		if err != nil {
			return fmt.Errorf("resize thumbnail: %w", err)
		}
		data = resized
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}

	base := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))
	name := sanitizeFileName(base + "_thumb.jpg")
	return os.WriteFile(filepath.Join(s.dir, name), data, 0644)
}

// Resize scales an image to fit within maxWidth x maxHeight, keeping
// the aspect ratio, and re-encodes it as JPEG.
//
// The Catmull-Rom algorithm is used for high-quality resizing. Images
// already within bounds are still re-encoded.
func (s *ThumbnailService) Resize(data []byte, maxWidth, maxHeight int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	// Fit within the box, preserving aspect ratio.
	if width > maxWidth || height > maxHeight {
		ratio := float64(width) / float64(height)
		if float64(maxWidth)/float64(maxHeight) > ratio {
			width = int(float64(maxHeight) * ratio)
			height = maxHeight
		} else {
			height = int(float64(maxWidth) / ratio)
			width = maxWidth
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var invalidNameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// sanitizeFileName replaces characters that are invalid in file names
// across platforms (Windows being the most restrictive).
func sanitizeFileName(name string) string {
	name = invalidNameChars.ReplaceAllString(name, "_")
	name = strings.TrimRight(name, ". ")
	return name
}
