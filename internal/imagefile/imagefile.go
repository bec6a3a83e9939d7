package imagefile

import (
	"bytes"
	"fmt"
	"os"
)

// container is the format-specific view of a parsed image file.
type container interface {
	// metadata returns the raw EXIF payload, or nil when the file
	// carries none.
	metadata() []byte

	// render rebuilds the complete file with the given payload as its
	// metadata segment. A nil payload removes the segment. Pixel data
	// and every unrelated segment are copied byte-for-byte.
	render(payload []byte) ([]byte, error)
}

// File is an opened image file. It holds the parsed container
// structure in memory; the file on disk is only touched again by
// Rewrite.
type File struct {
	path      string
	container container
}

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}

// Open reads and parses an image file. The container format is
// detected from the file's magic bytes, not its extension.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}

	var c container
	switch {
	case len(data) >= 2 && data[0] == 0xFF && data[1] == 0xD8:
		c, err = parseJPEG(data)
	case len(data) >= 8 && bytes.Equal(data[:8], pngSignature):
		c, err = parsePNG(data)
	default:
		return nil, fmt.Errorf("unrecognized image format")
	}
	if err != nil {
		return nil, err
	}

	return &File{path: path, container: c}, nil
}

// Metadata returns the file's raw EXIF payload (the TIFF-structured
// bytes), or nil when the file has no metadata segment.
func (f *File) Metadata() []byte {
	return f.container.metadata()
}

// Rewrite writes the file back to disk with payload as its metadata
// segment, replacing any existing one. A nil payload strips the
// segment entirely. Image content is preserved unmodified.
func (f *File) Rewrite(payload []byte) error {
	out, err := f.container.render(payload)
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, out, 0644)
}
