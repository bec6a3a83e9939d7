package imaging

import (
	"bytes"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"normal_thumb.jpg", "normal_thumb.jpg"},
		{"file:with:colons.jpg", "file_with_colons.jpg"},
		{"file<with>brackets.jpg", "file_with_brackets.jpg"},
		{"file|pipes?.jpg", "file_pipes_.jpg"},
		{"trailing dots...", "trailing dots"},
		{"trailing spaces   ", "trailing spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := sanitizeFileName(tt.input)
			if got != tt.want {
				t.Errorf("sanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// encodeTestJPEG produces a real JPEG of the given dimensions.
func encodeTestJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestResize(t *testing.T) {
	svc := NewThumbnailService(t.TempDir(), 160)

	out, err := svc.Resize(encodeTestJPEG(t, 640, 480), 160, 160)
	if err != nil {
		t.Fatalf("Resize: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode resized: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() > 160 || bounds.Dy() > 160 {
		t.Errorf("resized to %dx%d, want within 160x160", bounds.Dx(), bounds.Dy())
	}
	// 640x480 is 4:3; the longer side ends up at the limit.
	if bounds.Dx() != 160 {
		t.Errorf("width = %d, want 160", bounds.Dx())
	}
}

func TestResizeKeepsSmallImages(t *testing.T) {
	svc := NewThumbnailService(t.TempDir(), 160)

	out, err := svc.Resize(encodeTestJPEG(t, 80, 60), 160, 160)
	if err != nil {
		t.Fatalf("Resize: %v", err)
	}
	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 80 || img.Bounds().Dy() != 60 {
		t.Errorf("got %dx%d, want 80x60", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestResizeRejectsGarbage(t *testing.T) {
	svc := NewThumbnailService(t.TempDir(), 160)
	if _, err := svc.Resize([]byte("not an image"), 160, 160); err == nil {
		t.Error("Resize should fail on undecodable data")
	}
}

func TestExport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "thumbs")
	svc := NewThumbnailService(dir, 160)

	err := svc.Export("/photos/vacation:day1.jpg", encodeTestJPEG(t, 320, 240))
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	want := filepath.Join(dir, "vacation_day1_thumb.jpg")
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("exported file: %v", err)
	}
	if _, _, err := image.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("exported thumbnail is not a decodable image: %v", err)
	}
}

func TestExportEmptyData(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "thumbs")
	svc := NewThumbnailService(dir, 160)

	if err := svc.Export("/photos/a.jpg", nil); err != nil {
		t.Fatalf("Export of empty data: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("empty data must not create the export directory")
	}
}
