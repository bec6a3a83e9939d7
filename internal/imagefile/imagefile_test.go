package imagefile

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"os"
	"path/filepath"
	"testing"
)

// buildJPEG assembles a minimal JPEG: SOI, an optional EXIF APP1
// segment, a dummy DQT segment, and a fake entropy-coded tail.
func buildJPEG(exif []byte) []byte {
	out := []byte{0xFF, 0xD8}

	if exif != nil {
		seg := append(append([]byte(nil), exifHeader...), exif...)
		out = append(out, 0xFF, 0xE1)
		out = binary.BigEndian.AppendUint16(out, uint16(len(seg)+2))
		out = append(out, seg...)
	}

	// Dummy DQT segment
	out = append(out, 0xFF, 0xDB, 0x00, 0x03, 0x42)

	// SOS and fake scan data through EOI
	out = append(out, 0xFF, 0xDA, 0x00, 0x04, 0x01, 0x02, 0xAA, 0xBB, 0xFF, 0xD9)
	return out
}

// buildPNG assembles a minimal PNG: signature, IHDR, an optional eXIf
// chunk, IDAT, IEND, all with valid CRCs.
func buildPNG(exif []byte) []byte {
	out := append([]byte(nil), pngSignature...)

	chunk := func(typ string, data []byte) {
		out = binary.BigEndian.AppendUint32(out, uint32(len(data)))
		out = append(out, typ...)
		out = append(out, data...)
		crc := crc32.NewIEEE()
		crc.Write([]byte(typ))
		crc.Write(data)
		out = binary.BigEndian.AppendUint32(out, crc.Sum32())
	}

	chunk("IHDR", make([]byte, 13))
	if exif != nil {
		chunk("eXIf", exif)
	}
	chunk("IDAT", []byte{0x78, 0x9C, 0x01})
	chunk("IEND", nil)
	return out
}

func writeFixture(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpenMetadata(t *testing.T) {
	payload := []byte("fake tiff payload")

	tests := []struct {
		name string
		data []byte
		want []byte
	}{
		{"jpeg with exif", buildJPEG(payload), payload},
		{"jpeg without exif", buildJPEG(nil), nil},
		{"png with exif", buildPNG(payload), payload},
		{"png without exif", buildPNG(nil), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFixture(t, "img", tt.data)
			f, err := Open(path)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			if got := f.Metadata(); !bytes.Equal(got, tt.want) {
				t.Errorf("Metadata() = %q, want %q", got, tt.want)
			}
		})
	}
}

// Format detection goes by magic bytes, so a JPEG saved with a .png
// extension still opens as a JPEG.
func TestOpenIgnoresExtension(t *testing.T) {
	path := writeFixture(t, "actually-a-jpeg.png", buildJPEG([]byte("x")))
	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got := f.Metadata(); !bytes.Equal(got, []byte("x")) {
		t.Errorf("Metadata() = %q", got)
	}
}

// 0xFF fill bytes before a marker are legal padding; a padded JPEG
// must still parse.
func TestOpenJPEGWithFillBytes(t *testing.T) {
	data := []byte{0xFF, 0xD8}
	// Fill bytes before the EXIF APP1 segment.
	data = append(data, 0xFF, 0xFF)
	seg := append(append([]byte(nil), exifHeader...), 'x')
	data = append(data, 0xFF, 0xE1)
	data = binary.BigEndian.AppendUint16(data, uint16(len(seg)+2))
	data = append(data, seg...)
	// More fill before SOS.
	data = append(data, 0xFF, 0xFF, 0xFF)
	data = append(data, 0xFF, 0xDA, 0x00, 0x04, 0x01, 0x02, 0xFF, 0xD9)

	path := writeFixture(t, "padded.jpg", data)
	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got := f.Metadata(); !bytes.Equal(got, []byte("x")) {
		t.Errorf("Metadata() = %q, want %q", got, "x")
	}
}

func TestOpenErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"unknown format", []byte("GIF89a")},
		{"jpeg bad marker", []byte{0xFF, 0xD8, 0x12, 0x34}},
		{"jpeg no scan data", []byte{0xFF, 0xD8, 0xFF, 0xDB, 0x00, 0x03, 0x42}},
		{"jpeg truncated segment", []byte{0xFF, 0xD8, 0xFF, 0xE1, 0xFF, 0xFF, 0x00}},
		{"png truncated", append(append([]byte(nil), pngSignature...), 0x00, 0x00)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFixture(t, "bad", tt.data)
			if _, err := Open(path); err == nil {
				t.Error("Open should fail")
			}
		})
	}
}

func TestOpenPNGBadCRC(t *testing.T) {
	data := buildPNG([]byte("x"))
	// Flip a bit inside the IHDR data so its CRC no longer matches.
	data[20] ^= 0xFF
	path := writeFixture(t, "bad.png", data)
	if _, err := Open(path); err == nil {
		t.Error("Open should reject a chunk with a bad CRC")
	}
}

func TestOpenPNGMissingIEND(t *testing.T) {
	data := buildPNG(nil)
	data = data[:len(data)-12] // drop the IEND chunk
	path := writeFixture(t, "noend.png", data)
	if _, err := Open(path); err == nil {
		t.Error("Open should reject a PNG without IEND")
	}
}

func TestRewriteReplace(t *testing.T) {
	for _, format := range []string{"jpeg", "png"} {
		t.Run(format, func(t *testing.T) {
			var data []byte
			if format == "jpeg" {
				data = buildJPEG([]byte("old"))
			} else {
				data = buildPNG([]byte("old"))
			}
			path := writeFixture(t, "img", data)

			f, err := Open(path)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			if err := f.Rewrite([]byte("new payload")); err != nil {
				t.Fatalf("Rewrite: %v", err)
			}

			reopened, err := Open(path)
			if err != nil {
				t.Fatalf("reopen: %v", err)
			}
			if got := reopened.Metadata(); !bytes.Equal(got, []byte("new payload")) {
				t.Errorf("Metadata() after rewrite = %q", got)
			}
		})
	}
}

func TestRewriteInsert(t *testing.T) {
	for _, format := range []string{"jpeg", "png"} {
		t.Run(format, func(t *testing.T) {
			var data []byte
			if format == "jpeg" {
				data = buildJPEG(nil)
			} else {
				data = buildPNG(nil)
			}
			path := writeFixture(t, "img", data)

			f, err := Open(path)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			if err := f.Rewrite([]byte("inserted")); err != nil {
				t.Fatalf("Rewrite: %v", err)
			}

			reopened, err := Open(path)
			if err != nil {
				t.Fatalf("reopen: %v", err)
			}
			if got := reopened.Metadata(); !bytes.Equal(got, []byte("inserted")) {
				t.Errorf("Metadata() after insert = %q", got)
			}
		})
	}
}

func TestRewriteStrip(t *testing.T) {
	for _, format := range []string{"jpeg", "png"} {
		t.Run(format, func(t *testing.T) {
			var data []byte
			if format == "jpeg" {
				data = buildJPEG([]byte("doomed"))
			} else {
				data = buildPNG([]byte("doomed"))
			}
			path := writeFixture(t, "img", data)

			f, err := Open(path)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			if err := f.Rewrite(nil); err != nil {
				t.Fatalf("Rewrite: %v", err)
			}

			reopened, err := Open(path)
			if err != nil {
				t.Fatalf("reopen: %v", err)
			}
			if got := reopened.Metadata(); got != nil {
				t.Errorf("Metadata() after strip = %q, want nil", got)
			}
		})
	}
}

// Rewriting metadata must leave every unrelated byte of the image
// intact: the JPEG scan data and the PNG pixel chunks survive verbatim.
func TestRewritePreservesImageData(t *testing.T) {
	path := writeFixture(t, "img.jpg", buildJPEG([]byte("old")))

	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := f.Rewrite([]byte("replacement")); err != nil {
		t.Fatalf("Rewrite: %v", err)
	}

	out, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	tail := []byte{0xFF, 0xDA, 0x00, 0x04, 0x01, 0x02, 0xAA, 0xBB, 0xFF, 0xD9}
	if !bytes.HasSuffix(out, tail) {
		t.Error("scan data was not preserved verbatim")
	}
	if !bytes.Contains(out, []byte{0xFF, 0xDB, 0x00, 0x03, 0x42}) {
		t.Error("DQT segment was not preserved")
	}
}
