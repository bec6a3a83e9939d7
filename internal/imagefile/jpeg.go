package imagefile

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// exifHeader prefixes the EXIF payload inside a JPEG APP1 segment.
var exifHeader = []byte("Exif\x00\x00")

const (
	markerSOI  = 0xD8
	markerAPP1 = 0xE1
	markerSOS  = 0xDA

	// maxSegment is the largest payload a JPEG segment length field
	// can describe (the two length bytes count themselves).
	maxSegment = 0xFFFF - 2
)

// jpegSegment is one marker segment between SOI and SOS.
type jpegSegment struct {
	marker  byte
	payload []byte
}

// jpegContainer is a segment-level view of a JPEG file: the marker
// segments up to SOS, then the entropy-coded tail copied verbatim.
type jpegContainer struct {
	segments []jpegSegment
	tail     []byte
}

// parseJPEG splits a JPEG into its marker segments. It stops scanning
// at SOS; everything from there on (compressed image data through EOI)
// is kept as an opaque tail.
func parseJPEG(data []byte) (*jpegContainer, error) {
	c := &jpegContainer{}
	pos := 2 // past SOI

	for pos < len(data) {
		if data[pos] != 0xFF {
			return nil, fmt.Errorf("invalid JPEG marker at offset %d", pos)
		}
		// 0xFF may legally repeat as fill before the marker byte.
		for pos+1 < len(data) && data[pos+1] == 0xFF {
			pos++
		}
		if pos+2 > len(data) {
			return nil, fmt.Errorf("truncated JPEG marker at offset %d", pos)
		}
		marker := data[pos+1]

		if marker == markerSOS {
			c.tail = data[pos:]
			return c, nil
		}

		if pos+4 > len(data) {
			return nil, fmt.Errorf("truncated JPEG segment at offset %d", pos)
		}
		length := int(binary.BigEndian.Uint16(data[pos+2 : pos+4]))
		if length < 2 || pos+2+length > len(data) {
			return nil, fmt.Errorf("invalid JPEG segment length at offset %d", pos)
		}

		c.segments = append(c.segments, jpegSegment{
			marker:  marker,
			payload: data[pos+4 : pos+2+length],
		})
		pos += 2 + length
	}

	return nil, fmt.Errorf("JPEG has no scan data")
}

func (c *jpegContainer) metadata() []byte {
	for _, s := range c.segments {
		if s.marker == markerAPP1 && bytes.HasPrefix(s.payload, exifHeader) {
			return s.payload[len(exifHeader):]
		}
	}
	return nil
}

func (c *jpegContainer) render(payload []byte) ([]byte, error) {
	if len(payload)+len(exifHeader) > maxSegment {
		return nil, fmt.Errorf("metadata too large for a JPEG segment (%d bytes)", len(payload))
	}

	out := []byte{0xFF, markerSOI}
	written := false

	writeExif := func() {
		if payload == nil || written {
			return
		}
		seg := append(append([]byte(nil), exifHeader...), payload...)
		out = append(out, 0xFF, markerAPP1)
		out = binary.BigEndian.AppendUint16(out, uint16(len(seg)+2))
		out = append(out, seg...)
		written = true
	}

	// A file with no prior EXIF segment gets the new one right after
	// SOI, the conventional APP1 position.
	if c.metadata() == nil {
		writeExif()
	}

	for _, s := range c.segments {
		if s.marker == markerAPP1 && bytes.HasPrefix(s.payload, exifHeader) {
			// Replace the old EXIF segment in place.
			writeExif()
			continue
		}
		out = append(out, 0xFF, s.marker)
		out = binary.BigEndian.AppendUint16(out, uint16(len(s.payload)+2))
		out = append(out, s.payload...)
	}

	out = append(out, c.tail...)
	return out, nil
}
