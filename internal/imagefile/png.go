package imagefile

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

const exifChunk = "eXIf"

// pngChunk is one chunk of a PNG file (type plus data, CRC excluded).
type pngChunk struct {
	typ  string
	data []byte
}

// pngContainer is a chunk-level view of a PNG file.
type pngContainer struct {
	chunks []pngChunk
}

// parsePNG splits a PNG into its chunks, verifying each CRC.
func parsePNG(data []byte) (*pngContainer, error) {
	c := &pngContainer{}
	pos := 8 // past signature

	for pos < len(data) {
		if pos+8 > len(data) {
			return nil, fmt.Errorf("truncated PNG chunk header at offset %d", pos)
		}
		length := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		typ := string(data[pos+4 : pos+8])
		if pos+12+length > len(data) {
			return nil, fmt.Errorf("truncated PNG chunk %q at offset %d", typ, pos)
		}

		chunkData := data[pos+8 : pos+8+length]
		want := binary.BigEndian.Uint32(data[pos+8+length : pos+12+length])
		if crc32.ChecksumIEEE(data[pos+4:pos+8+length]) != want {
			return nil, fmt.Errorf("PNG chunk %q has bad CRC", typ)
		}

		c.chunks = append(c.chunks, pngChunk{typ: typ, data: chunkData})
		pos += 12 + length

		if typ == "IEND" {
			break
		}
	}

	if len(c.chunks) == 0 || c.chunks[len(c.chunks)-1].typ != "IEND" {
		return nil, fmt.Errorf("PNG missing IEND chunk")
	}
	return c, nil
}

func (c *pngContainer) metadata() []byte {
	for _, ch := range c.chunks {
		if ch.typ == exifChunk {
			return ch.data
		}
	}
	return nil
}

func (c *pngContainer) render(payload []byte) ([]byte, error) {
	out := append([]byte(nil), pngSignature...)
	written := false

	writeChunk := func(typ string, data []byte) {
		out = binary.BigEndian.AppendUint32(out, uint32(len(data)))
		out = append(out, typ...)
		out = append(out, data...)
		crc := crc32.NewIEEE()
		crc.Write([]byte(typ))
		crc.Write(data)
		out = binary.BigEndian.AppendUint32(out, crc.Sum32())
	}

	for _, ch := range c.chunks {
		switch {
		case ch.typ == exifChunk:
			// Replace (or drop, when payload is nil) in place.
			if payload != nil && !written {
				writeChunk(exifChunk, payload)
				written = true
			}
		default:
			writeChunk(ch.typ, ch.data)
			// A file with no prior eXIf chunk gets the new one right
			// after IHDR.
			if ch.typ == "IHDR" && payload != nil && c.metadata() == nil {
				writeChunk(exifChunk, payload)
				written = true
			}
		}
	}

	return out, nil
}
