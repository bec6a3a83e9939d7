package exif

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/handiism/exif-batch/internal/model"
)

// TIFF field types used in IFD entries.
const (
	typeByte      = 1
	typeASCII     = 2
	typeShort     = 3
	typeLong      = 4
	typeRational  = 5
	typeUndefined = 7
	typeSLong     = 9
	typeSRational = 10
)

// typeSizes maps a TIFF field type to its per-element byte size.
var typeSizes = map[uint16]uint32{
	typeByte:      1,
	typeASCII:     1,
	typeShort:     2,
	typeLong:      4,
	typeRational:  8,
	typeUndefined: 1,
	typeSLong:     4,
	typeSRational: 8,
}

// Entry is one decoded tag within a directory.
//
// Type is the original TIFF field type; it is preserved so that a
// decode/encode round trip keeps the on-disk representation stable.
type Entry struct {
	Type  uint16
	Value model.TagValue
}

// Block is a fully decoded metadata block: the five directories plus
// the embedded thumbnail image, if the 1st IFD carries one.
//
// Sub-IFD pointer tags (ExifOffset, GPSInfo, InteroperabilityOffset)
// and the thumbnail offset/length pair are structural; Decode consumes
// them and Encode regenerates them, so they never appear as entries.
type Block struct {
	Dirs      map[Directory]map[uint16]Entry
	Thumbnail []byte
}

// NewBlock returns an empty Block with all directories allocated.
func NewBlock() *Block {
	dirs := make(map[Directory]map[uint16]Entry, len(directories))
	for _, d := range directories {
		dirs[d] = make(map[uint16]Entry)
	}
	return &Block{Dirs: dirs}
}

// Empty reports whether the block carries no entries and no thumbnail.
func (b *Block) Empty() bool {
	for _, entries := range b.Dirs {
		if len(entries) > 0 {
			return false
		}
	}
	return len(b.Thumbnail) == 0
}

// Set stores a value at [dir][id], replacing any previous entry. The
// field type is chosen from the value kind; an existing entry's type
// wins when it is compatible with the kind.
func (b *Block) Set(dir Directory, id uint16, v model.TagValue) {
	typ := fieldTypeFor(v)
	if prev, ok := b.Dirs[dir][id]; ok && compatibleType(prev.Type, v.Kind) {
		typ = prev.Type
	}
	b.Dirs[dir][id] = Entry{Type: typ, Value: v}
}

// Flatten resolves every entry to its display name and collects the
// values into one MetadataMap across all directories.
func (b *Block) Flatten() model.MetadataMap {
	m := make(model.MetadataMap)
	for _, entries := range b.Dirs {
		for id, e := range entries {
			m[DisplayName(id)] = e.Value
		}
	}
	return m
}

func fieldTypeFor(v model.TagValue) uint16 {
	switch v.Kind {
	case model.KindText:
		return typeASCII
	case model.KindInteger:
		return typeLong
	case model.KindRational:
		return typeRational
	default:
		return typeUndefined
	}
}

func compatibleType(typ uint16, kind model.ValueKind) bool {
	switch kind {
	case model.KindText:
		return typ == typeASCII
	case model.KindInteger:
		return typ == typeShort || typ == typeLong || typ == typeSLong
	case model.KindRational:
		return typ == typeRational || typ == typeSRational
	case model.KindRaw:
		return typ == typeByte || typ == typeUndefined
	}
	return false
}

// Decode parses a TIFF-structured EXIF payload (the bytes following the
// "Exif\x00\x00" header in a JPEG APP1 segment, or a PNG eXIf chunk)
// into a Block.
func Decode(data []byte) (*Block, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("exif payload too short (%d bytes)", len(data))
	}

	var order binary.ByteOrder
	switch {
	case data[0] == 'I' && data[1] == 'I':
		order = binary.LittleEndian
	case data[0] == 'M' && data[1] == 'M':
		order = binary.BigEndian
	default:
		return nil, fmt.Errorf("invalid TIFF byte order mark %q", data[:2])
	}
	if order.Uint16(data[2:4]) != 42 {
		return nil, fmt.Errorf("invalid TIFF magic")
	}

	block := NewBlock()
	d := &decoder{data: data, order: order}

	ifd0 := order.Uint32(data[4:8])
	next, err := d.parseIFD(ifd0, DirPrimary, block)
	if err != nil {
		return nil, fmt.Errorf("primary IFD: %w", err)
	}

	// Fixed parse order: the Exif IFD can itself carry the
	// Interoperability pointer, so it must be parsed before the Interop
	// offset is looked up.
	for _, dir := range []Directory{DirExif, DirGPS, DirInterop} {
		off, ok := d.subIFDs[dir]
		if !ok {
			continue
		}
		if _, err := d.parseIFD(off, dir, block); err != nil {
			return nil, fmt.Errorf("%s IFD: %w", dir, err)
		}
	}

	if next != 0 {
		if _, err := d.parseIFD(next, DirThumbnail, block); err != nil {
			return nil, fmt.Errorf("thumbnail IFD: %w", err)
		}
		d.extractThumbnail(block)
	}

	return block, nil
}

type decoder struct {
	data    []byte
	order   binary.ByteOrder
	subIFDs map[Directory]uint32

	thumbOffset uint32
	thumbLength uint32
}

// parseIFD decodes one directory's entries into the block and returns
// the offset of the next IFD in the chain (0 when there is none).
func (d *decoder) parseIFD(offset uint32, dir Directory, block *Block) (uint32, error) {
	if int(offset)+2 > len(d.data) {
		return 0, fmt.Errorf("offset %d out of bounds", offset)
	}
	count := d.order.Uint16(d.data[offset : offset+2])
	pos := offset + 2

	for i := 0; i < int(count); i++ {
		if int(pos)+12 > len(d.data) {
			return 0, fmt.Errorf("entry %d truncated", i)
		}
		id := d.order.Uint16(d.data[pos : pos+2])
		typ := d.order.Uint16(d.data[pos+2 : pos+4])
		n := d.order.Uint32(d.data[pos+4 : pos+8])

		switch {
		// Sub-IFD pointers sit in IFD0, except the interoperability
		// pointer which most writers place inside the Exif IFD.
		case (dir == DirPrimary || dir == DirExif) && (id == tagExifOffset || id == tagGPSInfo || id == tagInteropOffset):
			if d.subIFDs == nil {
				d.subIFDs = make(map[Directory]uint32, 3)
			}
			target := DirExif
			if id == tagGPSInfo {
				target = DirGPS
			} else if id == tagInteropOffset {
				target = DirInterop
			}
			d.subIFDs[target] = d.order.Uint32(d.data[pos+8 : pos+12])

		case dir == DirThumbnail && id == tagThumbOffset:
			d.thumbOffset = d.order.Uint32(d.data[pos+8 : pos+12])

		case dir == DirThumbnail && id == tagThumbLength:
			d.thumbLength = d.order.Uint32(d.data[pos+8 : pos+12])

		default:
			value, err := d.decodeValue(typ, n, d.data[pos+8:pos+12])
			if err != nil {
				return 0, fmt.Errorf("tag 0x%04X: %w", id, err)
			}
			block.Dirs[dir][id] = Entry{Type: typ, Value: value}
		}

		pos += 12
	}

	if int(pos)+4 > len(d.data) {
		return 0, nil
	}
	return d.order.Uint32(d.data[pos : pos+4]), nil
}

// decodeValue resolves an entry's payload, following the offset when it
// doesn't fit in the inline four bytes, and converts it to a TagValue.
func (d *decoder) decodeValue(typ uint16, count uint32, inline []byte) (model.TagValue, error) {
	elemSize, ok := typeSizes[typ]
	if !ok {
		// Unknown field type: keep the inline bytes opaque.
		return model.Raw(append([]byte(nil), inline...)), nil
	}

	size := elemSize * count
	var raw []byte
	if size <= 4 {
		raw = inline[:size]
	} else {
		off := d.order.Uint32(inline)
		if int(off)+int(size) > len(d.data) {
			return model.TagValue{}, fmt.Errorf("value offset %d out of bounds", off)
		}
		raw = d.data[off : off+size]
	}

	switch {
	case typ == typeASCII:
		s := string(raw)
		for len(s) > 0 && s[len(s)-1] == 0 {
			s = s[:len(s)-1]
		}
		return model.Text(s), nil

	case typ == typeShort && count == 1:
		return model.Integer(int64(d.order.Uint16(raw))), nil

	case typ == typeLong && count == 1:
		return model.Integer(int64(d.order.Uint32(raw))), nil

	case typ == typeSLong && count == 1:
		return model.Integer(int64(int32(d.order.Uint32(raw)))), nil

	case typ == typeRational && count == 1:
		return model.Rational(int64(d.order.Uint32(raw[:4])), int64(d.order.Uint32(raw[4:]))), nil

	case typ == typeSRational && count == 1:
		return model.Rational(int64(int32(d.order.Uint32(raw[:4]))), int64(int32(d.order.Uint32(raw[4:])))), nil

	default:
		// Multi-element numerics and byte payloads stay opaque; the
		// preserved field type keeps re-encoding lossless.
		return model.Raw(append([]byte(nil), raw...)), nil
	}
}

// extractThumbnail pulls the embedded thumbnail image referenced by the
// 1st IFD's offset/length pair into the block.
func (d *decoder) extractThumbnail(block *Block) {
	if d.thumbOffset == 0 || d.thumbLength == 0 {
		return
	}
	end := int(d.thumbOffset) + int(d.thumbLength)
	if end > len(d.data) {
		return
	}
	block.Thumbnail = append([]byte(nil), d.data[d.thumbOffset:end]...)
}

// rawEntry is a serialized IFD entry: field type, element count, and
// the encoded payload bytes.
type rawEntry struct {
	id      uint16
	typ     uint16
	count   uint32
	payload []byte
}

// Encode serializes the block back to a TIFF-structured EXIF payload.
//
// Output is always little-endian, regardless of the byte order the
// block was decoded from. Sub-IFD pointers, the IFD chain link, and the
// thumbnail offset/length pair are regenerated from block contents.
func Encode(b *Block) ([]byte, error) {
	primary, err := dirEntries(b, DirPrimary)
	if err != nil {
		return nil, err
	}
	exifDir, err := dirEntries(b, DirExif)
	if err != nil {
		return nil, err
	}
	gps, err := dirEntries(b, DirGPS)
	if err != nil {
		return nil, err
	}
	interop, err := dirEntries(b, DirInterop)
	if err != nil {
		return nil, err
	}
	thumb, err := dirEntries(b, DirThumbnail)
	if err != nil {
		return nil, err
	}

	// Reserve pointer entries in IFD0 for every populated sub-IFD.
	if len(exifDir) > 0 {
		primary = addPointer(primary, tagExifOffset)
	}
	if len(gps) > 0 {
		primary = addPointer(primary, tagGPSInfo)
	}
	if len(interop) > 0 {
		primary = addPointer(primary, tagInteropOffset)
	}
	if len(b.Thumbnail) > 0 {
		thumb = addPointer(thumb, tagThumbOffset)
		thumb = addPointer(thumb, tagThumbLength)
	}

	// Fixed layout: header, IFD0, Exif, GPS, Interop, IFD1, thumbnail.
	offset := uint32(8)
	ifd0Off := offset
	offset += blockSize(primary)

	var exifOff, gpsOff, interopOff, ifd1Off, thumbDataOff uint32
	if len(exifDir) > 0 {
		exifOff = offset
		offset += blockSize(exifDir)
	}
	if len(gps) > 0 {
		gpsOff = offset
		offset += blockSize(gps)
	}
	if len(interop) > 0 {
		interopOff = offset
		offset += blockSize(interop)
	}
	if len(thumb) > 0 {
		ifd1Off = offset
		offset += blockSize(thumb)
	}
	if len(b.Thumbnail) > 0 {
		thumbDataOff = offset
	}

	setPointer(primary, tagExifOffset, exifOff)
	setPointer(primary, tagGPSInfo, gpsOff)
	setPointer(primary, tagInteropOffset, interopOff)
	setPointer(thumb, tagThumbOffset, thumbDataOff)
	setPointer(thumb, tagThumbLength, uint32(len(b.Thumbnail)))

	out := make([]byte, 0, offset+uint32(len(b.Thumbnail)))
	out = append(out, 'I', 'I', 42, 0)
	out = binary.LittleEndian.AppendUint32(out, ifd0Off)

	out = writeIFD(out, primary, ifd0Off, ifd1Off)
	if len(exifDir) > 0 {
		out = writeIFD(out, exifDir, exifOff, 0)
	}
	if len(gps) > 0 {
		out = writeIFD(out, gps, gpsOff, 0)
	}
	if len(interop) > 0 {
		out = writeIFD(out, interop, interopOff, 0)
	}
	if len(thumb) > 0 {
		out = writeIFD(out, thumb, ifd1Off, 0)
	}
	out = append(out, b.Thumbnail...)

	return out, nil
}

// dirEntries converts one directory's entries to sorted raw entries.
func dirEntries(b *Block, dir Directory) ([]rawEntry, error) {
	entries := make([]rawEntry, 0, len(b.Dirs[dir]))
	for id, e := range b.Dirs[dir] {
		raw, err := encodeEntry(id, e)
		if err != nil {
			return nil, fmt.Errorf("%s tag 0x%04X: %w", dir, id, err)
		}
		entries = append(entries, raw)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })
	return entries, nil
}

// encodeEntry serializes one entry's value per its field type.
func encodeEntry(id uint16, e Entry) (rawEntry, error) {
	v := e.Value
	typ := e.Type
	if !compatibleType(typ, v.Kind) {
		typ = fieldTypeFor(v)
	}

	var payload []byte
	var count uint32
	switch v.Kind {
	case model.KindText:
		payload = append([]byte(v.Text), 0)
		count = uint32(len(payload))

	case model.KindInteger:
		switch typ {
		case typeShort:
			if v.Integer < 0 || v.Integer > 0xFFFF {
				typ = typeLong
				payload = binary.LittleEndian.AppendUint32(nil, uint32(v.Integer))
			} else {
				payload = binary.LittleEndian.AppendUint16(nil, uint16(v.Integer))
			}
		case typeSLong:
			payload = binary.LittleEndian.AppendUint32(nil, uint32(int32(v.Integer)))
		default:
			payload = binary.LittleEndian.AppendUint32(nil, uint32(v.Integer))
		}
		count = 1

	case model.KindRational:
		payload = binary.LittleEndian.AppendUint32(nil, uint32(v.Num))
		payload = binary.LittleEndian.AppendUint32(payload, uint32(v.Den))
		count = 1

	case model.KindRaw:
		payload = v.Raw
		elemSize := typeSizes[typ]
		if elemSize == 0 {
			return rawEntry{}, fmt.Errorf("unencodable field type %d", typ)
		}
		if uint32(len(payload))%elemSize != 0 {
			return rawEntry{}, fmt.Errorf("payload length %d not a multiple of element size %d", len(payload), elemSize)
		}
		count = uint32(len(payload)) / elemSize
	}

	return rawEntry{id: id, typ: typ, count: count, payload: payload}, nil
}

func addPointer(entries []rawEntry, id uint16) []rawEntry {
	entries = append(entries, rawEntry{id: id, typ: typeLong, count: 1, payload: make([]byte, 4)})
	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })
	return entries
}

func setPointer(entries []rawEntry, id uint16, value uint32) {
	for i := range entries {
		if entries[i].id == id {
			binary.LittleEndian.PutUint32(entries[i].payload, value)
			return
		}
	}
}

// blockSize is the serialized size of one IFD: the entry table plus
// every out-of-line payload (padded to two-byte alignment).
func blockSize(entries []rawEntry) uint32 {
	size := uint32(2 + 12*len(entries) + 4)
	for _, e := range entries {
		if len(e.payload) > 4 {
			size += uint32(len(e.payload) + len(e.payload)%2)
		}
	}
	return size
}

// writeIFD appends one IFD (entry table, next-IFD link, out-of-line
// data area) at its precomputed offset.
func writeIFD(out []byte, entries []rawEntry, offset, next uint32) []byte {
	dataOff := offset + uint32(2+12*len(entries)+4)

	out = binary.LittleEndian.AppendUint16(out, uint16(len(entries)))
	var data []byte
	for _, e := range entries {
		out = binary.LittleEndian.AppendUint16(out, e.id)
		out = binary.LittleEndian.AppendUint16(out, e.typ)
		out = binary.LittleEndian.AppendUint32(out, e.count)
		if len(e.payload) <= 4 {
			inline := make([]byte, 4)
			copy(inline, e.payload)
			out = append(out, inline...)
		} else {
			out = binary.LittleEndian.AppendUint32(out, dataOff)
			data = append(data, e.payload...)
			if len(e.payload)%2 != 0 {
				data = append(data, 0)
			}
			dataOff += uint32(len(e.payload) + len(e.payload)%2)
		}
	}
	out = binary.LittleEndian.AppendUint32(out, next)
	out = append(out, data...)
	return out
}
