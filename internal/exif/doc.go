// Package exif implements the EXIF tag dictionary, the tag-name
// resolver, and the TIFF/IFD codec for metadata blocks.
//
// # Tag resolution
//
// Tag names resolve to numeric IDs and their owning directory via
// static tables built from the standard EXIF tag ontology:
//
//	id, dir, ok := exif.ResolveName("GPSLatitude")
//	// id == 0x0002, dir == exif.DirGPS
//
// Directory assignment is a total function: an ID is checked against
// the five directory sets in precedence order (Primary, Exif, GPS,
// Interoperability, Thumbnail) and falls back to Primary when no set
// claims it.
//
// # Block codec
//
// Decode and Encode convert between the raw TIFF-structured payload of
// an image's metadata segment and a Block, a five-directory map of
// typed entries plus the embedded thumbnail:
//
//	block, err := exif.Decode(payload)
//	block.Set(exif.DirPrimary, 0x013B, model.Text("Bob"))
//	payload, err = exif.Encode(block)
//
// Decode accepts both byte orders; Encode always emits little-endian
// with regenerated offsets.
package exif
