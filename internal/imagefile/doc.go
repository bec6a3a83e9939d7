// Package imagefile is the container adapter: it opens an image file,
// exposes its raw metadata segment, and rewrites the file with a
// replacement segment while copying everything else byte-for-byte.
//
// Supported containers:
//   - JPEG: the EXIF payload lives in an APP1 segment prefixed with
//     "Exif\x00\x00". Rewriting splices a new APP1 (or removes it) and
//     copies all other segments and the entropy-coded scan data
//     verbatim.
//   - PNG: the EXIF payload lives in an eXIf chunk. Rewriting replaces
//     or inserts the chunk after IHDR with a recomputed CRC.
//
// The package never decodes pixel data.
//
//	f, err := imagefile.Open("photo.jpg")
//	if err != nil {
//		return err
//	}
//	raw := f.Metadata()        // nil when the file has no EXIF block
//	err = f.Rewrite(newBytes)  // or f.Rewrite(nil) to strip it
package imagefile
