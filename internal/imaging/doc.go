// Package imaging provides image processing for exported thumbnails.
//
// Extraction can save the thumbnail embedded in a file's metadata
// block to a folder on disk. ThumbnailService handles the resize,
// JPEG re-encode, and filename sanitization for that export:
//
//	svc := imaging.NewThumbnailService("/photos/thumbs", 160)
//	err := svc.Export("photo.jpg", thumbBytes)
//	// writes /photos/thumbs/photo_thumb.jpg, at most 160px per side
package imaging
