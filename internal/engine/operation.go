package engine

import (
	"fmt"

	"github.com/handiism/exif-batch/internal/exif"
	"github.com/handiism/exif-batch/internal/imagefile"
	"github.com/handiism/exif-batch/internal/model"
)

// Image is one opened image file as the engine sees it.
type Image interface {
	// Metadata returns the raw metadata payload, nil when absent.
	Metadata() []byte

	// Rewrite writes the file back with a replacement metadata
	// payload; nil strips the metadata segment.
	Rewrite(payload []byte) error
}

// Adapter is the codec boundary: everything the engine knows about
// opening image files. The production implementation is backed by the
// imagefile package; tests substitute fakes.
type Adapter interface {
	Open(path string) (Image, error)
}

// fileAdapter is the production Adapter.
type fileAdapter struct{}

func (fileAdapter) Open(path string) (Image, error) {
	return imagefile.Open(path)
}

// extract reads one file's metadata, consulting the cache first.
//
// A cache hit is a pure in-memory read. On a miss the file is opened
// through the adapter, decoded, resolved to tag names, and memoized.
// The "no metadata" outcome is memoized the same way. Any failure is
// captured in the outcome; it never escapes to siblings.
func (e *Engine) extract(path string) model.Outcome {
	fp := FingerprintPath(path)
	if tags, noMetadata, ok := e.cache.Get(fp); ok {
		return model.Outcome{Path: path, Tags: tags, NoMetadata: noMetadata}
	}

	img, err := e.adapter.Open(path)
	if err != nil {
		return model.Outcome{Path: path, Err: err}
	}

	raw := img.Metadata()
	if raw == nil {
		e.cache.Put(fp, nil, true)
		return model.Outcome{Path: path, NoMetadata: true}
	}

	block, err := exif.Decode(raw)
	if err != nil {
		return model.Outcome{Path: path, Err: fmt.Errorf("decode metadata: %w", err)}
	}

	if e.thumbs != nil && len(block.Thumbnail) > 0 {
		if err := e.thumbs.Export(path, block.Thumbnail); err != nil {
			e.progress(ProgressEvent{
				Message: fmt.Sprintf("Thumbnail export failed for %s: %v", path, err),
				Level:   LevelWarning,
			})
		}
	}

	tags := block.Flatten()
	e.cache.Put(fp, tags, false)
	return model.Outcome{Path: path, Tags: tags}
}

// modify sets one tag to a new value in one file.
//
// Modification never creates a metadata block from nothing: a file
// without one reports "no metadata" and is left untouched. The value
// kind is not validated against the tag's schema; writing text into a
// field a camera wrote as a rational is allowed.
func (e *Engine) modify(path, tagName string, value model.TagValue) model.Outcome {
	img, err := e.adapter.Open(path)
	if err != nil {
		return model.Outcome{Path: path, Err: err}
	}

	raw := img.Metadata()
	if raw == nil {
		return model.Outcome{Path: path, NoMetadata: true}
	}

	block, err := exif.Decode(raw)
	if err != nil {
		return model.Outcome{Path: path, Err: fmt.Errorf("decode metadata: %w", err)}
	}

	id, dir, ok := exif.ResolveName(tagName)
	if !ok {
		return model.Outcome{Path: path, Err: fmt.Errorf("tag not found: %q", tagName)}
	}
	block.Set(dir, id, value)

	payload, err := exif.Encode(block)
	if err != nil {
		return model.Outcome{Path: path, Err: fmt.Errorf("encode metadata: %w", err)}
	}
	if err := img.Rewrite(payload); err != nil {
		return model.Outcome{Path: path, Err: err}
	}

	e.cache.Invalidate(FingerprintPath(path))
	return model.Outcome{
		Path:   path,
		Status: fmt.Sprintf("%s set to %s", exif.DisplayName(id), value),
	}
}

// delete strips the metadata block from one file unconditionally.
// Pixel data is untouched; there is no selective tag deletion.
func (e *Engine) delete(path string) model.Outcome {
	img, err := e.adapter.Open(path)
	if err != nil {
		return model.Outcome{Path: path, Err: err}
	}

	if err := img.Rewrite(nil); err != nil {
		return model.Outcome{Path: path, Err: err}
	}

	e.cache.Invalidate(FingerprintPath(path))
	return model.Outcome{Path: path, Status: "metadata removed"}
}
