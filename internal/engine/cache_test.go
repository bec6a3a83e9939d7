package engine

import (
	"sync"
	"testing"

	"github.com/handiism/exif-batch/internal/model"
)

func TestFingerprintPath(t *testing.T) {
	a := FingerprintPath("/photos/a.jpg")
	b := FingerprintPath("/photos/b.jpg")
	if a == b {
		t.Error("distinct paths must have distinct fingerprints")
	}
	if a != FingerprintPath("/photos/a.jpg") {
		t.Error("fingerprints must be stable")
	}
}

func TestCachePutGet(t *testing.T) {
	c := NewCache()
	fp := FingerprintPath("/photos/a.jpg")

	if _, _, ok := c.Get(fp); ok {
		t.Fatal("empty cache should miss")
	}

	tags := model.MetadataMap{"Make": model.Text("Canon")}
	c.Put(fp, tags, false)

	got, noMeta, ok := c.Get(fp)
	if !ok || noMeta {
		t.Fatalf("Get = (%v, %v, %v)", got, noMeta, ok)
	}
	if !got["Make"].Equal(model.Text("Canon")) {
		t.Errorf("Make = %v", got["Make"])
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestCacheNoMetadataEntry(t *testing.T) {
	c := NewCache()
	fp := FingerprintPath("/photos/bare.jpg")

	c.Put(fp, nil, true)
	tags, noMeta, ok := c.Get(fp)
	if !ok {
		t.Fatal("no-metadata entry should hit")
	}
	if !noMeta || tags != nil {
		t.Errorf("Get = (%v, %v)", tags, noMeta)
	}
}

func TestCacheInvalidate(t *testing.T) {
	c := NewCache()
	fp := FingerprintPath("/photos/a.jpg")
	c.Put(fp, model.MetadataMap{}, false)

	c.Invalidate(fp)
	if _, _, ok := c.Get(fp); ok {
		t.Error("invalidated entry should miss")
	}

	// Invalidating an absent key is a no-op.
	c.Invalidate(fp)
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := NewCache()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			fp := FingerprintPath(string(rune('a' + n)))
			for j := 0; j < 100; j++ {
				c.Put(fp, model.MetadataMap{}, false)
				c.Get(fp)
				c.Invalidate(fp)
			}
		}(i)
	}
	wg.Wait()
}
