package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/handiism/exif-batch/internal/model"
)

func TestDispatcherPreservesOrder(t *testing.T) {
	paths := make([]string, 50)
	for i := range paths {
		paths[i] = fmt.Sprintf("/img/%03d.jpg", i)
	}

	// Small batches, several workers: order must still hold.
	d := NewDispatcher(7, 4)
	outcomes, err := d.Run(context.Background(), paths, func(path string) model.Outcome {
		return model.Outcome{Path: path}
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(outcomes) != len(paths) {
		t.Fatalf("got %d outcomes, want %d", len(outcomes), len(paths))
	}
	for i, out := range outcomes {
		if out.Path != paths[i] {
			t.Errorf("outcome %d path = %q, want %q", i, out.Path, paths[i])
		}
	}
}

func TestDispatcherBoundsConcurrency(t *testing.T) {
	const workers = 3
	var active, peak int32
	var mu sync.Mutex

	paths := make([]string, 40)
	for i := range paths {
		paths[i] = fmt.Sprintf("%d", i)
	}

	d := NewDispatcher(40, workers)
	_, err := d.Run(context.Background(), paths, func(path string) model.Outcome {
		n := atomic.AddInt32(&active, 1)
		mu.Lock()
		if n > peak {
			peak = n
		}
		mu.Unlock()
		atomic.AddInt32(&active, -1)
		return model.Outcome{Path: path}
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if peak > workers {
		t.Errorf("peak concurrency %d exceeds worker limit %d", peak, workers)
	}
}

func TestDispatcherCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	paths := []string{"/a", "/b", "/c"}
	var applied int32

	d := NewDispatcher(1, 1)
	_, err := d.Run(ctx, paths, func(path string) model.Outcome {
		atomic.AddInt32(&applied, 1)
		return model.Outcome{Path: path}
	})
	if err == nil {
		t.Fatal("Run should return the cancellation error")
	}
	if n := atomic.LoadInt32(&applied); n != 0 {
		t.Errorf("%d files were applied after cancellation", n)
	}
}

func TestDispatcherDefaults(t *testing.T) {
	d := NewDispatcher(0, 0)
	if d.batchSize != 16 {
		t.Errorf("default batch size = %d, want 16", d.batchSize)
	}
	if d.workers < 1 {
		t.Errorf("default workers = %d", d.workers)
	}
}

func TestDispatcherEmptyInput(t *testing.T) {
	d := NewDispatcher(16, 2)
	outcomes, err := d.Run(context.Background(), nil, func(path string) model.Outcome {
		t.Error("apply should never be called")
		return model.Outcome{}
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(outcomes) != 0 {
		t.Errorf("got %d outcomes", len(outcomes))
	}
}
