package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/handiism/exif-batch/internal/config"
	"github.com/handiism/exif-batch/internal/imaging"
	"github.com/handiism/exif-batch/internal/model"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a processing progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// ConfigError is a pre-flight problem with the requested run (unknown
// operation, missing modify parameters, bad folder). It aborts the run
// before any file I/O.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "configuration error: " + e.Reason
}

// Engine orchestrates a batch metadata run: discovery, dispatch, and
// result aggregation.
//
// An Engine owns its result cache, so each Engine value represents one
// run scope; create a fresh Engine per run to avoid stale cache state.
type Engine struct {
	settings   *config.Settings
	adapter    Adapter
	cache      *Cache
	dispatcher *Dispatcher
	thumbs     *imaging.ThumbnailService
	onProgress func(ProgressEvent)

	totalFiles int32
	doneFiles  int32
}

// New creates an Engine with the production codec adapter.
func New(settings *config.Settings, onProgress func(ProgressEvent)) *Engine {
	e := &Engine{
		settings:   settings,
		adapter:    fileAdapter{},
		cache:      NewCache(),
		dispatcher: NewDispatcher(settings.BatchSize, settings.Workers),
		onProgress: onProgress,
	}
	if settings.SaveThumbnails {
		e.thumbs = imaging.NewThumbnailService(settings.ThumbnailsPath, settings.ThumbnailMaxSize)
	}
	return e
}

// Run executes one batch operation over every eligible image file in
// folder and returns the aggregated report.
//
// Configuration and enumeration errors abort the run with an error and
// no report. Per-file failures never do; they surface as error
// outcomes inside the report, and the report always contains exactly
// one outcome per eligible file.
//
// tag and value are only meaningful for modify; both are mandatory
// there and ignored elsewhere.
func (e *Engine) Run(ctx context.Context, folder string, op model.Operation, tag string, value model.TagValue) (*Report, error) {
	apply, err := e.operation(op, tag, value)
	if err != nil {
		return nil, err
	}

	files, err := e.enumerate(folder)
	if err != nil {
		return nil, err
	}

	report := &Report{Operation: op}
	if len(files) == 0 {
		e.progress(ProgressEvent{Message: fmt.Sprintf("No eligible image files in %s", folder), Level: LevelWarning})
		return report, nil
	}

	e.progress(ProgressEvent{Message: fmt.Sprintf("Processing %d file(s) with %s", len(files), op), Level: LevelInfo})
	atomic.StoreInt32(&e.totalFiles, int32(len(files)))
	atomic.StoreInt32(&e.doneFiles, 0)

	start := time.Now()
	outcomes, err := e.dispatcher.Run(ctx, files, func(path string) model.Outcome {
		out := apply(path)
		atomic.AddInt32(&e.doneFiles, 1)
		e.reportOutcome(out)
		return out
	})
	if err != nil {
		return nil, err
	}

	report.Results = outcomes
	report.Elapsed = time.Since(start)
	return report, nil
}

// operation validates the request and binds it to a per-file function.
// Validation happens here, before any file I/O.
func (e *Engine) operation(op model.Operation, tag string, value model.TagValue) (func(string) model.Outcome, error) {
	switch op {
	case model.OpExtract:
		return e.extract, nil
	case model.OpDelete:
		return e.delete, nil
	case model.OpModify:
		if strings.TrimSpace(tag) == "" {
			return nil, &ConfigError{Reason: "modify requires a tag name"}
		}
		if value.Kind == model.KindText && value.Text == "" {
			return nil, &ConfigError{Reason: "modify requires a non-empty value"}
		}
		if value.Kind == model.KindRaw && len(value.Raw) == 0 {
			return nil, &ConfigError{Reason: "modify requires a non-empty value"}
		}
		return func(path string) model.Outcome {
			return e.modify(path, tag, value)
		}, nil
	default:
		return nil, &ConfigError{Reason: fmt.Sprintf("unknown operation %q", op)}
	}
}

// enumerate lists the folder's eligible image files in directory-listing
// order, filtered by the configured extension allow-list.
func (e *Engine) enumerate(folder string) ([]string, error) {
	info, err := os.Stat(folder)
	if err != nil {
		return nil, fmt.Errorf("folder %q: %w", folder, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("folder %q: not a directory", folder)
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("list folder %q: %w", folder, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if e.eligible(entry.Name()) {
			files = append(files, filepath.Join(folder, entry.Name()))
		}
	}
	return files, nil
}

func (e *Engine) eligible(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range e.settings.Extensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

// reportOutcome emits a progress event for one finished file.
func (e *Engine) reportOutcome(out model.Outcome) {
	switch {
	case out.Err != nil:
		e.progress(ProgressEvent{Message: fmt.Sprintf("Error processing %s: %v", out.Path, out.Err), Level: LevelError})
	case out.NoMetadata:
		e.progress(ProgressEvent{Message: fmt.Sprintf("No metadata in %s", out.Path), Level: LevelVerbose})
	case out.Status != "":
		e.progress(ProgressEvent{Message: fmt.Sprintf("%s: %s", out.Path, out.Status), Level: LevelVerbose})
	default:
		e.progress(ProgressEvent{Message: fmt.Sprintf("Extracted %d tag(s) from %s", len(out.Tags), out.Path), Level: LevelVerbose})
	}
}

// Progress returns how many files have finished out of the current
// run's total. Safe to call from other goroutines while Run is active.
func (e *Engine) Progress() (done, total int32) {
	return atomic.LoadInt32(&e.doneFiles), atomic.LoadInt32(&e.totalFiles)
}

func (e *Engine) progress(event ProgressEvent) {
	if e.onProgress != nil {
		e.onProgress(event)
	}
}
