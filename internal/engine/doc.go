// Package engine provides the batch metadata-processing core: file
// discovery, the result cache, the per-file operations, and the batch
// dispatcher that runs them across a bounded worker pool.
//
// The Engine facade is the only entry point callers use:
//
//	eng := engine.New(settings, func(ev engine.ProgressEvent) {
//	    fmt.Println(ev.Message)
//	})
//	report, err := eng.Run(ctx, folder, model.OpExtract, "", model.TagValue{})
//	if err != nil {
//	    return err // configuration or enumeration error
//	}
//	report.Render(os.Stdout)
//
// Per-file failures never abort a run: every eligible file contributes
// exactly one outcome to the report, error outcomes included.
//
// # Concurrency
//
// The dispatcher processes the file list in fixed-size batches; within
// a batch an errgroup pool bounded by the worker count runs one file
// per task, and results are gathered back in input order. The result
// cache is the only state shared between workers; it is a single
// RWMutex-guarded map owned by the Engine, giving cross-worker
// deduplication of extract work within a run.
package engine
