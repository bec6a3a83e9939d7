package engine

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/handiism/exif-batch/internal/model"
)

// Report is the aggregated result of one run: one outcome per eligible
// file, in enumeration order, plus the elapsed wall-clock time.
type Report struct {
	Operation model.Operation
	Results   []model.Outcome
	Elapsed   time.Duration
}

// Counts returns how many outcomes succeeded, had no metadata, and
// failed.
func (r *Report) Counts() (ok, noMetadata, failed int) {
	for _, out := range r.Results {
		switch {
		case out.Err != nil:
			failed++
		case out.NoMetadata:
			noMetadata++
		default:
			ok++
		}
	}
	return ok, noMetadata, failed
}

// Render writes the human-readable report: a block per file for
// extract (tag: value lines indented under the filename), a status
// line per file for modify/delete, and a trailing summary with the
// operation name and elapsed seconds.
func (r *Report) Render(w io.Writer) {
	for _, out := range r.Results {
		switch {
		case out.Err != nil:
			fmt.Fprintf(w, "%s: error: %v\n", out.Path, out.Err)

		case out.NoMetadata:
			if r.Operation == model.OpModify {
				fmt.Fprintf(w, "%s: no metadata, cannot modify\n", out.Path)
			} else {
				fmt.Fprintf(w, "%s: no EXIF metadata found\n", out.Path)
			}

		case r.Operation == model.OpExtract:
			fmt.Fprintf(w, "%s:\n", out.Path)
			names := make([]string, 0, len(out.Tags))
			for name := range out.Tags {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(w, "    %s: %s\n", name, out.Tags[name])
			}

		default:
			fmt.Fprintf(w, "%s: %s\n", out.Path, out.Status)
		}
	}

	fmt.Fprintf(w, "%s completed in %.2f seconds\n", r.Operation, r.Elapsed.Seconds())
}
