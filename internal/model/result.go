package model

import "strings"

// Operation is one of the batch operations the engine can run.
type Operation string

const (
	// OpExtract reads metadata from each file and reports it.
	OpExtract Operation = "extract"

	// OpModify sets one tag to a new value in each file.
	OpModify Operation = "modify"

	// OpDelete strips the metadata block from each file.
	OpDelete Operation = "delete"
)

// ParseOperation maps a user-supplied operation name (case-insensitive)
// to an Operation. The second return is false for anything outside the
// closed set.
func ParseOperation(s string) (Operation, bool) {
	switch Operation(strings.ToLower(strings.TrimSpace(s))) {
	case OpExtract:
		return OpExtract, true
	case OpModify:
		return OpModify, true
	case OpDelete:
		return OpDelete, true
	}
	return "", false
}

// Outcome is the result of applying one operation to one file.
//
// Exactly one of the terminal states holds:
//   - Err != nil: the per-file operation failed (I/O, decode, encode).
//   - NoMetadata: the file carries no metadata block (extract/modify).
//   - otherwise success: Tags is set for extract, Status for modify/delete.
//
// Outcomes are plain values; per-file failures never propagate as
// errors to the dispatcher.
type Outcome struct {
	// Path is the file this outcome belongs to.
	Path string

	// Tags holds the extracted metadata on a successful extract.
	Tags MetadataMap

	// NoMetadata is set when the file has no metadata block.
	NoMetadata bool

	// Status is a human-readable line for modify/delete successes.
	Status string

	// Err is the isolated per-file failure, if any.
	Err error
}
