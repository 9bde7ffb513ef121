// Package engerr defines the engine's error taxonomy.
//
// Behaviors, reactions, and the thermal pass never fail: bad inputs at those
// layers are treated as "no move" and are not represented here. Loading is
// fallible; stepping is infallible.
package engerr

import "fmt"

// CompileError reports a content-pack compilation failure: a schema
// violation, an unresolved reference, a duplicate ID, or an out-of-range
// value. It carries the offending file path and is not recoverable — the
// caller must fix the pack inputs and recompile.
type CompileError struct {
	Path  string
	Cause error
}

func (e *CompileError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("compile: %v", e.Cause)
	}
	return fmt.Sprintf("compile %s: %v", e.Path, e.Cause)
}

func (e *CompileError) Unwrap() error { return e.Cause }

// NewCompileError wraps cause with the file path that produced it.
func NewCompileError(path string, cause error) *CompileError {
	return &CompileError{Path: path, Cause: cause}
}

// SnapshotMismatch reports that a loaded snapshot's length does not match
// width*height. The world is left unchanged when this is returned.
type SnapshotMismatch struct {
	Want int
	Got  int
}

func (e *SnapshotMismatch) Error() string {
	return fmt.Sprintf("snapshot mismatch: want %d cells, got %d", e.Want, e.Got)
}

// InternalInvariant reports a failed sanity check on cell type or element
// ID. It should never trigger from valid input; when it does, the caller
// must tear down the world.
type InternalInvariant struct {
	Detail string
}

func (e *InternalInvariant) Error() string {
	return fmt.Sprintf("internal invariant violated: %s", e.Detail)
}

// NewInternalInvariant builds an InternalInvariant with a formatted detail.
func NewInternalInvariant(format string, args ...any) *InternalInvariant {
	return &InternalInvariant{Detail: fmt.Sprintf(format, args...)}
}
