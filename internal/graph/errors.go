package graph

import "fmt"

// ConstructionError reports one rejected item during graph construction. The
// offending chunk, entity, or relation is dropped and the rest of the build
// proceeds; the pipeline surfaces the collected rejections in its run report.
type ConstructionError struct {
	Item   string // "chunk", "entity", or "relation"
	ID     string // chunk id, entity key, or relation endpoints
	Reason string
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("graph construction: %s %q: %s", e.Item, e.ID, e.Reason)
}

// SerializationError reports an I/O failure while writing or reading a graph
// artifact. It is surfaced to the caller and never retried here.
type SerializationError struct {
	Path string
	Op   string // "write" or "read"
	Err  error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("%s graph %s: %v", e.Op, e.Path, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// ParseError reports a malformed record in an on-disk graph. Record names the
// offending node or edge so the artifact can be diagnosed without rerunning.
type ParseError struct {
	Record string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse graph: %s: %s", e.Record, e.Reason)
}
