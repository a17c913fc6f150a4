package schema

import (
	"fmt"
	"strings"
)

// PathSegment is one step into a JSON document: an object key or an array index.
type PathSegment struct {
	Key     string
	Index   int
	IsIndex bool
}

// Path locates a value inside a JSON document, e.g.
// nftables[0].add.rule.expr[1].counter.packets.
type Path []PathSegment

func (p Path) String() string {
	if len(p) == 0 {
		return "."
	}
	var sb strings.Builder
	for i, s := range p {
		if s.IsIndex {
			fmt.Fprintf(&sb, "[%d]", s.Index)
			continue
		}
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(s.Key)
	}
	return sb.String()
}

// key returns a new path extended by an object key. The receiver is never
// modified, so sibling paths do not share backing arrays.
func (p Path) key(k string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, PathSegment{Key: k})
}

func (p Path) index(i int) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, PathSegment{Index: i, IsIndex: true})
}

// DecodeError reports the first place where a document does not match the
// nftables JSON grammar.
type DecodeError struct {
	Path     Path
	Expected string
	Actual   string
	// Offset is the byte offset of a syntax error. It is zero for
	// structural errors.
	Offset int64
}

func (e *DecodeError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("invalid JSON at offset %d: %s", e.Offset, e.Actual)
	}
	return fmt.Sprintf("%s: expected %s, found %s", e.Path, e.Expected, e.Actual)
}

// EncodeError wraps a failure to serialize a value. Well formed model values
// never produce one; it surfaces only for raw xt payloads that are not
// valid JSON.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode nftables document: %v", e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}
