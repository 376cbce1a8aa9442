package statusfile

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrMissingDagStatus is returned when a file parses cleanly but contains no
// DagStatus block. Without it there is nothing to summarize.
var ErrMissingDagStatus = errors.New("status file contains no DagStatus block")

// MalformedLineError reports a block-body line that does not match the
// expected "Key = value[; comment]" shape.
type MalformedLineError struct {
	Line int
	Text string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("line %d: malformed status line (no '='): %q", e.Line, e.Text)
}

// MissingFieldError reports a block that closed without a field required by
// its declared type.
type MissingFieldError struct {
	BlockType string
	Key       string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s block missing required field %q", e.BlockType, e.Key)
}

// UnknownBlockTypeError reports a block whose Type field is absent or not one
// of the known record kinds. The accumulated fields are carried for
// diagnostics; the upstream engine adding a new block type shows up here.
type UnknownBlockTypeError struct {
	Type   string
	Fields map[string]RawLine
}

func (e *UnknownBlockTypeError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if e.Type == "" {
		return fmt.Sprintf("block has no Type field (fields: %s)", strings.Join(keys, ", "))
	}
	return fmt.Sprintf("unknown block type %q (fields: %s)", e.Type, strings.Join(keys, ", "))
}

// InvalidRecordError reports a block whose fields were present but could not
// form a valid record, such as a non-numeric count or a zero node total.
type InvalidRecordError struct {
	BlockType string
	Reason    string
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("invalid %s record: %s", e.BlockType, e.Reason)
}
