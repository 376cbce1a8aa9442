// Package statusfile parses DAGMan-style node status files: periodically
// rewritten snapshots describing a DAG of batch jobs, written as a sequence
// of bracketed blocks of "Key = value; /* comment */" lines.
package statusfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattjoyce/dagstat/internal/log"
)

// Block type discriminators, the values the engine writes into each block's
// Type field. Treated as a closed set; anything else is format drift.
const (
	blockTypeDagStatus  = "DagStatus"
	blockTypeNodeStatus = "NodeStatus"
	blockTypeStatusEnd  = "StatusEnd"
)

// fields is the block-scoped accumulation of tokenized lines, keyed by field
// name. A fresh one is made per block and discarded on dispatch.
type fields map[string]RawLine

func (f fields) value(blockType, key string) (string, error) {
	rl, ok := f[key]
	if !ok {
		return "", &MissingFieldError{BlockType: blockType, Key: key}
	}
	return rl.Value, nil
}

func (f fields) comment(blockType, key string) (string, error) {
	rl, ok := f[key]
	if !ok {
		return "", &MissingFieldError{BlockType: blockType, Key: key}
	}
	return rl.Comment, nil
}

func (f fields) intValue(blockType, key string) (int, error) {
	s, err := f.value(blockType, key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &InvalidRecordError{
			BlockType: blockType,
			Reason:    fmt.Sprintf("field %s is not an integer: %q", key, s),
		}
	}
	return n, nil
}

// ParseFile opens and parses one status file. Open errors are reported
// per-file; the caller decides whether to continue with other files.
func ParseFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open status file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat status file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("status file %s is not a regular file", path)
	}

	return Parse(f)
}

// Parse reads one status file and returns its record set.
//
// The format is line-oriented: a line starting with "[" opens a block, a
// line starting with "]" closes it and dispatches on the accumulated Type
// field, a line containing "{" starts a sub-section whose header lines carry
// no fields, and a line containing "}" ends it. Body lines are tokenized by
// interpretLine. Lines outside any block are ignored.
//
// Attaching the node list to the DagStatus record is an explicit second
// phase after the file is fully read; until then the records are
// independent.
func Parse(r io.Reader) (*Result, error) {
	logger := log.WithComponent("parser")

	var (
		dagStatus    *DagStatus
		nodeStatuses []NodeStatus
		statusEnd    *StatusEnd
	)

	accumulating := false
	contents := make(fields)
	lineNo := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		lineNo++

		switch {
		case strings.HasPrefix(line, "["), strings.Contains(line, "}"):
			accumulating = true

		case strings.HasPrefix(line, "]"):
			blockType, ok := contents["Type"]
			if !ok {
				return nil, &UnknownBlockTypeError{Fields: contents}
			}
			switch blockType.Value {
			case blockTypeDagStatus:
				ds, err := newDagStatus(contents)
				if err != nil {
					return nil, err
				}
				logger.Debug("parsed DagStatus block", "nodes_total", ds.NodesTotal, "dag_status", ds.DagStatus)
				dagStatus = ds
			case blockTypeNodeStatus:
				ns, err := newNodeStatus(contents)
				if err != nil {
					return nil, err
				}
				logger.Debug("parsed NodeStatus block", "node", ns.Node, "status", ns.NodeStatus)
				nodeStatuses = append(nodeStatuses, *ns)
			case blockTypeStatusEnd:
				se, err := newStatusEnd(contents)
				if err != nil {
					return nil, err
				}
				logger.Debug("parsed StatusEnd block", "end_time", se.EndTime)
				statusEnd = se
			default:
				return nil, &UnknownBlockTypeError{Type: blockType.Value, Fields: contents}
			}
			contents = make(fields)
			accumulating = false

		case strings.Contains(line, "{"):
			accumulating = false

		case accumulating:
			rl, err := interpretLine(line, lineNo)
			if err != nil {
				return nil, err
			}
			contents[rl.Key] = rl
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read status file: %w", err)
	}

	if dagStatus == nil {
		return nil, ErrMissingDagStatus
	}
	dagStatus.NodeStatuses = nodeStatuses

	return &Result{
		DagStatus:    dagStatus,
		NodeStatuses: nodeStatuses,
		StatusEnd:    statusEnd,
	}, nil
}

func newDagStatus(contents fields) (*DagStatus, error) {
	const bt = blockTypeDagStatus

	ds := &DagStatus{}
	var err error
	if ds.Timestamp, err = contents.comment(bt, "Timestamp"); err != nil {
		return nil, err
	}
	if ds.DagStatus, err = contents.comment(bt, "DagStatus"); err != nil {
		return nil, err
	}

	for _, fld := range []struct {
		key string
		dst *int
	}{
		{"NodesTotal", &ds.NodesTotal},
		{"NodesDone", &ds.NodesDone},
		{"NodesPre", &ds.NodesPre},
		{"NodesQueued", &ds.NodesQueued},
		{"NodesPost", &ds.NodesPost},
		{"NodesReady", &ds.NodesReady},
		{"NodesUnready", &ds.NodesUnready},
		{"NodesFailed", &ds.NodesFailed},
		{"JobProcsHeld", &ds.JobProcsHeld},
		{"JobProcsIdle", &ds.JobProcsIdle},
	} {
		if *fld.dst, err = contents.intValue(bt, fld.key); err != nil {
			return nil, err
		}
	}

	// The engine never writes a zero-node DAG; guard the percentage
	// denominators anyway instead of dividing by zero later.
	if ds.NodesTotal == 0 {
		return nil, &InvalidRecordError{BlockType: bt, Reason: "NodesTotal is zero"}
	}
	return ds, nil
}

func newNodeStatus(contents fields) (*NodeStatus, error) {
	const bt = blockTypeNodeStatus

	ns := &NodeStatus{}
	var err error
	if ns.Node, err = contents.value(bt, "Node"); err != nil {
		return nil, err
	}
	if ns.NodeStatus, err = contents.comment(bt, "NodeStatus"); err != nil {
		return nil, err
	}
	if ns.StatusDetails, err = contents.value(bt, "StatusDetails"); err != nil {
		return nil, err
	}
	if ns.RetryCount, err = contents.intValue(bt, "RetryCount"); err != nil {
		return nil, err
	}
	if ns.JobProcsQueued, err = contents.intValue(bt, "JobProcsQueued"); err != nil {
		return nil, err
	}
	if ns.JobProcsHeld, err = contents.intValue(bt, "JobProcsHeld"); err != nil {
		return nil, err
	}
	return ns, nil
}

func newStatusEnd(contents fields) (*StatusEnd, error) {
	const bt = blockTypeStatusEnd

	se := &StatusEnd{}
	var err error
	if se.EndTime, err = contents.comment(bt, "EndTime"); err != nil {
		return nil, err
	}
	if se.NextUpdate, err = contents.comment(bt, "NextUpdate"); err != nil {
		return nil, err
	}
	return se, nil
}
