package statusfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFile = `[
  Type = "DagStatus";
  DagFiles = {
    "analysis.dag"
  };
  Timestamp = 1454682600; /* "Fri Feb  5 14:30:00 2016" */
  DagStatus = 3; /* "STATUS_SUBMITTED ()" */
  NodesTotal = 10;
  NodesDone = 3;
  NodesPre = 0;
  NodesQueued = 2;
  NodesPost = 0;
  NodesReady = 0;
  NodesUnready = 5;
  NodesFailed = 0;
  JobProcsHeld = 0;
  JobProcsIdle = 1;
]
[
  Type = "NodeStatus";
  Node = "jobA";
  NodeStatus = 5; /* "STATUS_DONE" */
  StatusDetails = "";
  RetryCount = 0;
  JobProcsQueued = 0;
  JobProcsHeld = 0;
]
[
  Type = "NodeStatus";
  Node = "jobB";
  NodeStatus = 3; /* "STATUS_SUBMITTED" */
  StatusDetails = "not_idle";
  RetryCount = 1;
  JobProcsQueued = 1;
  JobProcsHeld = 0;
]
[
  Type = "StatusEnd";
  EndTime = 1454682600; /* "Fri Feb  5 14:30:00 2016" */
  NextUpdate = 1454682900; /* "Fri Feb  5 14:35:00 2016" */
]
`

func TestParseSampleFile(t *testing.T) {
	res, err := Parse(strings.NewReader(sampleFile))
	require.NoError(t, err)

	ds := res.DagStatus
	require.NotNil(t, ds)
	assert.Equal(t, "Fri Feb  5 14:30:00 2016", ds.Timestamp)
	assert.Equal(t, "STATUS_SUBMITTED ()", ds.DagStatus)
	assert.Equal(t, 10, ds.NodesTotal)
	assert.Equal(t, 3, ds.NodesDone)
	assert.Equal(t, 2, ds.NodesQueued)
	assert.Equal(t, 5, ds.NodesUnready)
	assert.Equal(t, 1, ds.JobProcsIdle)

	require.Len(t, res.NodeStatuses, 2)
	assert.Equal(t, "jobA", res.NodeStatuses[0].Node)
	assert.Equal(t, "STATUS_DONE", res.NodeStatuses[0].NodeStatus)
	assert.Equal(t, "jobB", res.NodeStatuses[1].Node)
	assert.Equal(t, "not_idle", res.NodeStatuses[1].StatusDetails)
	assert.Equal(t, 1, res.NodeStatuses[1].RetryCount)

	// Node list is attached to the DAG record after parsing completes.
	assert.Equal(t, res.NodeStatuses, ds.NodeStatuses)

	require.NotNil(t, res.StatusEnd)
	assert.Equal(t, "Fri Feb  5 14:30:00 2016", res.StatusEnd.EndTime)
	assert.Equal(t, "Fri Feb  5 14:35:00 2016", res.StatusEnd.NextUpdate)
}

func TestDerivedFields(t *testing.T) {
	res, err := Parse(strings.NewReader(sampleFile))
	require.NoError(t, err)

	ds := res.DagStatus
	assert.Equal(t, "30.0", ds.NodesDonePercent())
	assert.Equal(t, 1, ds.JobProcsRunning())
	assert.Equal(t, "10.0", ds.NodesRunningPercent())
}

func TestParseIsDeterministic(t *testing.T) {
	first, err := Parse(strings.NewReader(sampleFile))
	require.NoError(t, err)
	second, err := Parse(strings.NewReader(sampleFile))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParseUnknownBlockType(t *testing.T) {
	input := `[
  Type = "Bogus";
  Whatever = 1;
]
`
	res, err := Parse(strings.NewReader(input))
	require.Error(t, err)
	assert.Nil(t, res)

	var unknown *UnknownBlockTypeError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "Bogus", unknown.Type)
	assert.Contains(t, unknown.Fields, "Whatever")
}

func TestParseBlockWithoutType(t *testing.T) {
	input := `[
  Node = "jobA";
]
`
	_, err := Parse(strings.NewReader(input))
	require.Error(t, err)

	var unknown *UnknownBlockTypeError
	require.True(t, errors.As(err, &unknown))
	assert.Empty(t, unknown.Type)
}

func TestParseMissingField(t *testing.T) {
	input := `[
  Type = "NodeStatus";
  Node = "jobA";
  NodeStatus = 5; /* "STATUS_DONE" */
]
`
	_, err := Parse(strings.NewReader(input))
	require.Error(t, err)

	var missing *MissingFieldError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "NodeStatus", missing.BlockType)
	assert.Equal(t, "StatusDetails", missing.Key)
}

func TestParseNoBlocks(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	require.ErrorIs(t, err, ErrMissingDagStatus)

	_, err = Parse(strings.NewReader("stray line outside any block\n"))
	require.ErrorIs(t, err, ErrMissingDagStatus)
}

func TestParseZeroNodesTotal(t *testing.T) {
	input := strings.Replace(sampleFile, "NodesTotal = 10;", "NodesTotal = 0;", 1)
	_, err := Parse(strings.NewReader(input))
	require.Error(t, err)

	var invalid *InvalidRecordError
	require.True(t, errors.As(err, &invalid))
	assert.Contains(t, invalid.Reason, "NodesTotal")
}

func TestParseNonIntegerCount(t *testing.T) {
	input := strings.Replace(sampleFile, "NodesDone = 3;", "NodesDone = lots;", 1)
	_, err := Parse(strings.NewReader(input))
	require.Error(t, err)

	var invalid *InvalidRecordError
	require.True(t, errors.As(err, &invalid))
	assert.Contains(t, invalid.Reason, "NodesDone")
}

func TestParseMalformedBodyLine(t *testing.T) {
	input := `[
  Type = "StatusEnd";
  this is not a field line
]
`
	_, err := Parse(strings.NewReader(input))
	require.Error(t, err)

	var malformed *MalformedLineError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, 3, malformed.Line)
}

func TestParseDuplicateDagStatusLastWins(t *testing.T) {
	second := strings.Replace(sampleFile, "NodesDone = 3;", "NodesDone = 7;", 1)
	// Everything twice; the second DagStatus block overwrites the first.
	res, err := Parse(strings.NewReader(sampleFile + second))
	require.NoError(t, err)
	assert.Equal(t, 7, res.DagStatus.NodesDone)
	assert.Len(t, res.NodeStatuses, 4)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jobs.status")
	require.NoError(t, os.WriteFile(path, []byte(sampleFile), 0o644))

	res, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, 10, res.DagStatus.NodesTotal)

	_, err = ParseFile(filepath.Join(dir, "missing.status"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open status file")

	_, err = ParseFile(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a regular file")
}
