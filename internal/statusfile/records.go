package statusfile

import "fmt"

// DagStatus describes the state of the DAG as a whole. Exactly one appears
// per well-formed status file. NodeStatuses is attached after the whole file
// has been read; see Parse.
type DagStatus struct {
	Timestamp    string `json:"timestamp"`
	DagStatus    string `json:"dag_status"`
	NodesTotal   int    `json:"nodes_total"`
	NodesDone    int    `json:"nodes_done"`
	NodesPre     int    `json:"nodes_pre"`
	NodesQueued  int    `json:"nodes_queued"`
	NodesPost    int    `json:"nodes_post"`
	NodesReady   int    `json:"nodes_ready"`
	NodesUnready int    `json:"nodes_unready"`
	NodesFailed  int    `json:"nodes_failed"`
	JobProcsHeld int    `json:"job_procs_held"`
	JobProcsIdle int    `json:"job_procs_idle"`

	NodeStatuses []NodeStatus `json:"-"`
}

// NodesDonePercent returns the completed fraction as a one-decimal string,
// e.g. "30.0". NodesTotal is validated non-zero at construction.
func (d *DagStatus) NodesDonePercent() string {
	return fmt.Sprintf("%.1f", 100*float64(d.NodesDone)/float64(d.NodesTotal))
}

// JobProcsRunning counts nodes that are submitted and actually running
// rather than sitting idle in the queue.
func (d *DagStatus) JobProcsRunning() int {
	running := 0
	for _, n := range d.NodeStatuses {
		if n.NodeStatus == "STATUS_SUBMITTED" && n.StatusDetails == "not_idle" {
			running++
		}
	}
	return running
}

// NodesRunningPercent returns the running fraction as a one-decimal string.
func (d *DagStatus) NodesRunningPercent() string {
	return fmt.Sprintf("%.1f", 100*float64(d.JobProcsRunning())/float64(d.NodesTotal))
}

// NodeStatus describes one job node in the DAG. Immutable once its block
// closes.
type NodeStatus struct {
	Node           string `json:"node"`
	NodeStatus     string `json:"node_status"`
	StatusDetails  string `json:"status_details"`
	RetryCount     int    `json:"retry_count"`
	JobProcsQueued int    `json:"job_procs_queued"`
	JobProcsHeld   int    `json:"job_procs_held"`
}

// StatusEnd carries the engine's reporting metadata: when this snapshot was
// recorded and when the next rewrite is due.
type StatusEnd struct {
	EndTime    string `json:"end_time"`
	NextUpdate string `json:"next_update"`
}

// Result is the immutable outcome of parsing one status file. DagStatus is
// never nil; StatusEnd is nil when the engine wrote no end marker.
type Result struct {
	DagStatus    *DagStatus   `json:"dag_status"`
	NodeStatuses []NodeStatus `json:"node_statuses"`
	StatusEnd    *StatusEnd   `json:"status_end,omitempty"`
}
