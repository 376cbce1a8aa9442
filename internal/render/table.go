package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattjoyce/dagstat/internal/statusfile"
)

// column pairs a header with how to pull its cell out of a record.
type column[T any] struct {
	header string
	cell   func(T) string
}

var nodeColumns = []column[statusfile.NodeStatus]{
	{"Node", func(n statusfile.NodeStatus) string { return n.Node }},
	{"Status", func(n statusfile.NodeStatus) string { return n.NodeStatus }},
	{"Retries", func(n statusfile.NodeStatus) string { return strconv.Itoa(n.RetryCount) }},
	{"Detail", func(n statusfile.NodeStatus) string { return n.StatusDetails }},
}

var summaryColumns = []column[*statusfile.DagStatus]{
	{"DAG Status", func(d *statusfile.DagStatus) string { return d.DagStatus }},
	{"Total", func(d *statusfile.DagStatus) string { return strconv.Itoa(d.NodesTotal) }},
	{"Queued", func(d *statusfile.DagStatus) string { return strconv.Itoa(d.NodesQueued) }},
	{"Idle", func(d *statusfile.DagStatus) string { return strconv.Itoa(d.JobProcsIdle) }},
	{"Running", func(d *statusfile.DagStatus) string { return strconv.Itoa(d.JobProcsRunning()) }},
	{"Running %", func(d *statusfile.DagStatus) string { return d.NodesRunningPercent() }},
	{"Failed", func(d *statusfile.DagStatus) string { return strconv.Itoa(d.NodesFailed) }},
	{"Done", func(d *statusfile.DagStatus) string { return strconv.Itoa(d.NodesDone) }},
	{"Done %", func(d *statusfile.DagStatus) string { return d.NodesDonePercent() }},
}

// Renderer formats parsed record sets. Rendering is a pure function of the
// record set, the summaryOnly flag, and the reported terminal width.
type Renderer struct {
	theme Theme
	width WidthFunc
}

func New(theme Theme, width WidthFunc) *Renderer {
	return &Renderer{theme: theme, width: width}
}

// Render returns the table for one parsed status file. When summaryOnly is
// set, only the one-line DAG summary is produced; otherwise per-node rows
// and the end-of-report timestamps are included.
func (r *Renderer) Render(res *statusfile.Result, summaryOnly bool) string {
	jobWidths := columnWidths(nodeColumns, res.NodeStatuses)
	jobHeader := formatRow(headerCells(nodeColumns), jobWidths, " | ")

	summaryWidths := columnWidths(summaryColumns, []*statusfile.DagStatus{res.DagStatus})
	summaryHeader := formatRow(headerCells(summaryColumns), summaryWidths, "  |  ")

	// Rule lines span the widest header, capped to the terminal.
	columns := len(summaryHeader)
	if !summaryOnly && len(jobHeader) > columns {
		columns = len(jobHeader)
	}
	columns++
	if limit, ok := r.width(); ok {
		if columns > limit {
			columns = limit
		}
	} else if columns > DefaultWidth {
		columns = DefaultWidth
	}

	tilde := strings.Repeat("~", columns)
	dash := strings.Repeat("-", columns)

	var b strings.Builder
	if !summaryOnly {
		b.WriteString(tilde + "\n")
		b.WriteString(jobHeader + "\n")
		b.WriteString(dash + "\n")
		for _, n := range res.NodeStatuses {
			row := formatRow(rowCells(nodeColumns, n), jobWidths, " | ")
			b.WriteString(r.theme.StatusStyle(n.NodeStatus).Render(row) + "\n")
		}
		b.WriteString(dash + "\n")
	}

	b.WriteString(tilde + "\n")
	b.WriteString(summaryHeader + "\n")
	b.WriteString(dash + "\n")
	summaryRow := formatRow(rowCells(summaryColumns, res.DagStatus), summaryWidths, "  |  ")
	b.WriteString(r.theme.StatusStyle(res.DagStatus.DagStatus).Render(summaryRow) + "\n")

	if !summaryOnly {
		b.WriteString(dash + "\n")
		if res.StatusEnd != nil {
			b.WriteString("Status recorded at: " + res.StatusEnd.EndTime + "\n")
			b.WriteString("Next update:        " + res.StatusEnd.NextUpdate + "\n")
		}
	}
	b.WriteString(tilde + "\n")

	return b.String()
}

// Filename returns the styled per-file header line printed above each table.
func (r *Renderer) Filename(path string) string {
	return r.theme.Filename.Render(path+" :") + "\n"
}

// columnWidths sizes each column to the larger of its header and its widest
// cell.
func columnWidths[T any](cols []column[T], rows []T) []int {
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = len(c.header)
		for _, row := range rows {
			if l := len(c.cell(row)); l > widths[i] {
				widths[i] = l
			}
		}
	}
	return widths
}

func headerCells[T any](cols []column[T]) []string {
	cells := make([]string, len(cols))
	for i, c := range cols {
		cells[i] = c.header
	}
	return cells
}

func rowCells[T any](cols []column[T], row T) []string {
	cells := make([]string, len(cols))
	for i, c := range cols {
		cells[i] = c.cell(row)
	}
	return cells
}

func formatRow(cells []string, widths []int, sep string) string {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		padded[i] = fmt.Sprintf("%-*s", widths[i], cell)
	}
	return strings.Join(padded, sep)
}
