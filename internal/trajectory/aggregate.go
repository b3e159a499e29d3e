package trajectory

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// SummaryRow is one aggregated window: the displacement sum of every channel
// over [Start, End), keyed by Start with a "start-end" label.
type SummaryRow struct {
	Start int
	Label string
	Sums  []float64 // indexed like Channels
}

// SummaryTable holds one row per distinct range start index, ascending by
// start. Channels matches the delta table's channel order.
type SummaryTable struct {
	Channels []string
	Rows     []SummaryRow
}

// Sum returns the named channel's aggregated displacement in the given row.
func (s *SummaryTable) Sum(row int, channel string) (float64, error) {
	for ci, name := range s.Channels {
		if name == channel {
			return s.Rows[row].Sums[ci], nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrMissingChannel, channel)
}

// Aggregate sums every channel's deltas over each range, in the order the
// ranges were produced. Rows are keyed by start index alone: when several
// ranges share a start, each later range overwrites the row, so only the
// last-processed window per start survives. An empty range list yields an
// empty table with the full channel set.
func Aggregate(deltas *Table, ranges []SegmentRange) *SummaryTable {
	out := &SummaryTable{Channels: deltas.Channels()}
	n := deltas.NumRows()
	byStart := make(map[int]int, len(ranges))

	for _, r := range ranges {
		end := r.End
		if end > n {
			end = n
		}
		start := r.Start
		if start > end {
			start = end
		}

		sums := make([]float64, len(out.Channels))
		for ci := range out.Channels {
			sums[ci] = floats.Sum(deltas.columnAt(ci)[start:end])
		}
		row := SummaryRow{Start: r.Start, Label: r.Label(), Sums: sums}

		if ri, ok := byStart[r.Start]; ok {
			out.Rows[ri] = row
		} else {
			byStart[r.Start] = len(out.Rows)
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// ComputeThresholdSums composes the segmenter and aggregator: it scans the
// reference channel pair of the delta table for windows whose cumulative
// displacement exceeds threshold, then sums every channel over each window.
// Returns ErrMissingChannel when either reference channel is absent.
func ComputeThresholdSums(deltas *Table, threshold float64, refX, refY string) (*SummaryTable, error) {
	s := &Segmenter{Threshold: threshold}
	return s.ThresholdSums(deltas, refX, refY)
}

// ThresholdSums runs this segmenter over the named reference channels of the
// delta table and aggregates every channel over the resulting ranges.
func (s *Segmenter) ThresholdSums(deltas *Table, refX, refY string) (*SummaryTable, error) {
	x, err := deltas.Column(refX)
	if err != nil {
		return nil, err
	}
	y, err := deltas.Column(refY)
	if err != nil {
		return nil, err
	}
	return Aggregate(deltas, s.FindRanges(x, y)), nil
}
