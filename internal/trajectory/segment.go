package trajectory

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// DefaultMaxWindow is the maximum segmentation window length, in delta rows.
// The historical behaviour used a fixed 30; Segmenter exposes it as a knob.
const DefaultMaxWindow = 30

// SegmentRange is a contiguous block of delta rows [Start, End) whose
// cumulative reference displacement exceeded the threshold in at least one
// axis. End carries the raw i+j window bound, so End may exceed the delta
// row count when the window ran off the end of the series; consumers clip
// when slicing.
type SegmentRange struct {
	Start int
	End   int
}

// Label formats the range as "start-end", the summary table's label cell.
func (r SegmentRange) Label() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// Segmenter scans a reference keypoint's delta channels for windows whose
// cumulative displacement exceeds Threshold.
//
// The scan tries every start index i and every window length j < MaxWindow,
// and emits (i, i+j) for each qualifying pair, ascending by i then j. A
// single start can therefore contribute several overlapping ranges; the
// aggregator's last-wins row keying resolves duplicates. GreedyMinimal
// instead keeps only the shortest qualifying window per start index.
type Segmenter struct {
	Threshold     float64
	MaxWindow     int // window length bound; DefaultMaxWindow when <= 0
	GreedyMinimal bool
}

// FindRanges scans the reference delta channels and returns every qualifying
// range in scan order. refX and refY must have equal length.
func (s *Segmenter) FindRanges(refX, refY []float64) []SegmentRange {
	n := len(refX)
	if len(refY) < n {
		n = len(refY)
	}
	maxWindow := s.MaxWindow
	if maxWindow <= 0 {
		maxWindow = DefaultMaxWindow
	}

	// Prefix sums: sum(v[i:k]) == prefix[k] - prefix[i], so each candidate
	// window costs O(1) instead of a rescan.
	prefixX := make([]float64, n+1)
	prefixY := make([]float64, n+1)
	if n > 0 {
		floats.CumSum(prefixX[1:], refX[:n])
		floats.CumSum(prefixY[1:], refY[:n])
	}

	windowSum := func(prefix []float64, i, j int) float64 {
		end := i + j
		if end > n {
			end = n
		}
		return prefix[end] - prefix[i]
	}

	var ranges []SegmentRange
	for i := 0; i < n; i++ {
		for j := 0; j < maxWindow; j++ {
			if windowSum(prefixX, i, j) > s.Threshold || windowSum(prefixY, i, j) > s.Threshold {
				ranges = append(ranges, SegmentRange{Start: i, End: i + j})
				if s.GreedyMinimal {
					break
				}
			}
		}
	}
	return ranges
}
