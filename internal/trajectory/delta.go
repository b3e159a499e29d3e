package trajectory

import (
	"fmt"
	"sync"
)

// GapState is the per-channel bridging state maintained during a delta scan.
// LastKnownGood is the index of the most recent step with a non-zero value;
// ZeroRunLength counts consecutive undetected steps seen so far.
type GapState struct {
	LastKnownGood int
	ZeroRunLength int
}

// ZeroRun records one bridged undetected run: the delta row at which
// detection resumed and how many undetected steps the bridge spanned.
type ZeroRun struct {
	Transition int
	Length     int
}

// ChannelGaps holds the bridged-run diagnostics for one channel.
type ChannelGaps struct {
	Channel string
	Runs    []ZeroRun
}

// DeltaResult is the output of a delta computation: the delta table (one row
// per consecutive step pair) and per-channel gap diagnostics, indexed by
// channel position.
//
// A zero in the delta table means either "both endpoints undetected" or
// "this transition enters an undetected run"; consumers must not read a zero
// delta as "no movement". The Gaps diagnostics disambiguate where needed.
type DeltaResult struct {
	Deltas *Table
	Gaps   []ChannelGaps
}

// DeltaComputer computes per-channel displacement deltas with gap bridging.
//
// Strict makes a leading undetected run an error (ErrNoPriorDetection)
// instead of silently bridging against the value at step 0. Workers > 1
// enables parallel per-channel computation; channels are independent, so
// this changes nothing about the output.
type DeltaComputer struct {
	Strict  bool
	Workers int
}

// ComputeDeltas runs a default DeltaComputer (lenient, sequential) over the
// table. This is the primary entry point for delta computation.
func ComputeDeltas(t *Table) (*DeltaResult, error) {
	c := &DeltaComputer{}
	return c.Compute(t)
}

// Compute scans every channel independently and returns the delta table with
// T-1 rows. Returns ErrEmptyInput when the table has no rows.
func (c *DeltaComputer) Compute(t *Table) (*DeltaResult, error) {
	if t.NumRows() == 0 {
		return nil, ErrEmptyInput
	}

	names := t.Channels()
	out := make([][]float64, len(names))
	gaps := make([]ChannelGaps, len(names))
	errs := make([]error, len(names))

	run := func(ci int) {
		deltas, runs, err := computeChannelDeltas(t.columnAt(ci), c.Strict)
		if err != nil {
			errs[ci] = fmt.Errorf("channel %q: %w", names[ci], err)
			return
		}
		out[ci] = deltas
		gaps[ci] = ChannelGaps{Channel: names[ci], Runs: runs}
	}

	if c.Workers > 1 {
		var wg sync.WaitGroup
		work := make(chan int)
		for w := 0; w < c.Workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for ci := range work {
					run(ci)
				}
			}()
		}
		for ci := range names {
			work <- ci
		}
		close(work)
		wg.Wait()
	} else {
		for ci := range names {
			run(ci)
		}
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	deltas, err := NewTableFromColumns(names, out)
	if err != nil {
		return nil, err
	}
	return &DeltaResult{Deltas: deltas, Gaps: gaps}, nil
}

// computeChannelDeltas applies the four-branch transition rule to a single
// channel:
//
//	both > 0          delta = next - cur
//	cur 0, next > 0   delta = next - value[lastKnownGood] (bridge the gap)
//	both 0            delta = 0, extend the run
//	cur > 0, next 0   delta = 0, remember cur as last known good
//
// A zero is missing data, so when detection resumes the displacement is
// measured against the last real observation, not the intervening zeros.
func computeChannelDeltas(vals []float64, strict bool) ([]float64, []ZeroRun, error) {
	if len(vals) < 2 {
		return nil, nil, nil
	}

	deltas := make([]float64, len(vals)-1)
	var state GapState
	var runs []ZeroRun
	seen := vals[0] > 0

	for i := 0; i < len(vals)-1; i++ {
		cur, next := vals[i], vals[i+1]
		switch {
		case cur > 0 && next > 0:
			deltas[i] = next - cur
		case cur == 0 && next > 0:
			if strict && !seen {
				return nil, nil, fmt.Errorf("%w (undetected from step 0 through %d)", ErrNoPriorDetection, i)
			}
			deltas[i] = next - vals[state.LastKnownGood]
			runs = append(runs, ZeroRun{Transition: i, Length: state.ZeroRunLength})
			state.ZeroRunLength = 0
			seen = true
		case cur == 0 && next == 0:
			state.ZeroRunLength++
		default: // cur > 0, next == 0
			state.LastKnownGood = i
			state.ZeroRunLength = 1
			seen = true
		}
	}
	return deltas, runs, nil
}
