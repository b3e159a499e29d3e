package trajectory

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	t.Parallel()

	t.Run("later range with same start overwrites earlier row", func(t *testing.T) {
		t.Parallel()
		deltas, err := NewTableFromColumns(
			[]string{"KP_0_x"},
			[][]float64{{1, 1, 1, 1, 1, 1, 1}},
		)
		require.NoError(t, err)

		sums := Aggregate(deltas, []SegmentRange{{2, 4}, {2, 7}})
		require.Len(t, sums.Rows, 1)
		assert.Equal(t, 2, sums.Rows[0].Start)
		assert.Equal(t, "2-7", sums.Rows[0].Label)

		got, err := sums.Sum(0, "KP_0_x")
		require.NoError(t, err)
		assert.Equal(t, 5.0, got)
	})

	t.Run("empty range list yields empty table with full column set", func(t *testing.T) {
		t.Parallel()
		deltas, err := NewTableFromColumns(
			[]string{"KP_0_x", "KP_0_y"},
			[][]float64{{1, 2}, {3, 4}},
		)
		require.NoError(t, err)

		sums := Aggregate(deltas, nil)
		assert.Equal(t, []string{"KP_0_x", "KP_0_y"}, sums.Channels)
		assert.Empty(t, sums.Rows)
	})

	t.Run("window running past the last row is clipped when summing", func(t *testing.T) {
		t.Parallel()
		deltas, err := NewTableFromColumns(
			[]string{"KP_0_x"},
			[][]float64{{1, 2, 3}},
		)
		require.NoError(t, err)

		sums := Aggregate(deltas, []SegmentRange{{1, 9}})
		require.Len(t, sums.Rows, 1)
		// Label keeps the raw window bound; only the sum is clipped.
		assert.Equal(t, "1-9", sums.Rows[0].Label)
		got, err := sums.Sum(0, "KP_0_x")
		require.NoError(t, err)
		assert.Equal(t, 5.0, got)
	})

	t.Run("rows stay in first-seen start order", func(t *testing.T) {
		t.Parallel()
		deltas, err := NewTableFromColumns(
			[]string{"KP_0_x"},
			[][]float64{{1, 1, 1, 1}},
		)
		require.NoError(t, err)

		sums := Aggregate(deltas, []SegmentRange{{0, 2}, {0, 3}, {1, 3}, {2, 4}})
		starts := make([]int, len(sums.Rows))
		for i, row := range sums.Rows {
			starts[i] = row.Start
		}
		assert.Equal(t, []int{0, 1, 2}, starts)
		assert.Equal(t, "0-3", sums.Rows[0].Label)
	})

	t.Run("unknown channel in Sum fails", func(t *testing.T) {
		t.Parallel()
		deltas, err := NewTableFromColumns([]string{"KP_0_x"}, [][]float64{{1, 2}})
		require.NoError(t, err)

		sums := Aggregate(deltas, []SegmentRange{{0, 1}})
		_, err = sums.Sum(0, "KP_9_x")
		assert.ErrorIs(t, err, ErrMissingChannel)
	})
}

func TestComputeThresholdSums(t *testing.T) {
	t.Parallel()

	t.Run("missing reference channel fails", func(t *testing.T) {
		t.Parallel()
		deltas, err := NewTableFromColumns([]string{"KP_1_x"}, [][]float64{{1, 2}})
		require.NoError(t, err)

		_, err = ComputeThresholdSums(deltas, 1, "KP_0_x", "KP_0_y")
		assert.ErrorIs(t, err, ErrMissingChannel)
	})

	t.Run("end to end over a gapped trajectory", func(t *testing.T) {
		t.Parallel()
		raw, err := NewTableFromColumns(
			[]string{"KP_0_x", "KP_0_y"},
			[][]float64{
				{0, 5, 5, 0, 0, 9},
				{0, 0, 0, 0, 0, 0},
			},
		)
		require.NoError(t, err)

		res, err := ComputeDeltas(raw)
		require.NoError(t, err)

		x, err := res.Deltas.Column("KP_0_x")
		require.NoError(t, err)
		require.Equal(t, []float64{5, 0, 0, 0, 4}, x)

		sums, err := ComputeThresholdSums(res.Deltas, 4, "KP_0_x", "KP_0_y")
		require.NoError(t, err)

		// Only start 0 ever exceeds 4 (cumulative x: 5,5,5,5,9). Window
		// lengths 1..29 all qualify, and the last one wins the row.
		want := &SummaryTable{
			Channels: []string{"KP_0_x", "KP_0_y"},
			Rows: []SummaryRow{
				{Start: 0, Label: "0-29", Sums: []float64{9, 0}},
			},
		}
		if diff := cmp.Diff(want, sums); diff != "" {
			t.Errorf("summary mismatch (-want +got):\n%s", diff)
		}
	})
}
