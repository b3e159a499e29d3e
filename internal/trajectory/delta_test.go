package trajectory

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableFromColumn(t *testing.T, name string, vals []float64) *Table {
	t.Helper()
	tbl, err := NewTableFromColumns([]string{name}, [][]float64{vals})
	require.NoError(t, err)
	return tbl
}

func TestComputeDeltas(t *testing.T) {
	t.Parallel()

	t.Run("no gaps matches plain differences", func(t *testing.T) {
		t.Parallel()
		tbl := tableFromColumn(t, "KP_0_x", []float64{1, 2, 4, 7})

		res, err := ComputeDeltas(tbl)
		require.NoError(t, err)

		col, err := res.Deltas.Column("KP_0_x")
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 2, 3}, col)
		assert.Empty(t, res.Gaps[0].Runs)
	})

	t.Run("single gap bridges to last known good value", func(t *testing.T) {
		t.Parallel()
		tbl := tableFromColumn(t, "KP_0_x", []float64{1, 2, 0, 5})

		res, err := ComputeDeltas(tbl)
		require.NoError(t, err)

		col, err := res.Deltas.Column("KP_0_x")
		require.NoError(t, err)
		// Transition 2->3 measures 5 against the last detection (2), not the zero.
		assert.Equal(t, []float64{1, 0, 3}, col)
	})

	t.Run("zero run length recorded at the bridging transition", func(t *testing.T) {
		t.Parallel()
		tbl := tableFromColumn(t, "KP_0_x", []float64{3, 0, 0, 0, 7})

		res, err := ComputeDeltas(tbl)
		require.NoError(t, err)

		col, err := res.Deltas.Column("KP_0_x")
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 0, 0, 4}, col)
		require.Len(t, res.Gaps[0].Runs, 1)
		assert.Equal(t, ZeroRun{Transition: 3, Length: 3}, res.Gaps[0].Runs[0])
	})

	t.Run("leading zero bridges against step zero by default", func(t *testing.T) {
		t.Parallel()
		tbl := tableFromColumn(t, "KP_0_x", []float64{0, 5, 5, 0, 0, 9})

		res, err := ComputeDeltas(tbl)
		require.NoError(t, err)

		col, err := res.Deltas.Column("KP_0_x")
		require.NoError(t, err)
		// Transition 0 bridges against the (zero) value at step 0: 5-0.
		// Transition 4 bridges against step 2: 9-5.
		assert.Equal(t, []float64{5, 0, 0, 0, 4}, col)
		assert.Equal(t, []ZeroRun{
			{Transition: 0, Length: 0},
			{Transition: 4, Length: 2},
		}, res.Gaps[0].Runs)
	})

	t.Run("strict mode rejects a leading undetected run", func(t *testing.T) {
		t.Parallel()
		tbl := tableFromColumn(t, "KP_3_y", []float64{0, 0, 5, 6})

		c := &DeltaComputer{Strict: true}
		_, err := c.Compute(tbl)
		require.ErrorIs(t, err, ErrNoPriorDetection)
		assert.Contains(t, err.Error(), "KP_3_y")
	})

	t.Run("empty table fails with ErrEmptyInput", func(t *testing.T) {
		t.Parallel()
		tbl, err := NewTable([]string{"KP_0_x"})
		require.NoError(t, err)

		res, err := ComputeDeltas(tbl)
		require.ErrorIs(t, err, ErrEmptyInput)
		assert.Nil(t, res)
	})

	t.Run("single row yields an empty delta table", func(t *testing.T) {
		t.Parallel()
		tbl := tableFromColumn(t, "KP_0_x", []float64{4})

		res, err := ComputeDeltas(tbl)
		require.NoError(t, err)
		assert.Equal(t, 0, res.Deltas.NumRows())
	})

	t.Run("channels are independent", func(t *testing.T) {
		t.Parallel()
		tbl, err := NewTableFromColumns(
			[]string{"KP_0_x", "KP_1_x"},
			[][]float64{{1, 0, 3}, {2, 4, 6}},
		)
		require.NoError(t, err)

		res, err := ComputeDeltas(tbl)
		require.NoError(t, err)

		x0, err := res.Deltas.Column("KP_0_x")
		require.NoError(t, err)
		x1, err := res.Deltas.Column("KP_1_x")
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 2}, x0)
		assert.Equal(t, []float64{2, 2}, x1)
	})
}

func TestComputeDeltasParallelMatchesSequential(t *testing.T) {
	t.Parallel()

	channels := make([]string, 8)
	cols := make([][]float64, 8)
	for kp := 0; kp < 4; kp++ {
		channels[kp*2] = ChannelName(kp, "x")
		channels[kp*2+1] = ChannelName(kp, "y")
	}
	for ci := range cols {
		col := make([]float64, 50)
		for i := range col {
			// Deterministic pattern with periodic dropouts.
			if (i+ci)%7 == 0 {
				col[i] = 0
			} else {
				col[i] = float64(ci+1) * float64(i%11)
			}
		}
		cols[ci] = col
	}
	tbl, err := NewTableFromColumns(channels, cols)
	require.NoError(t, err)

	seq, err := (&DeltaComputer{}).Compute(tbl)
	require.NoError(t, err)
	par, err := (&DeltaComputer{Workers: 4}).Compute(tbl)
	require.NoError(t, err)

	for _, name := range channels {
		want, err := seq.Deltas.Column(name)
		require.NoError(t, err)
		got, err := par.Deltas.Column(name)
		require.NoError(t, err)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("channel %s deltas mismatch (-seq +par):\n%s", name, diff)
		}
	}
	if diff := cmp.Diff(seq.Gaps, par.Gaps); diff != "" {
		t.Errorf("gap diagnostics mismatch (-seq +par):\n%s", diff)
	}
}
