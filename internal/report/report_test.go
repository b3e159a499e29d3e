package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framewise/kptrace/internal/trajectory"
)

func testTables(t *testing.T) (*trajectory.Table, *trajectory.SummaryTable) {
	t.Helper()
	deltas, err := trajectory.NewTableFromColumns(
		[]string{"KP_0_x", "KP_0_y"},
		[][]float64{{2, 2, 0, 4}, {0, 1, 1, 0}},
	)
	require.NoError(t, err)

	sums := &trajectory.SummaryTable{
		Channels: []string{"KP_0_x", "KP_0_y"},
		Rows: []trajectory.SummaryRow{
			{Start: 0, Label: "0-4", Sums: []float64{8, 2}},
		},
	}
	return deltas, sums
}

func TestWrite(t *testing.T) {
	t.Parallel()

	t.Run("renders both charts", func(t *testing.T) {
		t.Parallel()
		deltas, sums := testTables(t)

		var buf bytes.Buffer
		err := Write(&buf, deltas, sums, Params{RefX: "KP_0_x", RefY: "KP_0_y", Threshold: 5})
		require.NoError(t, err)

		html := buf.String()
		assert.Contains(t, html, "Cumulative reference displacement")
		assert.Contains(t, html, "Per-window displacement totals")
		assert.Contains(t, html, "KP_0_x")
		assert.Contains(t, html, "0-4")
	})

	t.Run("missing reference channel fails", func(t *testing.T) {
		t.Parallel()
		deltas, sums := testTables(t)

		var buf bytes.Buffer
		err := Write(&buf, deltas, sums, Params{RefX: "KP_9_x", RefY: "KP_0_y"})
		assert.ErrorIs(t, err, trajectory.ErrMissingChannel)
	})
}

func TestStats(t *testing.T) {
	t.Parallel()
	deltas, sums := testTables(t)

	stats, err := Stats(deltas, sums)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, "0-4", stats[0].Label)
	assert.Equal(t, "KP_0_x", stats[0].Channel)
	assert.Equal(t, 8.0, stats[0].Total)
	assert.Equal(t, 2.0, stats[0].MeanPerDelta) // (2+2+0+4)/4

	assert.Equal(t, "KP_0_y", stats[1].Channel)
	assert.Equal(t, 0.5, stats[1].MeanPerDelta) // (0+1+1+0)/4
}
