// Package report renders an HTML report of a displacement analysis run using
// go-echarts: the reference keypoint's cumulative displacement over time and
// the per-window displacement totals of every channel.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/framewise/kptrace/internal/trajectory"
)

// Params identifies the reference channels and threshold of the run being
// reported.
type Params struct {
	RefX      string
	RefY      string
	Threshold float64
}

// WindowStats carries per-window displacement statistics for one channel.
type WindowStats struct {
	Label        string
	Channel      string
	Total        float64
	MeanPerDelta float64
}

// Write renders the full report page to w.
func Write(w io.Writer, deltas *trajectory.Table, sums *trajectory.SummaryTable, p Params) error {
	cumulative, err := cumulativeChart(deltas, p)
	if err != nil {
		return err
	}

	page := components.NewPage()
	page.AddCharts(cumulative, windowChart(sums, p))
	return page.Render(w)
}

// cumulativeChart plots the running sum of the reference channels' deltas so
// threshold crossings are visible as slope changes against the flat line.
func cumulativeChart(deltas *trajectory.Table, p Params) (*charts.Line, error) {
	x, err := deltas.Column(p.RefX)
	if err != nil {
		return nil, err
	}
	y, err := deltas.Column(p.RefY)
	if err != nil {
		return nil, err
	}

	cumX := make([]float64, len(x))
	cumY := make([]float64, len(y))
	if len(x) > 0 {
		floats.CumSum(cumX, x)
	}
	if len(y) > 0 {
		floats.CumSum(cumY, y)
	}

	axis := make([]string, len(x))
	dataX := make([]opts.LineData, len(x))
	dataY := make([]opts.LineData, len(y))
	for i := range x {
		axis[i] = strconv.Itoa(i)
		dataX[i] = opts.LineData{Value: cumX[i]}
		dataY[i] = opts.LineData{Value: cumY[i]}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "keypoint displacement report"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Cumulative reference displacement",
			Subtitle: fmt.Sprintf("channels %s / %s, threshold %.2f", p.RefX, p.RefY, p.Threshold),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "transition"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "displacement"}),
	)
	line.SetXAxis(axis).
		AddSeries(p.RefX, dataX).
		AddSeries(p.RefY, dataY)
	return line, nil
}

// windowChart plots each channel's summed displacement per qualifying window.
func windowChart(sums *trajectory.SummaryTable, p Params) *charts.Bar {
	labels := make([]string, len(sums.Rows))
	for i, row := range sums.Rows {
		labels[i] = row.Label
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Per-window displacement totals",
			Subtitle: fmt.Sprintf("%d windows above threshold %.2f", len(sums.Rows), p.Threshold),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "window"}),
	)
	bar.SetXAxis(labels)

	for ci, channel := range sums.Channels {
		data := make([]opts.BarData, len(sums.Rows))
		for ri, row := range sums.Rows {
			data[ri] = opts.BarData{Value: row.Sums[ci]}
		}
		bar.AddSeries(channel, data)
	}
	return bar
}

// Stats computes per-window, per-channel displacement statistics: the stored
// total plus the mean delta per transition inside the (clipped) window.
func Stats(deltas *trajectory.Table, sums *trajectory.SummaryTable) ([]WindowStats, error) {
	n := deltas.NumRows()
	var out []WindowStats
	for _, row := range sums.Rows {
		start, end := row.Start, parseEnd(row.Label, row.Start)
		if end > n {
			end = n
		}
		if start > end {
			start = end
		}
		for ci, channel := range sums.Channels {
			col, err := deltas.Column(channel)
			if err != nil {
				return nil, err
			}
			ws := WindowStats{
				Label:   row.Label,
				Channel: channel,
				Total:   row.Sums[ci],
			}
			if end > start {
				ws.MeanPerDelta = stat.Mean(col[start:end], nil)
			}
			out = append(out, ws)
		}
	}
	return out, nil
}

func parseEnd(label string, fallback int) int {
	var s, e int
	if _, err := fmt.Sscanf(label, "%d-%d", &s, &e); err != nil {
		return fallback
	}
	return e
}
