// Command delta-plot renders a delta-table CSV to a PNG: the cumulative
// displacement of a reference keypoint's x and y channels with the
// segmentation threshold drawn as a horizontal line.
package main

import (
	"flag"
	"image/color"
	"log"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/framewise/kptrace/internal/tableio"
	"github.com/framewise/kptrace/internal/trajectory"
)

var (
	input     = flag.String("input", "", "Path to delta CSV (required)")
	output    = flag.String("output", "deltas.png", "PNG output path")
	refKp     = flag.Int("ref-kp", 0, "Reference keypoint index")
	threshold = flag.Float64("threshold", 20, "Threshold line to draw")
)

func main() {
	flag.Parse()
	if *input == "" {
		flag.Usage()
		log.Fatal("missing -input")
	}

	deltas, err := tableio.ReadTrajectoryFile(*input)
	if err != nil {
		log.Fatalf("failed to read deltas: %v", err)
	}

	refX, refY := trajectory.ReferencePair(*refKp)
	x, err := deltas.Column(refX)
	if err != nil {
		log.Fatalf("missing reference channel: %v", err)
	}
	y, err := deltas.Column(refY)
	if err != nil {
		log.Fatalf("missing reference channel: %v", err)
	}

	p := plot.New()
	p.Title.Text = "Cumulative reference displacement"
	p.X.Label.Text = "transition"
	p.Y.Label.Text = "displacement"

	xLine, err := plotter.NewLine(cumulativeXYs(x))
	if err != nil {
		log.Fatalf("failed to build x series: %v", err)
	}
	xLine.Width = vg.Points(1)
	xLine.Color = color.RGBA{R: 200, A: 255}

	yLine, err := plotter.NewLine(cumulativeXYs(y))
	if err != nil {
		log.Fatalf("failed to build y series: %v", err)
	}
	yLine.Width = vg.Points(1)
	yLine.Color = color.RGBA{B: 200, A: 255}

	thrLine, err := plotter.NewLine(plotter.XYs{
		{X: 0, Y: *threshold},
		{X: float64(len(x)), Y: *threshold},
	})
	if err != nil {
		log.Fatalf("failed to build threshold line: %v", err)
	}
	thrLine.Width = vg.Points(1)
	thrLine.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}

	p.Add(xLine, yLine, thrLine)
	p.Legend.Add(refX, xLine)
	p.Legend.Add(refY, yLine)
	p.Legend.Add("threshold", thrLine)

	if err := p.Save(14*vg.Inch, 6*vg.Inch, *output); err != nil {
		log.Fatalf("failed to save plot: %v", err)
	}
	log.Printf("wrote %s", *output)
}

func cumulativeXYs(deltas []float64) plotter.XYs {
	cum := make([]float64, len(deltas))
	if len(deltas) > 0 {
		floats.CumSum(cum, deltas)
	}
	pts := make(plotter.XYs, len(cum))
	for i, v := range cum {
		pts[i] = plotter.XY{X: float64(i + 1), Y: v}
	}
	return pts
}
