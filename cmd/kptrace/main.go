// Command kptrace runs the keypoint displacement pipeline over a trajectory
// CSV: per-channel deltas with gap bridging, threshold-windowed segmentation
// of the reference keypoint, and per-window aggregation of every channel.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/framewise/kptrace/internal/config"
	"github.com/framewise/kptrace/internal/db"
	"github.com/framewise/kptrace/internal/report"
	"github.com/framewise/kptrace/internal/tableio"
	"github.com/framewise/kptrace/internal/trajectory"
	"github.com/framewise/kptrace/internal/version"
)

var (
	input      = flag.String("input", "", "Path to trajectory CSV (required)")
	output     = flag.String("output", "", "Path for the summary CSV (required)")
	deltasOut  = flag.String("deltas-out", "", "Optional path for the intermediate delta CSV")
	configPath = flag.String("config", "", "Optional tuning config JSON (defaults applied otherwise)")
	threshold  = flag.Float64("threshold", -1, "Displacement threshold (overrides config when >= 0)")
	maxWindow  = flag.Int("max-window", 0, "Maximum window length in delta rows (overrides config when > 0)")
	refKp      = flag.Int("ref-kp", -1, "Reference keypoint index (overrides config when >= 0)")
	greedy     = flag.Bool("greedy", false, "Keep only the shortest qualifying window per start index")
	dbPath     = flag.String("db", "", "Optional sqlite database to record the run into")
	reportPath = flag.String("report", "", "Optional HTML report output path")
	showVer    = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()
	if *showVer {
		log.Print(version.String())
		return
	}
	if *input == "" || *output == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.EmptyTuningConfig()
	if *configPath != "" {
		loaded, err := config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		cfg = loaded
	}

	thr := cfg.GetThreshold()
	if *threshold >= 0 {
		thr = *threshold
	}
	window := cfg.GetMaxWindow()
	if *maxWindow > 0 {
		window = *maxWindow
	}
	keypoint := cfg.GetReferenceKeypoint()
	if *refKp >= 0 {
		keypoint = *refKp
	}
	refX, refY := trajectory.ReferencePair(keypoint)

	table, err := tableio.ReadTrajectoryFile(*input)
	if err != nil {
		log.Fatalf("failed to read trajectory: %v", err)
	}
	log.Printf("loaded %d steps x %d channels from %s", table.NumRows(), len(table.Channels()), *input)

	computer := &trajectory.DeltaComputer{
		Strict:  cfg.GetStrictLeadingGap(),
		Workers: cfg.GetChannelWorkers(),
	}
	res, err := computer.Compute(table)
	if err != nil {
		log.Fatalf("delta computation failed: %v", err)
	}

	if *deltasOut != "" {
		if err := tableio.WriteTableFile(*deltasOut, res.Deltas); err != nil {
			log.Fatalf("failed to write deltas: %v", err)
		}
	}

	segmenter := &trajectory.Segmenter{
		Threshold:     thr,
		MaxWindow:     window,
		GreedyMinimal: *greedy,
	}
	sums, err := segmenter.ThresholdSums(res.Deltas, refX, refY)
	if err != nil {
		log.Fatalf("threshold segmentation failed: %v", err)
	}
	log.Printf("found %d windows above threshold %.2f (ref %s/%s, max window %d)",
		len(sums.Rows), thr, refX, refY, window)

	if err := tableio.WriteSummaryFile(*output, sums); err != nil {
		log.Fatalf("failed to write summary: %v", err)
	}

	if *dbPath != "" {
		store, err := db.NewDB(*dbPath)
		if err != nil {
			log.Fatalf("failed to open database: %v", err)
		}
		defer store.Close()

		runID, err := store.RecordRun(*input, thr, window, refX, refY, table.NumRows(), len(table.Channels()))
		if err != nil {
			log.Fatalf("failed to record run: %v", err)
		}
		if err := store.RecordSummary(runID, sums); err != nil {
			log.Fatalf("failed to record summary: %v", err)
		}
		log.Printf("recorded run %s in %s", runID, *dbPath)
	}

	if *reportPath != "" {
		f, err := os.Create(*reportPath)
		if err != nil {
			log.Fatalf("failed to create report file: %v", err)
		}
		defer f.Close()
		params := report.Params{RefX: refX, RefY: refY, Threshold: thr}
		if err := report.Write(f, res.Deltas, sums, params); err != nil {
			log.Fatalf("failed to render report: %v", err)
		}
		log.Printf("wrote report to %s", *reportPath)
	}
}
