// Package tableio loads and stores trajectory tables as CSV. It is the
// storage-owning collaborator of the trajectory package: the computation core
// never touches files.
//
// Trajectory CSV layout: a header row of channel names (e.g. KP_0_x,KP_0_y),
// then one row of float values per time step. Summary CSV layout: a leading
// "timestamps" label column followed by the channel columns.
package tableio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/framewise/kptrace/internal/trajectory"
)

// ReadTrajectory parses a trajectory table from CSV.
func ReadTrajectory(r io.Reader) (*trajectory.Table, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv has no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	tbl, err := trajectory.NewTable(header)
	if err != nil {
		return nil, err
	}

	row := make([]float64, len(header))
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv line %d: %w", line, err)
		}
		for i, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d column %q: %w", line, header[i], err)
			}
			row[i] = v
		}
		if err := tbl.AppendRow(row); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	return tbl, nil
}

// ReadTrajectoryFile reads a trajectory table from the CSV file at path.
func ReadTrajectoryFile(path string) (*trajectory.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return ReadTrajectory(f)
}

// WriteTable writes a trajectory or delta table as CSV.
func WriteTable(w io.Writer, tbl *trajectory.Table) error {
	cw := csv.NewWriter(w)
	channels := tbl.Channels()
	if err := cw.Write(channels); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	cols := make([][]float64, len(channels))
	for i, name := range channels {
		col, err := tbl.Column(name)
		if err != nil {
			return err
		}
		cols[i] = col
	}

	record := make([]string, len(channels))
	for row := 0; row < tbl.NumRows(); row++ {
		for i := range channels {
			record[i] = strconv.FormatFloat(cols[i][row], 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", row, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummary writes a summary table as CSV with a leading label column.
func WriteSummary(w io.Writer, sums *trajectory.SummaryTable) error {
	cw := csv.NewWriter(w)
	header := append([]string{"timestamps"}, sums.Channels...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	record := make([]string, len(header))
	for _, row := range sums.Rows {
		record[0] = row.Label
		for i, v := range row.Sums {
			record[i+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write summary row %q: %w", row.Label, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTableFile writes a table to the CSV file at path.
func WriteTableFile(path string, tbl *trajectory.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	return WriteTable(f, tbl)
}

// WriteSummaryFile writes a summary table to the CSV file at path.
func WriteSummaryFile(path string, sums *trajectory.SummaryTable) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	return WriteSummary(f, sums)
}
