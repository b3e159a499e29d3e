package trajectory

import "fmt"

// Table is a column-major numeric table: one float64 column per named
// channel, all columns the same length. A cell value of exactly zero is the
// "undetected" sentinel, never a literal coordinate.
//
// The channel-name→column mapping is built once at construction; lookups
// after that are map hits, not scans.
type Table struct {
	channels []string
	index    map[string]int
	cols     [][]float64
	rows     int
}

// NewTable creates an empty table with the given channel set, in order.
// Duplicate channel names are rejected.
func NewTable(channels []string) (*Table, error) {
	index := make(map[string]int, len(channels))
	cols := make([][]float64, len(channels))
	for i, name := range channels {
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("duplicate channel %q", name)
		}
		index[name] = i
		cols[i] = nil
	}
	names := make([]string, len(channels))
	copy(names, channels)
	return &Table{channels: names, index: index, cols: cols}, nil
}

// NewTableFromColumns creates a table directly from column slices. All
// columns must have equal length. The column slices are copied.
func NewTableFromColumns(channels []string, cols [][]float64) (*Table, error) {
	if len(channels) != len(cols) {
		return nil, fmt.Errorf("got %d channel names for %d columns", len(channels), len(cols))
	}
	t, err := NewTable(channels)
	if err != nil {
		return nil, err
	}
	for i, col := range cols {
		if i > 0 && len(col) != len(cols[0]) {
			return nil, fmt.Errorf("channel %q has %d rows, want %d", channels[i], len(col), len(cols[0]))
		}
		t.cols[i] = make([]float64, len(col))
		copy(t.cols[i], col)
	}
	if len(cols) > 0 {
		t.rows = len(cols[0])
	}
	return t, nil
}

// AppendRow appends one time step. The row must have one value per channel,
// in channel order.
func (t *Table) AppendRow(row []float64) error {
	if len(row) != len(t.channels) {
		return fmt.Errorf("row has %d values, table has %d channels", len(row), len(t.channels))
	}
	for i, v := range row {
		t.cols[i] = append(t.cols[i], v)
	}
	t.rows++
	return nil
}

// NumRows returns the number of time steps.
func (t *Table) NumRows() int { return t.rows }

// Channels returns the channel names in column order. The returned slice is
// shared; callers must not modify it.
func (t *Table) Channels() []string { return t.channels }

// HasChannel reports whether the named channel exists.
func (t *Table) HasChannel(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the named channel's values. The returned slice is the
// table's backing storage; callers must not modify it.
func (t *Table) Column(name string) ([]float64, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingChannel, name)
	}
	return t.cols[i], nil
}

// columnAt returns column i's backing slice without a name lookup.
func (t *Table) columnAt(i int) []float64 { return t.cols[i] }

// ChannelName formats the conventional column name for a keypoint axis,
// e.g. ChannelName(0, "x") == "KP_0_x".
func ChannelName(keypoint int, axis string) string {
	return fmt.Sprintf("KP_%d_%s", keypoint, axis)
}

// ReferencePair returns the x and y channel names for a reference keypoint.
func ReferencePair(keypoint int) (x, y string) {
	return ChannelName(keypoint, "x"), ChannelName(keypoint, "y")
}
