package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/user/pathfind/internal/lane"
	"github.com/user/pathfind/internal/model"
)

// Stats renders one CSV: the header comes from the first lane, then
// one row per lane. Header and rows are produced by the same
// strategy, so an arity mismatch is a programming-contract violation
// and fatal, not a recoverable input error.
func Stats(lanes []*lane.Lane, separator rune) ([]byte, error) {
	if len(lanes) == 0 {
		return nil, nil
	}

	header := lanes[0].StatsHeader()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = separator

	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write stats header: %w", err)
	}

	for _, l := range lanes {
		row := l.StatsRow()
		if len(row) != len(header) {
			return nil, fmt.Errorf("%w: lane %q has %d columns, header has %d",
				model.ErrStatsArity, l.Name, len(row), len(header))
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write stats row for %q: %w", l.Name, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush stats: %w", err)
	}

	return buf.Bytes(), nil
}
