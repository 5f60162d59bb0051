package lane

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/user/pathfind/internal/model"
	"github.com/user/pathfind/internal/registry"
)

// Lane wraps one resolved tracking record. The origin partition is
// set once at construction and never changes; it is required to
// compute on-disk paths.
type Lane struct {
	Name        string
	QC          model.QCStatus
	StoragePath string

	partition  *registry.Partition
	strategy   Strategy
	files      []model.FileRef
	discovered map[model.FileCategory]bool
}

// New adapts a raw row into a Lane using the given strategy. An
// unadaptable row is fatal to the whole search, so the error carries
// enough context to identify the offending record.
func New(raw registry.RawLane, partition *registry.Partition, strategy Strategy) (*Lane, error) {
	if raw.Name == "" {
		return nil, fmt.Errorf("%w: row in partition %q has no name", model.ErrAdaptation, partition.Name)
	}
	if len(strategy.Categories()) == 0 {
		return nil, fmt.Errorf("%w: strategy %q defines no file categories", model.ErrAdaptation, strategy.Name())
	}

	var qc model.QCStatus
	if raw.QCStatus != "" {
		parsed, err := model.ParseQCStatus(raw.QCStatus)
		if err != nil {
			return nil, fmt.Errorf("%w: lane %q: %v", model.ErrAdaptation, raw.Name, err)
		}
		qc = parsed
	}

	return &Lane{
		Name:        raw.Name,
		QC:          qc,
		StoragePath: raw.StoragePath,
		partition:   partition,
		strategy:    strategy,
		discovered:  make(map[model.FileCategory]bool),
	}, nil
}

// Partition returns the partition this lane was resolved from.
func (l *Lane) Partition() *registry.Partition {
	return l.partition
}

// Dir returns the lane's data directory on disk.
func (l *Lane) Dir() string {
	return filepath.Join(l.partition.Root, l.StoragePath)
}

// DiscoverFiles locates this lane's files of the given category.
// Repeated calls for the same category are no-ops. Absence of
// matching files is not an error, only a filter signal.
func (l *Lane) DiscoverFiles(category model.FileCategory) error {
	if l.discovered[category] {
		return nil
	}
	l.discovered[category] = true

	if !l.supports(category) {
		return nil
	}

	for _, pattern := range l.strategy.Patterns(category) {
		matches, err := filepath.Glob(filepath.Join(l.Dir(), pattern))
		if err != nil {
			return fmt.Errorf("%w: lane %q: bad pattern %q: %v", model.ErrFilesystem, l.Name, pattern, err)
		}
		for _, match := range matches {
			l.files = append(l.files, model.FileRef{AbsolutePath: match, Category: category})
		}
	}

	return nil
}

// DiscoverAll runs discovery for every category the strategy knows.
func (l *Lane) DiscoverAll() error {
	for _, category := range l.strategy.Categories() {
		if err := l.DiscoverFiles(category); err != nil {
			return err
		}
	}
	return nil
}

func (l *Lane) supports(category model.FileCategory) bool {
	for _, c := range l.strategy.Categories() {
		if c == category {
			return true
		}
	}
	return false
}

// HasFiles reports whether discovery found any files.
func (l *Lane) HasFiles() bool {
	return len(l.files) > 0
}

// Files returns the discovered files in discovery order.
func (l *Lane) Files() []model.FileRef {
	return l.files
}

// StatsHeader returns the stats column names for this lane's
// strategy.
func (l *Lane) StatsHeader() []string {
	return l.strategy.StatsHeader()
}

// StatsRow returns this lane's stats values, in header order.
func (l *Lane) StatsRow() []string {
	return l.strategy.StatsRow(l)
}

// PrintPaths writes the lane's discovered file paths to w, one per
// line. When no discovery was requested it falls back to the lane's
// directory-level path.
func (l *Lane) PrintPaths(w io.Writer) {
	if len(l.files) == 0 {
		fmt.Fprintln(w, l.Dir())
		return
	}
	for _, file := range l.files {
		fmt.Fprintln(w, file.AbsolutePath)
	}
}
