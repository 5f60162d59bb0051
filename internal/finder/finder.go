// Package finder resolves identifiers against every partition and
// filters the matches.
package finder

import (
	"context"

	"github.com/user/pathfind/internal/lane"
	"github.com/user/pathfind/internal/model"
	"github.com/user/pathfind/internal/registry"
)

// Progress is invoked after each discrete unit of search work. It is
// advisory only: a nil or no-op callback must be semantically
// identical to disabling progress display.
type Progress func(done, total int)

// Options configure optional finder behavior.
type Options struct {
	Progress Progress
}

// Finder performs the lookup/filter/sort pipeline for one calling
// context. Each invocation constructs its own Finder; nothing is
// cached across runs.
type Finder struct {
	registry *registry.Registry
	strategy lane.Strategy
	progress Progress
}

// New builds a Finder for the named calling context. The context must
// appear in the strategy mapping; a missing entry fails fast before
// any search work starts.
func New(contextName string, mapping lane.StrategyMapping, reg *registry.Registry, opts Options) (*Finder, error) {
	strategy, err := mapping.For(contextName)
	if err != nil {
		return nil, err
	}

	progress := opts.Progress
	if progress == nil {
		progress = func(int, int) {}
	}

	return &Finder{registry: reg, strategy: strategy, progress: progress}, nil
}

// Find resolves every identifier against every partition and returns
// the filtered lanes in sorted order. Partitions are searched
// exhaustively in declared order, identifiers in caller order; a miss
// on any (partition, identifier) pair is not an error. An adaptation
// failure aborts the whole search: a partially-adapted result set
// would be misleading.
func (f *Finder) Find(ctx context.Context, ids []model.Identifier, filter model.QueryFilter) ([]*lane.Lane, error) {
	partitions := f.registry.Partitions()
	total := len(partitions) * len(ids)
	done := 0

	var lanes []*lane.Lane
	for _, partition := range partitions {
		for _, id := range ids {
			rows, err := partition.QueryByIdentifier(ctx, id)
			if err != nil {
				return nil, err
			}
			for _, raw := range rows {
				adapted, err := lane.New(raw, partition, f.strategy)
				if err != nil {
					return nil, err
				}
				lanes = append(lanes, adapted)
			}
			done++
			f.progress(done, total)
		}
	}

	lanes = filterQC(lanes, filter)

	// Discovery is deferred to the export stage unless the caller
	// filters by category; an enumeration-only run never touches the
	// filesystem.
	if filter.Category != nil {
		filtered, err := filterCategory(lanes, *filter.Category)
		if err != nil {
			return nil, err
		}
		lanes = filtered
	}

	Sort(lanes)
	return lanes, nil
}

func filterQC(lanes []*lane.Lane, filter model.QueryFilter) []*lane.Lane {
	if filter.QC == nil {
		return lanes
	}
	kept := lanes[:0]
	for _, l := range lanes {
		if filter.MatchesQC(l.QC) {
			kept = append(kept, l)
		}
	}
	return kept
}

func filterCategory(lanes []*lane.Lane, category model.FileCategory) ([]*lane.Lane, error) {
	kept := lanes[:0]
	for _, l := range lanes {
		if err := l.DiscoverFiles(category); err != nil {
			return nil, err
		}
		if l.HasFiles() {
			kept = append(kept, l)
		}
	}
	return kept, nil
}
