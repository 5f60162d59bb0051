package registry

import (
	"database/sql"
	"fmt"

	// Register both partition drivers with database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/user/pathfind/internal/model"
)

// Partition is one open data source. Partitions are searched
// exhaustively for every identifier; no sharding key is assumed.
type Partition struct {
	Name string
	Root string

	db          *sql.DB
	placeholder string
}

// Registry holds the open partitions for one invocation, in the order
// the sources config declared them.
type Registry struct {
	partitions []*Partition
	byName     map[string]*Partition
}

// Open connects to every declared partition. Any unreachable
// partition is fatal: a partial partition list would silently shrink
// the search space.
func Open(cfg *SourcesConfig) (*Registry, error) {
	reg := &Registry{byName: make(map[string]*Partition)}

	for _, src := range cfg.Sources {
		part, err := openPartition(src)
		if err != nil {
			reg.Close()
			return nil, err
		}
		reg.partitions = append(reg.partitions, part)
		reg.byName[part.Name] = part
	}

	return reg, nil
}

func openPartition(src Source) (*Partition, error) {
	db, err := sql.Open(src.Driver, src.DSN)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", model.ErrConnection, src.Name, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %s: %v", model.ErrConnection, src.Name, err)
	}

	// pgx and sqlite3 disagree on parameter placeholders.
	placeholder := "?"
	if src.Driver == DriverPostgres {
		placeholder = "$1"
	}

	return &Partition{
		Name:        src.Name,
		Root:        src.Root,
		db:          db,
		placeholder: placeholder,
	}, nil
}

// Partitions returns the open partitions in declared order.
func (r *Registry) Partitions() []*Partition {
	return r.partitions
}

// Partition returns the named partition.
func (r *Registry) Partition(name string) (*Partition, error) {
	part, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownPartition, name)
	}
	return part, nil
}

// Close releases every partition's connection. The first error is
// returned; remaining partitions are still closed.
func (r *Registry) Close() error {
	var firstErr error
	for _, part := range r.partitions {
		if err := part.db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
