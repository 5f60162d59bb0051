package finder

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/pathfind/internal/lane"
	"github.com/user/pathfind/internal/model"
	"github.com/user/pathfind/internal/registry"
)

type laneRow struct {
	name, study, sample, qc, path string
}

// createSource builds one sqlite partition with its lane rows and
// returns the registry entry for it.
func createSource(t *testing.T, root, name string, rows []laneRow) registry.Source {
	t.Helper()

	dbPath := filepath.Join(root, name+".db")
	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE lanes (
			name TEXT PRIMARY KEY,
			study TEXT,
			sample TEXT,
			library TEXT,
			species TEXT,
			qc_status TEXT,
			storage_path TEXT
		)
	`)
	require.NoError(t, err)

	for _, row := range rows {
		_, err := db.Exec(
			`INSERT INTO lanes (name, study, sample, qc_status, storage_path)
			 VALUES (?, ?, ?, nullif(?, ''), ?)`,
			row.name, row.study, row.sample, row.qc, row.path)
		require.NoError(t, err)
	}

	return registry.Source{Name: name, Driver: registry.DriverSQLite, DSN: dbPath, Root: root}
}

// addLaneFiles populates a lane data directory.
func addLaneFiles(t *testing.T, root, rel string, names ...string) {
	t.Helper()
	dir := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(dir, 0755))
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0644))
	}
}

func openRegistry(t *testing.T, sources ...registry.Source) *registry.Registry {
	t.Helper()
	reg, err := registry.Open(&registry.SourcesConfig{Sources: sources})
	require.NoError(t, err)
	t.Cleanup(func() { reg.Close() })
	return reg
}

func newFinder(t *testing.T, reg *registry.Registry, opts Options) *Finder {
	t.Helper()
	f, err := New("pathfind", lane.DefaultMapping(), reg, opts)
	require.NoError(t, err)
	return f
}

func laneNames(lanes []*lane.Lane) []string {
	names := make([]string, len(lanes))
	for i, l := range lanes {
		names[i] = l.Name
	}
	return names
}

func TestNew_UnmappedContext(t *testing.T) {
	root := t.TempDir()
	reg := openRegistry(t, createSource(t, root, "seq-a", nil))

	_, err := New("variantfind", lane.DefaultMapping(), reg, Options{})
	assert.ErrorIs(t, err, model.ErrNoStrategy)
}

func TestFind_FanOutAndOrdering(t *testing.T) {
	root := t.TempDir()
	// seq-b is declared first to prove ordering comes from the
	// sorter, not from partition declaration order.
	srcB := createSource(t, root, "seq-b", []laneRow{
		{name: "3000_1#1", study: "s1", path: "b/3000_1_1"},
		{name: "1000_1#2", study: "s1", path: "b/1000_1_2"},
	})
	srcA := createSource(t, root, "seq-a", []laneRow{
		{name: "3000_1#1", study: "s1", path: "a/3000_1_1"},
		{name: "1000_1#1", study: "s1", path: "a/1000_1_1"},
	})
	reg := openRegistry(t, srcB, srcA)
	f := newFinder(t, reg, Options{})

	ids := []model.Identifier{{Type: model.TypeStudy, Value: "s1"}}

	lanes, err := f.Find(context.Background(), ids, model.QueryFilter{})
	require.NoError(t, err)

	assert.Equal(t, []string{"1000_1#1", "1000_1#2", "3000_1#1", "3000_1#1"}, laneNames(lanes))

	// Name tie resolved by partition name.
	assert.Equal(t, "seq-a", lanes[2].Partition().Name)
	assert.Equal(t, "seq-b", lanes[3].Partition().Name)

	t.Run("repeated runs return identical sequences", func(t *testing.T) {
		again, err := f.Find(context.Background(), ids, model.QueryFilter{})
		require.NoError(t, err)
		require.Len(t, again, len(lanes))
		for i := range lanes {
			assert.Equal(t, lanes[i].Name, again[i].Name)
			assert.Equal(t, lanes[i].Partition().Name, again[i].Partition().Name)
		}
	})
}

func TestFind_QCFilter(t *testing.T) {
	root := t.TempDir()
	src := createSource(t, root, "seq-a", []laneRow{
		{name: "1000_1#1", study: "s1", qc: "passed"},
		{name: "1000_1#2", study: "s1", qc: "failed"},
		{name: "1000_1#3", study: "s1"}, // never QC'd
	})
	reg := openRegistry(t, src)
	f := newFinder(t, reg, Options{})

	ids := []model.Identifier{{Type: model.TypeStudy, Value: "s1"}}
	passed := model.QCPassed

	lanes, err := f.Find(context.Background(), ids, model.QueryFilter{QC: &passed})
	require.NoError(t, err)

	// The un-annotated lane survives: unknown passes.
	assert.Equal(t, []string{"1000_1#1", "1000_1#3"}, laneNames(lanes))
}

func TestFind_FiletypeFilter(t *testing.T) {
	root := t.TempDir()
	src := createSource(t, root, "seq-a", []laneRow{
		{name: "1000_1#1", study: "s1", path: "seq/1000_1_1"},
		{name: "1000_1#2", study: "s1", path: "seq/1000_1_2"},
	})
	addLaneFiles(t, root, "seq/1000_1_1", "read#1.fastq.gz", "aligned.bam")
	// 1000_1#2 has only a bam, so a fastq filter drops it.
	addLaneFiles(t, root, "seq/1000_1_2", "aligned.bam")

	reg := openRegistry(t, src)
	f := newFinder(t, reg, Options{})

	ids := []model.Identifier{{Type: model.TypeStudy, Value: "s1"}}
	fastq := model.CategoryFastq

	lanes, err := f.Find(context.Background(), ids, model.QueryFilter{Category: &fastq})
	require.NoError(t, err)

	require.Equal(t, []string{"1000_1#1"}, laneNames(lanes))
	require.True(t, lanes[0].HasFiles())
	for _, file := range lanes[0].Files() {
		assert.Equal(t, model.CategoryFastq, file.Category)
	}
}

func TestFind_AdaptationFailureAborts(t *testing.T) {
	root := t.TempDir()
	src := createSource(t, root, "seq-a", []laneRow{
		{name: "1000_1#1", study: "s1", qc: "passed"},
		{name: "1000_1#2", study: "s1", qc: "wonky"},
	})
	reg := openRegistry(t, src)
	f := newFinder(t, reg, Options{})

	ids := []model.Identifier{{Type: model.TypeStudy, Value: "s1"}}

	lanes, err := f.Find(context.Background(), ids, model.QueryFilter{})
	assert.ErrorIs(t, err, model.ErrAdaptation)
	assert.Nil(t, lanes)
}

func TestFind_NoMatches(t *testing.T) {
	root := t.TempDir()
	reg := openRegistry(t, createSource(t, root, "seq-a", nil))
	f := newFinder(t, reg, Options{})

	lanes, err := f.Find(context.Background(),
		[]model.Identifier{{Type: model.TypeStudy, Value: "absent"}},
		model.QueryFilter{})
	require.NoError(t, err)
	assert.Empty(t, lanes)
}

func TestFind_ProgressTicks(t *testing.T) {
	root := t.TempDir()
	srcA := createSource(t, root, "seq-a", nil)
	srcB := createSource(t, root, "seq-b", nil)
	reg := openRegistry(t, srcA, srcB)

	var ticks []int
	var lastTotal int
	f := newFinder(t, reg, Options{Progress: func(done, total int) {
		ticks = append(ticks, done)
		lastTotal = total
	}})

	ids := []model.Identifier{
		{Type: model.TypeStudy, Value: "s1"},
		{Type: model.TypeSample, Value: "sm1"},
		{Type: model.TypeLane, Value: "1000_1#1"},
	}
	_, err := f.Find(context.Background(), ids, model.QueryFilter{})
	require.NoError(t, err)

	// One tick per (partition, identifier) pair.
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, ticks)
	assert.Equal(t, 6, lastTotal)
}

func TestSort_StableOnEqualKeys(t *testing.T) {
	part := &registry.Partition{Name: "seq-a", Root: "/data"}

	first, err := lane.New(registry.RawLane{Name: "1000_1#1", StoragePath: "x"}, part, lane.StudyStrategy{})
	require.NoError(t, err)
	second, err := lane.New(registry.RawLane{Name: "1000_1#1", StoragePath: "y"}, part, lane.StudyStrategy{})
	require.NoError(t, err)

	lanes := []*lane.Lane{first, second}
	Sort(lanes)

	assert.Same(t, first, lanes[0])
	assert.Same(t, second, lanes[1])
}
