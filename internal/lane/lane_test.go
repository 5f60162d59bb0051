package lane

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/pathfind/internal/model"
	"github.com/user/pathfind/internal/registry"
)

// emptyStrategy defines no categories; adapting with it must fail.
type emptyStrategy struct{}

func (emptyStrategy) Name() string { return "empty" }

func (emptyStrategy) Categories() []model.FileCategory { return nil }

func (emptyStrategy) Patterns(model.FileCategory) []string { return nil }

func (emptyStrategy) StatsHeader() []string { return nil }

func (emptyStrategy) StatsRow(*Lane) []string { return nil }

// makeLaneDir creates a lane data directory with the given files.
func makeLaneDir(t *testing.T, root, rel string, files ...string) {
	t.Helper()
	dir := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(dir, 0755))
	for _, name := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("data:"+name), 0644))
	}
}

func testPartition(root string) *registry.Partition {
	return &registry.Partition{Name: "seq-a", Root: root}
}

func TestNew(t *testing.T) {
	part := testPartition(t.TempDir())

	t.Run("parses recorded qc status", func(t *testing.T) {
		l, err := New(registry.RawLane{Name: "1000_1#1", QCStatus: "passed"}, part, StudyStrategy{})
		require.NoError(t, err)
		assert.Equal(t, model.QCPassed, l.QC)
	})

	t.Run("missing qc status stays unset", func(t *testing.T) {
		l, err := New(registry.RawLane{Name: "1000_1#1"}, part, StudyStrategy{})
		require.NoError(t, err)
		assert.Equal(t, model.QCStatus(""), l.QC)
	})

	t.Run("empty name fails adaptation", func(t *testing.T) {
		_, err := New(registry.RawLane{}, part, StudyStrategy{})
		assert.ErrorIs(t, err, model.ErrAdaptation)
	})

	t.Run("unparseable qc status fails adaptation", func(t *testing.T) {
		_, err := New(registry.RawLane{Name: "1000_1#1", QCStatus: "wonky"}, part, StudyStrategy{})
		assert.ErrorIs(t, err, model.ErrAdaptation)
	})

	t.Run("strategy without categories fails adaptation", func(t *testing.T) {
		_, err := New(registry.RawLane{Name: "1000_1#1"}, part, emptyStrategy{})
		assert.ErrorIs(t, err, model.ErrAdaptation)
	})
}

func TestDiscoverFiles(t *testing.T) {
	root := t.TempDir()
	makeLaneDir(t, root, "seq/1000_1_1",
		"read#1.fastq.gz", "read#2.fastq.gz", "aligned.bam", "notes.txt")

	newLane := func(t *testing.T) *Lane {
		l, err := New(registry.RawLane{Name: "1000_1#1", StoragePath: "seq/1000_1_1"},
			testPartition(root), StudyStrategy{})
		require.NoError(t, err)
		return l
	}

	t.Run("finds only the requested category", func(t *testing.T) {
		l := newLane(t)
		require.NoError(t, l.DiscoverFiles(model.CategoryFastq))

		files := l.Files()
		require.Len(t, files, 2)
		for _, f := range files {
			assert.Equal(t, model.CategoryFastq, f.Category)
			assert.True(t, strings.HasPrefix(f.AbsolutePath, root))
		}
	})

	t.Run("repeated discovery is a no-op", func(t *testing.T) {
		l := newLane(t)
		require.NoError(t, l.DiscoverFiles(model.CategoryFastq))
		require.NoError(t, l.DiscoverFiles(model.CategoryFastq))
		assert.Len(t, l.Files(), 2)
	})

	t.Run("no matching files is silent", func(t *testing.T) {
		l, err := New(registry.RawLane{Name: "2000_1#1", StoragePath: "seq/absent"},
			testPartition(root), StudyStrategy{})
		require.NoError(t, err)
		require.NoError(t, l.DiscoverFiles(model.CategoryFastq))
		assert.False(t, l.HasFiles())
	})

	t.Run("category outside the strategy is silent", func(t *testing.T) {
		l := newLane(t)
		require.NoError(t, l.DiscoverFiles(model.CategoryPacbio))
		assert.False(t, l.HasFiles())
	})

	t.Run("discover all strategy categories", func(t *testing.T) {
		l := newLane(t)
		require.NoError(t, l.DiscoverAll())
		assert.Len(t, l.Files(), 3) // two fastq + one bam
		assert.True(t, l.HasFiles())
	})
}

func TestPrintPaths(t *testing.T) {
	root := t.TempDir()
	makeLaneDir(t, root, "seq/1000_1_1", "read#1.fastq.gz")

	l, err := New(registry.RawLane{Name: "1000_1#1", StoragePath: "seq/1000_1_1"},
		testPartition(root), StudyStrategy{})
	require.NoError(t, err)

	t.Run("directory path before discovery", func(t *testing.T) {
		var buf bytes.Buffer
		l.PrintPaths(&buf)
		assert.Equal(t, filepath.Join(root, "seq/1000_1_1")+"\n", buf.String())
	})

	t.Run("file paths after discovery", func(t *testing.T) {
		require.NoError(t, l.DiscoverFiles(model.CategoryFastq))
		var buf bytes.Buffer
		l.PrintPaths(&buf)
		assert.Contains(t, buf.String(), "read#1.fastq.gz")
	})
}

func TestCreateSymlinks(t *testing.T) {
	root := t.TempDir()
	makeLaneDir(t, root, "seq/1000_1_1", "read#1.fastq.gz", "read#2.fastq.gz")

	newDiscovered := func(t *testing.T) *Lane {
		l, err := New(registry.RawLane{Name: "1000_1#1", StoragePath: "seq/1000_1_1"},
			testPartition(root), StudyStrategy{})
		require.NoError(t, err)
		require.NoError(t, l.DiscoverFiles(model.CategoryFastq))
		return l
	}

	t.Run("creates destination and links", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "links")
		l := newDiscovered(t)
		require.NoError(t, l.CreateSymlinks(dest, false))

		target, err := os.Readlink(filepath.Join(dest, "read#1.fastq.gz"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "seq/1000_1_1/read#1.fastq.gz"), target)
	})

	t.Run("renames hashes when asked", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "links")
		l := newDiscovered(t)
		require.NoError(t, l.CreateSymlinks(dest, true))

		_, err := os.Lstat(filepath.Join(dest, "read_1.fastq.gz"))
		assert.NoError(t, err)
		_, err = os.Lstat(filepath.Join(dest, "read#1.fastq.gz"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("destination that is a file fails", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "occupied")
		require.NoError(t, os.WriteFile(dest, []byte("x"), 0644))

		l := newDiscovered(t)
		err := l.CreateSymlinks(dest, false)
		assert.ErrorIs(t, err, model.ErrNotDirectory)
	})
}

func TestStrategyMapping(t *testing.T) {
	mapping := DefaultMapping()

	t.Run("known contexts", func(t *testing.T) {
		for _, name := range []string{"pathfind", "assemblyfind", "annotationfind"} {
			strategy, err := mapping.For(name)
			require.NoError(t, err)
			assert.NotEmpty(t, strategy.Categories())
			assert.Len(t, strategy.StatsHeader(), 4)
		}
	})

	t.Run("unmapped context fails fast", func(t *testing.T) {
		_, err := mapping.For("variantfind")
		assert.ErrorIs(t, err, model.ErrNoStrategy)
	})
}
