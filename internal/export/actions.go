package export

import (
	"io"

	"github.com/user/pathfind/internal/archive"
	"github.com/user/pathfind/internal/lane"
	"github.com/user/pathfind/internal/model"
)

// StatsMember is the name of the generated stats report inside an
// archive.
const StatsMember = "stats.csv"

// ListPaths writes each lane's paths to w, one per line.
func ListPaths(w io.Writer, lanes []*lane.Lane) {
	for _, l := range lanes {
		l.PrintPaths(w)
	}
}

// Symlink links every lane's discovered files into destDir.
func Symlink(lanes []*lane.Lane, destDir string, renameHashes bool) error {
	for _, l := range lanes {
		if err := l.CreateSymlinks(destDir, renameHashes); err != nil {
			return err
		}
	}
	return nil
}

// BuildArchive bundles every lane's discovered files plus a generated
// stats report. For tar.gz the tar payload goes through the chunked
// compressor; the progress callback observes that step.
func BuildArchive(lanes []*lane.Lane, format archive.Format, opts archive.Options, separator rune, progress Progress) (*archive.Archive, error) {
	var files []model.FileRef
	for _, l := range lanes {
		files = append(files, l.Files()...)
	}

	stats, err := Stats(lanes, separator)
	if err != nil {
		return nil, err
	}

	bundle, err := archive.Build(format, files, map[string][]byte{StatsMember: stats}, opts)
	if err != nil {
		return nil, err
	}

	if format == archive.FormatTarGz {
		compressed, err := Compress(bundle.Data, progress)
		if err != nil {
			return nil, err
		}
		bundle.Data = compressed
	}

	return bundle, nil
}
