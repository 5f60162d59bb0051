package lane

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/user/pathfind/internal/model"
)

// CreateSymlinks links each discovered file into destDir, creating
// the directory if absent. Link names are the file basenames, with
// '#' replaced by '_' when renameHashes is set.
func (l *Lane) CreateSymlinks(destDir string, renameHashes bool) error {
	info, err := os.Stat(destDir)
	switch {
	case err == nil && !info.IsDir():
		return fmt.Errorf("%w: %s", model.ErrNotDirectory, destDir)
	case os.IsNotExist(err):
		if mkErr := os.MkdirAll(destDir, 0755); mkErr != nil {
			return fmt.Errorf("%w: %s: %v", model.ErrFilesystem, destDir, mkErr)
		}
	case err != nil:
		return fmt.Errorf("%w: %s: %v", model.ErrFilesystem, destDir, err)
	}

	for _, file := range l.files {
		name := filepath.Base(file.AbsolutePath)
		if renameHashes {
			name = model.SanitizeName(name)
		}
		linkPath := filepath.Join(destDir, name)
		if err := os.Symlink(file.AbsolutePath, linkPath); err != nil {
			return fmt.Errorf("%w: %s: %v", model.ErrFilesystem, linkPath, err)
		}
	}

	return nil
}
