package archive

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/klauspost/compress/flate"

	"github.com/user/pathfind/internal/model"
)

// Options control member naming inside an archive.
type Options struct {
	// GroupDir is the directory every member is placed under. Its
	// name is sanitized unconditionally.
	GroupDir string
	// RenameHashes applies the '#' to '_' substitution to member
	// basenames as well.
	RenameHashes bool
	// Warn receives non-fatal messages (rename collisions). Nil
	// discards them.
	Warn func(msg string)
}

func (o Options) warn(msg string) {
	if o.Warn != nil {
		o.Warn(msg)
	}
}

// Archive is a fully assembled in-memory bundle.
type Archive struct {
	Data    []byte
	Members []string
}

// Build assembles an archive from files plus extra generated members
// (name to content). Member paths are GroupDir/basename with forward
// slashes regardless of host conventions. For FormatTarGz the
// returned payload is the plain tar; compression is a separate
// streaming step.
func Build(format Format, files []model.FileRef, extra map[string][]byte, opts Options) (*Archive, error) {
	switch format {
	case FormatTar, FormatTarGz:
		return buildTar(files, extra, opts)
	case FormatZip:
		return buildZip(files, extra, opts)
	}
	return nil, fmt.Errorf("%w: %d", model.ErrInvalidFormat, format)
}

// memberName computes the archive-relative path for a basename,
// tracking names already used. A rename that would collide with an
// existing member is abandoned with a warning; the original name is
// kept.
func memberName(base string, seen map[string]bool, opts Options) string {
	group := model.SanitizeName(opts.GroupDir)
	name := path.Join(group, base)
	if opts.RenameHashes {
		renamed := path.Join(group, model.SanitizeName(base))
		if renamed != name && seen[renamed] {
			opts.warn(fmt.Sprintf("cannot rename %s inside archive, keeping original name", base))
		} else {
			name = renamed
		}
	}
	seen[name] = true
	return name
}

// sortedNames returns the extra member names in deterministic order.
func sortedNames(extra map[string][]byte) []string {
	names := make([]string, 0, len(extra))
	for name := range extra {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func buildTar(files []model.FileRef, extra map[string][]byte, opts Options) (*Archive, error) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)

	seen := make(map[string]bool)
	var members []string

	for _, file := range files {
		info, err := os.Stat(file.AbsolutePath)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", model.ErrFilesystem, file.AbsolutePath, err)
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", model.ErrFilesystem, file.AbsolutePath, err)
		}
		name := memberName(filepath.Base(file.AbsolutePath), seen, opts)
		header.Name = name

		if err := tw.WriteHeader(header); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", model.ErrFilesystem, file.AbsolutePath, err)
		}

		content, err := os.Open(file.AbsolutePath)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", model.ErrFilesystem, file.AbsolutePath, err)
		}
		_, err = io.Copy(tw, content)
		content.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", model.ErrFilesystem, file.AbsolutePath, err)
		}

		members = append(members, name)
	}

	for _, base := range sortedNames(extra) {
		name := memberName(base, seen, opts)
		if err := addToTar(tw, name, extra[base]); err != nil {
			return nil, err
		}
		members = append(members, name)
	}

	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("%w: finalize tar: %v", model.ErrFilesystem, err)
	}

	return &Archive{Data: buf.Bytes(), Members: members}, nil
}

// addToTar adds generated content to a tar archive under the given
// member name.
func addToTar(tw *tar.Writer, name string, content []byte) error {
	header := &tar.Header{
		Name:    name,
		Size:    int64(len(content)),
		Mode:    0644,
		ModTime: time.Now(),
	}

	if err := tw.WriteHeader(header); err != nil {
		return fmt.Errorf("%w: %s: %v", model.ErrFilesystem, name, err)
	}
	if _, err := tw.Write(content); err != nil {
		return fmt.Errorf("%w: %s: %v", model.ErrFilesystem, name, err)
	}

	return nil
}

func buildZip(files []model.FileRef, extra map[string][]byte, opts Options) (*Archive, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	// Swap the stdlib deflate for klauspost's.
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.DefaultCompression)
	})

	seen := make(map[string]bool)
	var members []string

	for _, file := range files {
		name := memberName(filepath.Base(file.AbsolutePath), seen, opts)

		entry, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", model.ErrFilesystem, file.AbsolutePath, err)
		}

		content, err := os.Open(file.AbsolutePath)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", model.ErrFilesystem, file.AbsolutePath, err)
		}
		_, err = io.Copy(entry, content)
		content.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", model.ErrFilesystem, file.AbsolutePath, err)
		}

		members = append(members, name)
	}

	for _, base := range sortedNames(extra) {
		name := memberName(base, seen, opts)
		entry, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", model.ErrFilesystem, name, err)
		}
		if _, err := entry.Write(extra[base]); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", model.ErrFilesystem, name, err)
		}
		members = append(members, name)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: finalize zip: %v", model.ErrFilesystem, err)
	}

	return &Archive{Data: buf.Bytes(), Members: members}, nil
}
