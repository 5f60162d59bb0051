// Package archive assembles tar and zip bundles in memory, rewriting
// member paths as it goes.
package archive

import (
	"fmt"

	"github.com/user/pathfind/internal/model"
)

// Format identifies an archive encoding.
type Format uint8

const (
	FormatTar Format = iota
	FormatTarGz
	FormatZip
)

// String returns the canonical name of a format.
func (f Format) String() string {
	switch f {
	case FormatTar:
		return "tar"
	case FormatTarGz:
		return "tar.gz"
	case FormatZip:
		return "zip"
	default:
		return fmt.Sprintf("unknown(%d)", f)
	}
}

// Extension returns the filename extension for a format, including
// the leading dot.
func (f Format) Extension() string {
	switch f {
	case FormatTar:
		return ".tar"
	case FormatTarGz:
		return ".tar.gz"
	case FormatZip:
		return ".zip"
	default:
		return ""
	}
}

// ParseFormat parses a format from its string representation.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "tar":
		return FormatTar, nil
	case "tar.gz", "tgz":
		return FormatTarGz, nil
	case "zip":
		return FormatZip, nil
	}
	return 0, fmt.Errorf("%w: %q", model.ErrInvalidFormat, name)
}
