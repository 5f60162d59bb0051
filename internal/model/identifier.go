package model

import (
	"fmt"
	"strings"
)

// IdentifierType classifies what an identifier value refers to.
type IdentifierType string

const (
	TypeStudy   IdentifierType = "study"
	TypeSample  IdentifierType = "sample"
	TypeLibrary IdentifierType = "library"
	TypeLane    IdentifierType = "lane"
	TypeSpecies IdentifierType = "species"
	// TypeFile means the identifier values are files on disk whose
	// lines are re-resolved as another declared type. Expansion
	// happens in the CLI layer before the finder runs.
	TypeFile IdentifierType = "file"
)

// ParseIdentifierType parses an identifier type from its string form.
func ParseIdentifierType(s string) (IdentifierType, error) {
	switch IdentifierType(strings.ToLower(s)) {
	case TypeStudy:
		return TypeStudy, nil
	case TypeSample:
		return TypeSample, nil
	case TypeLibrary:
		return TypeLibrary, nil
	case TypeLane:
		return TypeLane, nil
	case TypeSpecies:
		return TypeSpecies, nil
	case TypeFile:
		return TypeFile, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
}

// Identifier is a (type, value) pair used to look up lanes.
type Identifier struct {
	Type  IdentifierType
	Value string
}

func (id Identifier) String() string {
	return fmt.Sprintf("%s:%s", id.Type, id.Value)
}

// SanitizeName replaces '#' with '_' in a name. Lane names carry '#'
// separators that are awkward in filenames and archive members.
func SanitizeName(name string) string {
	return strings.ReplaceAll(name, "#", "_")
}
