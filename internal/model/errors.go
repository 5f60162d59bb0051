// Package model provides core data types for pathfind.
package model

import "errors"

// Error types for pathfind operations
var (
	ErrNoStrategy       = errors.New("no behavior strategy for context")
	ErrAdaptation       = errors.New("record adaptation failed")
	ErrConnection       = errors.New("data source unreachable")
	ErrUnknownPartition = errors.New("unknown partition")
	ErrFilesystem       = errors.New("filesystem operation failed")
	ErrNotDirectory     = errors.New("destination is not a directory")
	ErrStatsArity       = errors.New("stats row arity mismatch")
	ErrInvalidType      = errors.New("invalid identifier type")
	ErrInvalidQCStatus  = errors.New("invalid QC status")
	ErrInvalidCategory  = errors.New("invalid file category")
	ErrInvalidFormat    = errors.New("invalid archive format")
)
