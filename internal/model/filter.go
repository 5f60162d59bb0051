package model

import (
	"fmt"
	"strings"
)

// QCStatus is the quality-control classification of a lane. Lanes
// that were never QC'd have an empty status.
type QCStatus string

const (
	QCPassed  QCStatus = "passed"
	QCFailed  QCStatus = "failed"
	QCPending QCStatus = "pending"
)

// ParseQCStatus parses a QC status from its string form.
func ParseQCStatus(s string) (QCStatus, error) {
	switch QCStatus(strings.ToLower(s)) {
	case QCPassed:
		return QCPassed, nil
	case QCFailed:
		return QCFailed, nil
	case QCPending:
		return QCPending, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidQCStatus, s)
}

// FileCategory classifies the data files associated with a lane.
type FileCategory string

const (
	CategoryFastq     FileCategory = "fastq"
	CategoryBAM       FileCategory = "bam"
	CategoryPacbio    FileCategory = "pacbio"
	CategoryCorrected FileCategory = "corrected"
)

// ParseFileCategory parses a file category from its string form.
func ParseFileCategory(s string) (FileCategory, error) {
	switch FileCategory(strings.ToLower(s)) {
	case CategoryFastq:
		return CategoryFastq, nil
	case CategoryBAM:
		return CategoryBAM, nil
	case CategoryPacbio:
		return CategoryPacbio, nil
	case CategoryCorrected:
		return CategoryCorrected, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// QueryFilter narrows a search. Nil fields are unset and filter
// nothing.
type QueryFilter struct {
	QC       *QCStatus
	Category *FileCategory
}

// MatchesQC reports whether a lane with the given status survives the
// QC filter. A lane with no recorded status always survives: callers
// filtering by QC explicitly accept that un-annotated lanes are not
// excluded.
func (f QueryFilter) MatchesQC(status QCStatus) bool {
	if f.QC == nil || status == "" {
		return true
	}
	return status == *f.QC
}

// FileRef is one discovered data file. FileRefs are owned by the lane
// that discovered them; export code reads but never mutates them.
type FileRef struct {
	AbsolutePath string
	Category     FileCategory
}
