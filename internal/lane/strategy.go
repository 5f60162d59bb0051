// Package lane wraps resolved tracking records and their on-disk
// files.
package lane

import (
	"fmt"
	"strconv"

	"github.com/user/pathfind/internal/model"
)

// A Strategy adapts lanes to one calling context's conventions: which
// file categories exist, how files for a category are matched on
// disk, and which columns the stats report carries. The lane's public
// contract stays fixed across strategies.
type Strategy interface {
	Name() string
	Categories() []model.FileCategory
	Patterns(model.FileCategory) []string
	StatsHeader() []string
	StatsRow(*Lane) []string
}

// StrategyMapping binds calling contexts to strategies. Finders
// receive it explicitly at construction; an unmapped context is a
// configuration error, never a fallback.
type StrategyMapping map[string]Strategy

// For returns the strategy mapped to a context.
func (m StrategyMapping) For(context string) (Strategy, error) {
	strategy, ok := m[context]
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrNoStrategy, context)
	}
	return strategy, nil
}

// DefaultMapping returns the built-in context-to-strategy mapping.
func DefaultMapping() StrategyMapping {
	return StrategyMapping{
		"pathfind":       StudyStrategy{},
		"assemblyfind":   AssemblyStrategy{},
		"annotationfind": AnnotationStrategy{},
	}
}

// StudyStrategy serves sequencing studies: raw fastq reads and
// aligned bam files under the lane directory.
type StudyStrategy struct{}

func (StudyStrategy) Name() string { return "study" }

func (StudyStrategy) Categories() []model.FileCategory {
	return []model.FileCategory{model.CategoryFastq, model.CategoryBAM}
}

func (StudyStrategy) Patterns(category model.FileCategory) []string {
	switch category {
	case model.CategoryFastq:
		return []string{"*.fastq.gz", "*.fastq"}
	case model.CategoryBAM:
		return []string{"*.bam"}
	}
	return nil
}

func (StudyStrategy) StatsHeader() []string {
	return []string{"Lane", "QC Status", "Files", "Data Source"}
}

func (StudyStrategy) StatsRow(l *Lane) []string {
	return []string{l.Name, qcLabel(l.QC), strconv.Itoa(len(l.Files())), l.Partition().Name}
}

// AssemblyStrategy serves assembly pipelines: raw pacbio output and
// error-corrected reads.
type AssemblyStrategy struct{}

func (AssemblyStrategy) Name() string { return "assembly" }

func (AssemblyStrategy) Categories() []model.FileCategory {
	return []model.FileCategory{model.CategoryPacbio, model.CategoryCorrected}
}

func (AssemblyStrategy) Patterns(category model.FileCategory) []string {
	switch category {
	case model.CategoryPacbio:
		return []string{"*.bax.h5", "*.bas.h5", "*.subreads.bam"}
	case model.CategoryCorrected:
		return []string{"*.corrected.fastq.gz", "*.corrected.fasta"}
	}
	return nil
}

func (AssemblyStrategy) StatsHeader() []string {
	return []string{"Lane", "QC Status", "Assembly Files", "Data Source"}
}

func (AssemblyStrategy) StatsRow(l *Lane) []string {
	return []string{l.Name, qcLabel(l.QC), strconv.Itoa(len(l.Files())), l.Partition().Name}
}

// AnnotationStrategy serves annotation pipelines, which work from
// corrected reads alongside the raw fastq data.
type AnnotationStrategy struct{}

func (AnnotationStrategy) Name() string { return "annotation" }

func (AnnotationStrategy) Categories() []model.FileCategory {
	return []model.FileCategory{model.CategoryFastq, model.CategoryCorrected}
}

func (AnnotationStrategy) Patterns(category model.FileCategory) []string {
	switch category {
	case model.CategoryFastq:
		return []string{"*.fastq.gz", "*.fastq"}
	case model.CategoryCorrected:
		return []string{"*.corrected.fastq.gz", "*.corrected.fasta"}
	}
	return nil
}

func (AnnotationStrategy) StatsHeader() []string {
	return []string{"Lane", "QC Status", "Annotation Files", "Data Source"}
}

func (AnnotationStrategy) StatsRow(l *Lane) []string {
	return []string{l.Name, qcLabel(l.QC), strconv.Itoa(len(l.Files())), l.Partition().Name}
}

// qcLabel renders a QC status for reports. Lanes that were never
// QC'd are reported as unknown rather than left blank.
func qcLabel(status model.QCStatus) string {
	if status == "" {
		return "unknown"
	}
	return string(status)
}
