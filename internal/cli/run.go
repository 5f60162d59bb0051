package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/pathfind/internal/archive"
	"github.com/user/pathfind/internal/export"
	"github.com/user/pathfind/internal/finder"
	"github.com/user/pathfind/internal/lane"
	"github.com/user/pathfind/internal/model"
	"github.com/user/pathfind/internal/registry"
)

func runRoot(cmd *cobra.Command, args []string) error {
	if flagType == "" {
		fmt.Fprintln(os.Stderr, "Error: --type is required")
		Exit(1)
		return nil
	}
	idType, err := model.ParseIdentifierType(flagType)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		Exit(1)
		return nil
	}

	values := append([]string{}, flagIDs...)
	values = append(values, args...)
	if len(values) == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one identifier is required")
		Exit(1)
		return nil
	}

	ids, err := expandIdentifiers(idType, values)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		Exit(1)
		return nil
	}

	filter, err := parseFilter()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		Exit(1)
		return nil
	}

	separator, err := parseSeparator(flagSeparator)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		Exit(1)
		return nil
	}

	sourcesPath := flagSources
	if sourcesPath == "" {
		sourcesPath = os.Getenv("PATHFIND_SOURCES")
	}
	if sourcesPath == "" {
		fmt.Fprintln(os.Stderr, "Error: no sources config (use --sources or set $PATHFIND_SOURCES)")
		Exit(1)
		return nil
	}

	cfg, err := registry.LoadSources(sourcesPath)
	if err != nil {
		return err
	}

	reg, err := registry.Open(cfg)
	if err != nil {
		return err
	}
	defer reg.Close()

	f, err := finder.New(flagContext, lane.DefaultMapping(), reg, finder.Options{
		Progress: searchProgress(),
	})
	if err != nil {
		return err
	}

	lanes, err := f.Find(context.Background(), ids, filter)
	if err != nil {
		return err
	}

	// Zero survivors is not a failure: report and exit cleanly with
	// no artifact.
	if len(lanes) == 0 {
		fmt.Fprintf(os.Stderr, "No data found for %s\n", describeIDs(ids))
		return nil
	}

	symlinkTarget := targetFromFlag(cmd, "symlink", flagSymlink)
	archiveTarget := targetFromFlag(cmd, "archive", flagArchive)
	statsTarget := targetFromFlag(cmd, "stats", flagStats)

	group := ids[0].Value
	base := model.SanitizeName(group)

	switch {
	case symlinkTarget.Active():
		return runSymlink(lanes, symlinkTarget.Name("pathfind_"+base), filter)
	case archiveTarget.Active():
		return runArchive(lanes, archiveTarget, group, base, separator, filter)
	case statsTarget.Active():
		return runStats(lanes, statsTarget.Name(base+".stats.csv"), separator, filter)
	default:
		export.ListPaths(os.Stdout, lanes)
		return nil
	}
}

func runSymlink(lanes []*lane.Lane, destDir string, filter model.QueryFilter) error {
	if err := discoverForExport(lanes, filter); err != nil {
		return err
	}
	if err := export.Symlink(lanes, destDir, flagRename); err != nil {
		return err
	}
	if !IsQuiet() {
		fmt.Fprintf(os.Stderr, "Symlinks created in %s\n", destDir)
	}
	return nil
}

func runArchive(lanes []*lane.Lane, target OutputTarget, group, base string, separator rune, filter model.QueryFilter) error {
	format, err := archive.ParseFormat(flagFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		Exit(1)
		return nil
	}
	path := target.Name(base + format.Extension())

	if err := discoverForExport(lanes, filter); err != nil {
		return err
	}

	opts := archive.Options{
		GroupDir:     group,
		RenameHashes: flagRename,
		Warn: func(msg string) {
			fmt.Fprintln(os.Stderr, "Warning:", msg)
		},
	}

	bundle, err := export.BuildArchive(lanes, format, opts, separator, writeProgress("Compressing"))
	if err != nil {
		return err
	}

	if err := export.WriteFile(path, bundle.Data, writeProgress("Writing")); err != nil {
		return err
	}

	for _, member := range bundle.Members {
		fmt.Println(member)
	}
	if !IsQuiet() {
		fmt.Fprintf(os.Stderr, "Archive created: %s\n", path)
	}
	return nil
}

func runStats(lanes []*lane.Lane, path string, separator rune, filter model.QueryFilter) error {
	if err := discoverForExport(lanes, filter); err != nil {
		return err
	}

	data, err := export.Stats(lanes, separator)
	if err != nil {
		return err
	}

	if err := export.WriteFile(path, data, writeProgress("Writing")); err != nil {
		return err
	}

	if !IsQuiet() {
		fmt.Fprintf(os.Stderr, "Stats written to %s\n", path)
	}
	return nil
}

// discoverForExport runs full discovery when the search stage
// deferred it (no filetype filter was set).
func discoverForExport(lanes []*lane.Lane, filter model.QueryFilter) error {
	if filter.Category != nil {
		return nil
	}
	for _, l := range lanes {
		if err := l.DiscoverAll(); err != nil {
			return err
		}
	}
	return nil
}

// expandIdentifiers turns raw values into identifiers, reading file
// identifiers line by line and re-typing their contents.
func expandIdentifiers(idType model.IdentifierType, values []string) ([]model.Identifier, error) {
	if idType != model.TypeFile {
		ids := make([]model.Identifier, 0, len(values))
		for _, value := range values {
			ids = append(ids, model.Identifier{Type: idType, Value: value})
		}
		return ids, nil
	}

	if flagFileIDType == "" {
		return nil, fmt.Errorf("--file-id-type is required with --type file")
	}
	lineType, err := model.ParseIdentifierType(flagFileIDType)
	if err != nil {
		return nil, err
	}
	if lineType == model.TypeFile {
		return nil, fmt.Errorf("--file-id-type cannot itself be file")
	}

	var ids []model.Identifier
	for _, path := range values {
		lines, err := readLines(path)
		if err != nil {
			return nil, err
		}
		for _, line := range lines {
			ids = append(ids, model.Identifier{Type: lineType, Value: line})
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("identifier files contain no identifiers")
	}
	return ids, nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read identifier file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read identifier file %s: %w", path, err)
	}
	return lines, nil
}

func parseFilter() (model.QueryFilter, error) {
	var filter model.QueryFilter
	if flagQC != "" {
		qc, err := model.ParseQCStatus(flagQC)
		if err != nil {
			return filter, err
		}
		filter.QC = &qc
	}
	if flagCategory != "" {
		category, err := model.ParseFileCategory(flagCategory)
		if err != nil {
			return filter, err
		}
		filter.Category = &category
	}
	return filter, nil
}

func parseSeparator(s string) (rune, error) {
	if s == `\t` {
		return '\t', nil
	}
	runes := []rune(s)
	if len(runes) != 1 {
		return 0, fmt.Errorf("separator must be a single character, got %q", s)
	}
	return runes[0], nil
}

func describeIDs(ids []model.Identifier) string {
	values := make([]string, len(ids))
	for i, id := range ids {
		values[i] = id.Value
	}
	return strings.Join(values, ", ")
}

func searchProgress() finder.Progress {
	if !showProgress {
		return nil
	}
	return func(done, total int) {
		fmt.Fprintf(os.Stderr, "\rSearching: %d/%d", done, total)
		if done == total {
			fmt.Fprintln(os.Stderr)
		}
	}
}

func writeProgress(label string) export.Progress {
	if !showProgress {
		return nil
	}
	return func(done, total int) {
		fmt.Fprintf(os.Stderr, "\r%s: %d/%d", label, done, total)
		if done == total {
			fmt.Fprintln(os.Stderr)
		}
	}
}
