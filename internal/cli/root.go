// Package cli provides the command-line interface for pathfind.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Flags
var (
	flagType       string
	flagFileIDType string
	flagIDs        []string
	flagQC         string
	flagCategory   string
	flagContext    string
	flagSources    string
	flagSymlink    string
	flagArchive    string
	flagFormat     string
	flagStats      string
	flagSeparator  string
	flagRename     bool
	quiet          bool
	showProgress   bool
)

// rootCmd is the single pathfind command; exactly one export action
// runs per invocation.
var rootCmd = &cobra.Command{
	Use:   "pathfind -t TYPE [flags] ID...",
	Short: "Locate sequencing data across partitioned tracking databases",
	Long: `Pathfind resolves study, sample, library, lane, or species identifiers
against every configured tracking database, discovers the data files
belonging to each matching lane, and exports the result.

Exactly one export action runs per invocation:

  (default)            print one path per lane to stdout
  -l, --symlink[=DIR]  symlink discovered files into DIR
  -a, --archive[=FILE] bundle discovered files plus stats.csv
  -s, --stats[=FILE]   write the stats report on its own

Examples:
  pathfind -t study 1234
  pathfind -t lane 5678_3#1 --qc passed
  pathfind -t sample ERS000123 --filetype fastq -l
  pathfind -t study 1234 -a --format zip
  pathfind -t file ids.txt --file-id-type lane -s lanes.stats.csv`,
	Args:          cobra.ArbitraryArgs,
	RunE:          runRoot,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		Exit(1)
	}
}

func init() {
	flags := rootCmd.Flags()

	flags.StringVarP(&flagType, "type", "t", "", "Identifier type: study, sample, library, lane, species, file")
	flags.StringVar(&flagFileIDType, "file-id-type", "", "Type the lines of a file identifier resolve as")
	flags.StringArrayVarP(&flagIDs, "id", "i", nil, "Identifier value (can be repeated; positional args also accepted)")
	flags.StringVar(&flagQC, "qc", "", "Keep only lanes with this QC status: passed, failed, pending")
	flags.StringVar(&flagCategory, "filetype", "", "Keep only lanes with files of this category: fastq, bam, pacbio, corrected")
	flags.StringVar(&flagContext, "context", "pathfind", "Calling context selecting the behavior strategy")
	flags.StringVar(&flagSources, "sources", "", "Path to sources.json (default: $PATHFIND_SOURCES)")

	flags.StringVarP(&flagSymlink, "symlink", "l", "", "Symlink files into a directory (default: pathfind_<id>)")
	flags.StringVarP(&flagArchive, "archive", "a", "", "Write an archive (default name: <id> plus format extension)")
	flags.StringVarP(&flagStats, "stats", "s", "", "Write the stats report (default: <id>.stats.csv)")
	flags.Lookup("symlink").NoOptDefVal = noOptValue
	flags.Lookup("archive").NoOptDefVal = noOptValue
	flags.Lookup("stats").NoOptDefVal = noOptValue

	flags.StringVar(&flagFormat, "format", "tar.gz", "Archive format: tar, tar.gz, zip")
	flags.StringVar(&flagSeparator, "separator", ",", `Stats column separator (use \t for tab)`)
	flags.BoolVar(&flagRename, "rename", false, "Replace '#' with '_' in link and archive member names")
	flags.BoolVar(&quiet, "quiet", false, "Suppress non-essential output")
	flags.BoolVar(&showProgress, "progress", false, "Report search and write progress on stderr")

	rootCmd.MarkFlagsMutuallyExclusive("symlink", "archive", "stats")
}

// ExitCode is used to communicate exit codes for testing
var ExitCode int

// ExitFunc is the function called to exit the program
// Can be overridden for testing
var ExitFunc = os.Exit

// Exit sets the exit code and calls the exit function
func Exit(code int) {
	ExitCode = code
	ExitFunc(code)
}

// IsQuiet returns whether quiet mode is enabled
func IsQuiet() bool {
	return quiet
}
