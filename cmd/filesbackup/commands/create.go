package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/filesbackup/internal/backup"
	"github.com/thoreinstein/filesbackup/internal/errors"
	"github.com/thoreinstein/filesbackup/internal/logging"
)

var (
	createSource        string
	createExclude       []string
	createInclude       []string
	createNoGitIgnore   bool
	createIncludeHidden bool
	createDryRun        bool
)

func init() {
	createCmd.Flags().StringVarP(&createSource, "source", "s", "",
		"source directory (default: config source, then the current directory)")
	createCmd.Flags().StringArrayVarP(&createExclude, "exclude", "e", nil,
		"exclude a directory, relative to the source (repeatable)")
	createCmd.Flags().StringArrayVarP(&createInclude, "include", "i", nil,
		"include a directory ignored by .gitignore (repeatable)")
	createCmd.Flags().BoolVar(&createNoGitIgnore, "no-git-ignore", false,
		"do not ignore files listed in .gitignore")
	createCmd.Flags().BoolVar(&createIncludeHidden, "include-hidden", false,
		"back up dot files and dot directories")
	createCmd.Flags().BoolVarP(&createDryRun, "dry-run", "n", false,
		"list the files that would be added without writing the archive")
	rootCmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create <target>",
	Short: "Back up a directory into a new zip file",
	Long: `Create a zip archive of the source directory at target.

Every entry sits below a folder named after the source directory. Files
ignored by .gitignore are left out unless --no-git-ignore is given, and
dot files are left out unless --include-hidden is given. Excluded
directories are always left out, even when also included.

The target must not exist.`,
	Example: `  # Back up the current directory
  filesbackup create backup.zip

  # Skip two directories and list every file added
  filesbackup create backup.zip -s ~/site -e tmp -e logs -v

  # Keep vendor/ although .gitignore lists it
  filesbackup create backup.zip -i vendor

  # Preview the selection
  filesbackup create backup.zip --dry-run

  See Also: filesbackup list, filesbackup config`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func runCreate(cmd *cobra.Command, args []string) error {
	w := stdout(cmd)
	opts := createOptions(cmd)

	source := createSource
	if !cmd.Flags().Changed("source") {
		source = appConfig.Source
	}
	if source == "" {
		source = "."
	}

	req, err := backup.NewRequest(source, args[0], opts)
	if err != nil {
		return exitError(err)
	}

	printRequest(w, req)

	rep := newReporter(w, verbosity > 0)
	mgr := backup.NewManager(
		backup.WithLogger(logging.FromContext(cmd.Context())),
		backup.WithListener(rep.handle),
	)

	if createDryRun {
		return previewCreate(w, mgr, req)
	}

	target, err := mgr.Create(req)
	if err != nil {
		return exitError(err)
	}

	rep.done(target)
	return nil
}

// previewCreate prints the entries Create would write. The target is not
// checked.
func previewCreate(w io.Writer, mgr *backup.Manager, req backup.Request) error {
	files, err := mgr.SelectFiles(req.Source, req.Options)
	if err != nil {
		return exitError(err)
	}

	fmt.Fprintf(w, "Would add file: `%s`\n", req.RootName())
	for _, f := range files {
		fmt.Fprintf(w, "Would add file: `%s`\n", f.ArchivePath)
	}
	fmt.Fprintf(w, "Files selected: %d\n", len(files))
	return nil
}

// createOptions merges the config file with command-line flags. Flags win;
// a list given on the command line replaces the configured one.
func createOptions(cmd *cobra.Command) backup.Options {
	opts := appConfig.BackupOptions()
	if cmd.Flags().Changed("exclude") {
		opts.ExcludeDirs = createExclude
	}
	if cmd.Flags().Changed("include") {
		opts.IncludeDirs = createInclude
	}
	if createNoGitIgnore {
		opts.HonorIgnoreFile = false
	}
	if createIncludeHidden {
		opts.IncludeHidden = true
	}
	return opts
}

func printRequest(w io.Writer, req backup.Request) {
	fmt.Fprintf(w, "Source: `%s`\n", req.Source)
	fmt.Fprintf(w, "Target: `%s`\n", req.Target)
	if len(req.Options.ExcludeDirs) > 0 {
		fmt.Fprintf(w, "Excluded directories: %s\n", quoteList(req.Options.ExcludeDirs))
	}
	if req.Options.HonorIgnoreFile {
		fmt.Fprintln(w, "The files and directories specified in the `.gitignore` file will be automatically ignored")
	} else {
		fmt.Fprintln(w, "The files and directories specified in the `.gitignore` file will not be ignored")
	}
	if len(req.Options.IncludeDirs) > 0 {
		fmt.Fprintf(w, "Included directories: %s\n", quoteList(req.Options.IncludeDirs))
	}
	if req.Options.IncludeHidden {
		fmt.Fprintln(w, "Hidden files and directories will be included")
	}
	fmt.Fprintln(w, newColor(w, color.FgGreen).Sprint("=========================="))
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "`" + s + "`"
	}
	return strings.Join(quoted, ", ")
}

// reporter prints archive lifecycle events.
type reporter struct {
	w       io.Writer
	verbose bool
	added   int
	info    *color.Color
}

func newReporter(w io.Writer, verbose bool) *reporter {
	return &reporter{
		w:       w,
		verbose: verbose,
		info:    newColor(w, color.FgGreen),
	}
}

func (r *reporter) handle(e backup.Event) {
	switch e.Kind {
	case backup.EventArchiveOpened:
		fmt.Fprintf(r.w, "Opened zip file: `%s`\n", e.Path)
	case backup.EventFileAdded:
		r.added++
		if r.verbose {
			fmt.Fprintf(r.w, "Added file: `%s`\n", e.Path)
		}
	case backup.EventArchiveClosed:
		fmt.Fprintf(r.w, "Closed zip file: `%s`\n", e.Path)
	}
}

func (r *reporter) done(target string) {
	r.info.Fprintf(r.w, "Backup exported successfully to: `%s`\n", target)
	r.info.Fprintf(r.w, "File added: %d\n", r.added)
}

// exitError attaches an exit code to a backup error. Failures writing the
// target are system errors; everything else is the caller's to fix.
func exitError(err error) error {
	switch {
	case errors.Is(err, backup.ErrNotWritable),
		errors.Is(err, backup.ErrArchiveOpenFailed),
		errors.Is(err, backup.ErrArchiveWriteFailed):
		return errors.NewSystemError(err, "Check the target directory's permissions and free space")
	case errors.Is(err, backup.ErrAlreadyExists):
		return errors.NewUserError(err, "Choose another target or remove the existing file")
	default:
		return errors.NewUserError(err, "")
	}
}
