package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/filesbackup/internal/archive"
	"github.com/thoreinstein/filesbackup/internal/errors"
)

var (
	listLong bool
	listJSON bool
)

func init() {
	listCmd.Flags().BoolVarP(&listLong, "long", "l", false, "show size and modification time")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list <archive>",
	Short: "List the entries of a backup archive",
	Long: `List the entries of a zip archive in the order they were written.

Directory entries end with a slash.`,
	Example: `  # List entry names
  filesbackup list backup.zip

  # Include sizes and timestamps
  filesbackup list -l backup.zip

  # Output as JSON
  filesbackup list --json backup.zip

  See Also: filesbackup create`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd.OutOrStdout(), args[0])
	},
}

// listEntryOutput represents a single archive entry in JSON output.
type listEntryOutput struct {
	Name     string    `json:"name"`
	Size     uint64    `json:"size"`
	Modified time.Time `json:"modified"`
	Dir      bool      `json:"dir"`
}

func runList(w io.Writer, path string) error {
	entries, err := archive.List(path)
	if err != nil {
		return errors.NewUserError(err, "")
	}

	switch {
	case listJSON:
		out := make([]listEntryOutput, len(entries))
		for i, e := range entries {
			out[i] = listEntryOutput{Name: e.Name, Size: e.Size, Modified: e.Modified, Dir: e.IsDir}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(out), "encoding entries")

	case listLong:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "SIZE\tMODIFIED\tNAME")
		for _, e := range entries {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", e.Size, e.Modified.Format(time.DateTime), e.Name)
		}
		return errors.Wrap(tw.Flush(), "writing entries")

	default:
		for _, e := range entries {
			fmt.Fprintln(w, e.Name)
		}
		return nil
	}
}
