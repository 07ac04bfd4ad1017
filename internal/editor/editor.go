// Package editor launches the user's preferred text editor on a file.
package editor

import (
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/thoreinstein/filesbackup/internal/errors"
)

// Open launches the user's preferred editor for the given path, attached to
// the process's terminal.
func Open(path string) error {
	return Run(path, os.Stdin, os.Stdout, os.Stderr)
}

// Run launches the editor for path with the given standard streams and
// waits for it to exit.
//
// The editor command may carry arguments ("code --wait"); path is appended.
func Run(path string, stdin io.Reader, stdout, stderr io.Writer) error {
	args := strings.Fields(detectEditor())
	args = append(args, path)

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "running editor %s", args[0])
	}
	return nil
}

// detectEditor returns the editor command to use based on environment variables
// and available binaries. Fallback chain: $EDITOR → $VISUAL → nano → vi
func detectEditor() string {
	if editor := strings.TrimSpace(os.Getenv("EDITOR")); editor != "" {
		return editor
	}

	if visual := strings.TrimSpace(os.Getenv("VISUAL")); visual != "" {
		return visual
	}

	// nano is friendlier for people who did not pick an editor
	if _, err := exec.LookPath("nano"); err == nil {
		return "nano"
	}

	return "vi"
}
