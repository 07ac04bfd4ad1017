package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// execute runs the root command with args in an isolated environment and
// returns everything written to stdout and stderr.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	if os.Getenv("FILESBACKUP_CONFIG_DIR") == "" {
		t.Setenv("FILESBACKUP_CONFIG_DIR", t.TempDir())
	}
	t.Setenv("NO_COLOR", "1")
	t.Setenv("FILESBACKUP_DEBUG", "")
	t.Chdir(t.TempDir())

	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags restores every flag of c and its subcommands to its default,
// since cobra keeps parsed values between Execute calls.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// projectFixture creates a small source tree named "project" and returns
// its resolved path.
func projectFixture(t *testing.T) string {
	t.Helper()
	base, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	root := filepath.Join(base, "project")

	files := map[string]string{
		".gitignore":                     "logs/\nvendor/\n",
		"example.php":                    "<?php echo 'hello';\n",
		"empty":                          "",
		"400x400.jpeg":                   "\xff\xd8\xff\xe0",
		"subDir/subDirFile":              "sub dir file\n",
		"subDir/subSubDir/subSubDirFile": "sub sub dir file\n",
		"logs/error.log":                 "boom\n",
		"vendor/vendor.php":              "<?php\n",
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

// targetPath returns a not yet existing archive path in a fresh directory.
func targetPath(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return filepath.Join(dir, "backup.zip")
}
