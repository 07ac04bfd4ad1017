package backup

import (
	"os"
	"path/filepath"
	"testing"
)

// writeTree creates files under root. Keys are slash-separated relative
// paths; a nil value creates an empty file.
func writeTree(t *testing.T, root string, files map[string][]byte) {
	t.Helper()
	for rel, data := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", rel, err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}

// tempDir returns t.TempDir() with symlinks resolved, so expected paths
// compare equal to selected ones.
func tempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("resolve temp dir: %v", err)
	}
	return dir
}

// projectFixture builds the reference tree: five plain files, two more
// hidden by .gitignore.
func projectFixture(t *testing.T) string {
	t.Helper()
	root := filepath.Join(tempDir(t), "project")
	writeTree(t, root, map[string][]byte{
		".gitignore":                     []byte("logs/\nvendor/\n"),
		"example.php":                    []byte("<?php echo 'hello';\n"),
		"empty":                          nil,
		"400x400.jpeg":                   {0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10},
		"subDir/subDirFile":              []byte("sub dir file\n"),
		"subDir/subSubDir/subSubDirFile": []byte("sub sub dir file\n"),
		"logs/error.log":                 []byte("boom\n"),
		"vendor/vendor.php":              []byte("<?php\n"),
	})
	return root
}

func relPaths(t *testing.T, root string, entries []FileEntry) []string {
	t.Helper()
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		rel, err := filepath.Rel(root, e.Path)
		if err != nil {
			t.Fatalf("rel %s: %v", e.Path, err)
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func skipIfRoot(t *testing.T) {
	t.Helper()
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
}
