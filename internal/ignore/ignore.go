package ignore

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/thoreinstein/filesbackup/internal/errors"
	"github.com/thoreinstein/filesbackup/pkg/fileutil"
)

// FileName is the per-directory rules file.
const FileName = ".gitignore"

// maxRulesSize bounds how much of a single ignore file is read.
const maxRulesSize = fileutil.MaxFileSize

// Matcher evaluates gitignore rules collected from a chain of directories.
// A Matcher is immutable; AddPatterns and LoadDir return extended copies, so
// one Matcher per directory can be kept while walking a tree.
type Matcher struct {
	sets []*ruleSet // outermost directory first
}

// ruleSet holds the patterns of one ignore file.
type ruleSet struct {
	dir string

	// rules is the file as written. anyRule is the same file with negations
	// stripped; it reports whether any line applies to a path at all.
	rules   *gitignore.GitIgnore
	anyRule *gitignore.GitIgnore
}

// New returns a Matcher without rules. It ignores nothing.
func New() *Matcher {
	return &Matcher{}
}

// AddPatterns returns a copy of m extended with lines, interpreted relative
// to dir. Blank lines and comments are skipped.
func (m *Matcher) AddPatterns(dir string, lines []string) *Matcher {
	var rules, anyRules []string
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		line = strings.TrimRight(line, " \t")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = anchor(line)
		rules = append(rules, line)
		anyRules = append(anyRules, strings.TrimPrefix(line, "!"))
	}
	if len(rules) == 0 {
		return m
	}

	return &Matcher{
		sets: append(slices.Clone(m.sets), &ruleSet{
			dir:     filepath.Clean(dir),
			rules:   gitignore.CompileIgnoreLines(rules...),
			anyRule: gitignore.CompileIgnoreLines(anyRules...),
		}),
	}
}

// anchor makes patterns with an inner slash relative to their own directory,
// as git does ("docs/*.txt" does not match "a/docs/x.txt").
func anchor(line string) string {
	neg := strings.HasPrefix(line, "!")
	body := strings.TrimPrefix(line, "!")

	trimmed := strings.TrimSuffix(body, "/")
	if strings.Contains(trimmed, "/") && !strings.HasPrefix(body, "/") && !strings.HasPrefix(body, "**/") {
		body = "/" + body
	}

	if neg {
		return "!" + body
	}
	return body
}

// LoadDir returns m extended with the rules of dir's ignore file.
// A missing ignore file is not an error; m is returned unchanged.
func (m *Matcher) LoadDir(dir string) (*Matcher, error) {
	data, err := fileutil.ReadFileWithLimit(filepath.Join(dir, FileName), maxRulesSize)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return m, nil
		}
		return nil, errors.Wrapf(err, "loading %s rules in %s", FileName, dir)
	}
	return m.AddPatterns(dir, strings.Split(string(data), "\n")), nil
}

// Match reports whether path is ignored. path must be absolute; isDir
// selects directory-only patterns ("build/").
//
// The nearest ignore file with a line matching path decides. Within one
// file the last matching line wins, so "!name" re-includes.
func (m *Matcher) Match(path string, isDir bool) bool {
	for i := len(m.sets) - 1; i >= 0; i-- {
		s := m.sets[i]
		rel, err := filepath.Rel(s.dir, path)
		if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		rel = filepath.ToSlash(rel)
		if isDir {
			rel += "/"
		}
		if !s.anyRule.MatchesPath(rel) {
			continue
		}
		return s.rules.MatchesPath(rel)
	}
	return false
}

// Len returns the number of ignore files contributing rules.
func (m *Matcher) Len() int {
	return len(m.sets)
}

// RepoRoot walks up from dir looking for a directory containing .git.
func RepoRoot(dir string) (string, bool) {
	dir = filepath.Clean(dir)
	for {
		if _, err := os.Lstat(filepath.Join(dir, ".git")); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// ForDir returns the Matcher active at dir: the rules of every ignore file
// from the enclosing repository root down to dir itself. Outside a
// repository only dir's own ignore file is read.
func ForDir(dir string) (*Matcher, error) {
	dir = filepath.Clean(dir)
	chain := []string{dir}
	if root, ok := RepoRoot(dir); ok {
		for d := dir; d != root; {
			d = filepath.Dir(d)
			chain = append(chain, d)
		}
	}
	slices.Reverse(chain)

	m := New()
	for _, d := range chain {
		var err error
		if m, err = m.LoadDir(d); err != nil {
			return nil, err
		}
	}
	return m, nil
}
