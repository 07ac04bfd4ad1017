package backup

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/thoreinstein/filesbackup/internal/errors"
	"github.com/thoreinstein/filesbackup/internal/ignore"
	"github.com/thoreinstein/filesbackup/internal/logging"
	"github.com/thoreinstein/filesbackup/internal/paths"
)

// SelectFiles returns the files under source that belong in a backup,
// sorted by absolute path.
//
// Files matched by .gitignore rules are dropped when opts.HonorIgnoreFile is
// set. Files under opts.ExcludeDirs are always dropped. Files under
// opts.IncludeDirs are added back regardless of ignore rules, unless they are
// also excluded. Unreadable files are skipped silently.
func SelectFiles(source string, opts Options) ([]FileEntry, error) {
	return selectFiles(source, opts, logging.NewDiscard())
}

type selector struct {
	root   string // walk root with symlinks resolved
	name   string // basename of the source as given
	opts   Options
	logger *slog.Logger
	files  map[string]FileEntry
}

func selectFiles(source string, opts Options, logger *slog.Logger) ([]FileEntry, error) {
	src, err := paths.Abs(source)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "source"), ErrInvalidOptions)
	}
	opts, err = opts.normalize(src)
	if err != nil {
		return nil, err
	}
	if err := checkSource(src); err != nil {
		return nil, err
	}

	root, err := filepath.EvalSymlinks(src)
	if err != nil {
		return nil, errors.WithSecondaryError(
			errors.Mark(errors.Newf("directory `%s` is not readable", src), ErrNotReadable),
			err)
	}

	s := &selector{
		root:   root,
		name:   filepath.Base(src),
		opts:   opts,
		logger: logger,
		files:  make(map[string]FileEntry),
	}

	var base *ignore.Matcher
	if opts.HonorIgnoreFile {
		base, err = ignore.ForDir(root)
		if err != nil {
			return nil, errors.Wrapf(err, "loading ignore rules for `%s`", src)
		}
		logger.Debug("loaded ignore rules", "source", src, "files", base.Len())
	}
	if err := s.walk(root, base); err != nil {
		return nil, err
	}

	for _, inc := range opts.IncludeDirs {
		dir := filepath.Join(root, filepath.FromSlash(inc))
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return nil, errors.Mark(
				errors.Newf("include directory `%s` is not a directory", inc),
				ErrNotADirectory)
		}
		if err := s.walk(dir, nil); err != nil {
			return nil, err
		}
	}

	entries := make([]FileEntry, 0, len(s.files))
	for _, e := range s.files {
		if !readable(e.Path) {
			logger.Log(context.Background(), logging.LevelTrace, "skipping unreadable file", "path", e.Path)
			continue
		}
		entries = append(entries, e)
	}
	slices.SortFunc(entries, func(a, b FileEntry) int {
		return strings.Compare(a.Path, b.Path)
	})

	logger.Debug("selected files",
		"source", src,
		"count", len(entries),
		"exclude", opts.ExcludeDirs,
		"include", opts.IncludeDirs,
		"git_ignore", opts.HonorIgnoreFile,
	)
	return entries, nil
}

// walk adds the eligible files below dir. A nil matcher disables ignore
// filtering for the whole walk.
func (s *selector) walk(dir string, base *ignore.Matcher) error {
	matchers := make(map[string]*ignore.Matcher)

	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return errors.WithSecondaryError(
					errors.Mark(errors.Newf("directory `%s` is not readable", path), ErrNotReadable),
					err)
			}
			s.trace("skipping unreadable path", path)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel := s.rel(path)

		if d.IsDir() {
			if path != dir && s.hidden(d.Name(), true) {
				return filepath.SkipDir
			}
			if s.excluded(rel) {
				s.trace("skipping excluded directory", path)
				return filepath.SkipDir
			}
			if base == nil {
				return nil
			}

			m := base
			if path != dir {
				parent := matchers[filepath.Dir(path)]
				if parent.Match(path, true) {
					s.trace("skipping ignored directory", path)
					return filepath.SkipDir
				}
				if m, err = parent.LoadDir(path); err != nil {
					return err
				}
			}
			matchers[path] = m
			return nil
		}

		if s.hidden(d.Name(), false) {
			return nil
		}
		if s.excluded(rel) {
			return nil
		}
		if !regular(path, d) {
			s.trace("skipping non-regular file", path)
			return nil
		}
		if base != nil && matchers[filepath.Dir(path)].Match(path, false) {
			s.trace("skipping ignored file", path)
			return nil
		}

		if _, ok := s.files[path]; !ok {
			s.files[path] = FileEntry{
				Path:        path,
				ArchivePath: s.name + "/" + rel,
			}
		}
		return nil
	})
}

// rel returns path relative to the walk root, slash-separated.
func (s *selector) rel(path string) string {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// excluded reports whether rel equals or lies below an exclude entry.
func (s *selector) excluded(rel string) bool {
	for _, ex := range s.opts.ExcludeDirs {
		if rel == ex || strings.HasPrefix(rel, ex+"/") {
			return true
		}
	}
	return false
}

func (s *selector) hidden(name string, isDir bool) bool {
	if isDir && vcsDirs[name] {
		return true
	}
	return !s.opts.IncludeHidden && strings.HasPrefix(name, ".")
}

func (s *selector) trace(msg, path string) {
	s.logger.Log(context.Background(), logging.LevelTrace, msg, "path", path)
}

// regular reports whether path is a regular file or a symlink to one.
func regular(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func readable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	f.Close()
	return true
}
