package backup

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/thoreinstein/filesbackup/internal/errors"
	"github.com/thoreinstein/filesbackup/internal/paths"
)

// Sentinel errors for backup operations. Returned errors carry a message
// naming the offending path and match these with errors.Is.
var (
	// ErrNotReadable indicates the source (or an include directory) cannot be read.
	ErrNotReadable = errors.New("not readable")

	// ErrNotADirectory indicates the source or an include entry is not a directory.
	ErrNotADirectory = errors.New("not a directory")

	// ErrAlreadyExists indicates the target archive already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrNotWritable indicates the target's parent directory does not accept new files.
	ErrNotWritable = errors.New("not writable")

	// ErrArchiveOpenFailed indicates the archive could not be created at the target.
	ErrArchiveOpenFailed = errors.New("archive open failed")

	// ErrArchiveWriteFailed indicates a failure after the archive was opened.
	// The partial archive is removed.
	ErrArchiveWriteFailed = errors.New("archive write failed")

	// ErrInvalidOptions indicates a malformed Options value or request field.
	ErrInvalidOptions = errors.New("invalid options")
)

// vcsDirs are version control metadata directories, never backed up.
var vcsDirs = map[string]bool{
	".git":         true,
	".svn":         true,
	"_svn":         true,
	".hg":          true,
	".bzr":         true,
	"CVS":          true,
	"_darcs":       true,
	".arch-params": true,
	".monotone":    true,
}

// Options controls which files a backup selects.
type Options struct {
	// ExcludeDirs are directories, relative to the source, whose files are
	// never selected. Exclusion also applies to IncludeDirs.
	ExcludeDirs []string

	// IncludeDirs are directories, relative to the source, enumerated
	// without ignore-file filtering and added to the selection.
	IncludeDirs []string

	// HonorIgnoreFile drops files matched by .gitignore rules.
	HonorIgnoreFile bool

	// IncludeHidden selects dot files and dot directories. Version control
	// metadata directories are skipped regardless.
	IncludeHidden bool
}

// DefaultOptions returns the options used when none are given: ignore files
// are honored and nothing is excluded or included.
func DefaultOptions() Options {
	return Options{HonorIgnoreFile: true}
}

// normalize returns a copy of o with every directory entry converted to a
// clean, slash-separated path relative to source, duplicates removed. It
// does not touch the filesystem.
func (o Options) normalize(source string) (Options, error) {
	exclude, err := normalizeDirs("exclude", source, o.ExcludeDirs)
	if err != nil {
		return Options{}, err
	}
	include, err := normalizeDirs("include", source, o.IncludeDirs)
	if err != nil {
		return Options{}, err
	}
	o.ExcludeDirs = exclude
	o.IncludeDirs = include
	return o, nil
}

// Validate reports whether the exclude and include entries are usable
// relative to source.
func (o Options) Validate(source string) error {
	abs, err := paths.Abs(source)
	if err != nil {
		return errors.Mark(errors.Wrap(err, "source"), ErrInvalidOptions)
	}
	_, err = o.normalize(abs)
	return err
}

func normalizeDirs(kind, source string, dirs []string) ([]string, error) {
	if len(dirs) == 0 {
		return nil, nil
	}

	out := make([]string, 0, len(dirs))
	seen := make(map[string]bool, len(dirs))
	for _, d := range dirs {
		if strings.TrimSpace(d) == "" {
			return nil, errors.Mark(errors.Newf("%s directory must not be empty", kind), ErrInvalidOptions)
		}

		rel := filepath.Clean(d)
		if filepath.IsAbs(rel) {
			if !paths.Within(source, rel) {
				return nil, errors.Mark(
					errors.Newf("%s directory `%s` is outside the source `%s`", kind, d, source),
					ErrInvalidOptions)
			}
			rel, _ = filepath.Rel(source, rel)
		}
		if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil, errors.Mark(
				errors.Newf("%s directory `%s` must name a directory below the source", kind, d),
				ErrInvalidOptions)
		}

		rel = filepath.ToSlash(rel)
		if !seen[rel] {
			seen[rel] = true
			out = append(out, rel)
		}
	}
	return out, nil
}

// Request describes one backup: what to read, where to write, and how to select.
type Request struct {
	Source  string
	Target  string
	Options Options
}

// NewRequest validates and normalizes a backup request.
//
// Options are checked first, without touching the filesystem. Then the
// source must be an existing, readable directory. Target checks happen in
// Manager.Create, right before the archive is opened.
func NewRequest(source, target string, opts Options) (Request, error) {
	src, err := paths.Abs(source)
	if err != nil {
		return Request{}, errors.Mark(errors.Wrap(err, "source"), ErrInvalidOptions)
	}
	dst, err := paths.Abs(target)
	if err != nil {
		return Request{}, errors.Mark(errors.Wrap(err, "target"), ErrInvalidOptions)
	}
	opts, err = opts.normalize(src)
	if err != nil {
		return Request{}, err
	}
	if err := checkSource(src); err != nil {
		return Request{}, err
	}
	return Request{Source: src, Target: dst, Options: opts}, nil
}

// RootName is the name of the top-level folder inside the archive.
func (r Request) RootName() string {
	return filepath.Base(r.Source)
}

// FileEntry is one selected file.
type FileEntry struct {
	// Path is the absolute path of the file on disk.
	Path string

	// ArchivePath is the entry name inside the archive:
	// <basename(source)>/<path relative to source>, slash-separated.
	ArchivePath string
}

// EventKind identifies a point in the archive lifecycle.
type EventKind int

const (
	// EventArchiveOpened is emitted once the target archive is open for writing.
	EventArchiveOpened EventKind = iota + 1
	// EventFileAdded is emitted per entry written, including the root folder.
	EventFileAdded
	// EventArchiveClosed is emitted after the archive is finalized.
	EventArchiveClosed
)

// String implements fmt.Stringer.
func (k EventKind) String() string {
	switch k {
	case EventArchiveOpened:
		return "archive_opened"
	case EventFileAdded:
		return "file_added"
	case EventArchiveClosed:
		return "archive_closed"
	default:
		return "unknown"
	}
}

// Event is a backup lifecycle notification. Path is the target for
// open/close events and the archive-relative entry name for FileAdded.
type Event struct {
	Kind EventKind
	Path string
}

// Listener receives events synchronously, in the order they happen.
type Listener func(Event)

// checkSource verifies source is an existing, readable directory.
func checkSource(source string) error {
	info, err := os.Stat(source)
	if err != nil {
		return errors.WithSecondaryError(
			errors.Mark(errors.Newf("file or directory `%s` is not readable", source), ErrNotReadable),
			err)
	}
	if !info.IsDir() {
		return errors.Mark(errors.Newf("`%s` is not a directory", source), ErrNotADirectory)
	}

	f, err := os.Open(source)
	if err == nil {
		_, err = f.ReadDir(1)
		f.Close()
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return errors.WithSecondaryError(
			errors.Mark(errors.Newf("directory `%s` is not readable", source), ErrNotReadable),
			err)
	}
	return nil
}

// checkTarget verifies target does not exist and its parent directory
// accepts new files. The existence check runs first.
func checkTarget(target string) error {
	if _, err := os.Lstat(target); err == nil {
		return errors.Mark(errors.Newf("file `%s` already exists", target), ErrAlreadyExists)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return errors.WithSecondaryError(
			errors.Mark(errors.Newf("file `%s` is not writable", target), ErrNotWritable),
			err)
	}

	dir := filepath.Dir(target)
	probe, err := os.CreateTemp(dir, ".filesbackup-probe-*")
	if err != nil {
		return errors.WithSecondaryError(
			errors.Mark(errors.Newf("directory `%s` is not writable", dir), ErrNotWritable),
			err)
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)
	return nil
}
