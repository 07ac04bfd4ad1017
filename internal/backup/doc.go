// Package backup selects the files of a directory tree and writes them into
// a zip archive.
//
// # Selection
//
// [SelectFiles] walks a source directory and returns its regular files,
// sorted by path. Selection is shaped by [Options]:
//
//   - HonorIgnoreFile drops files matched by .gitignore rules, read from the
//     enclosing repository root down to each file's directory
//   - ExcludeDirs drops everything below the named directories
//   - IncludeDirs adds directories back with ignore rules disabled
//
// Exclusion always wins: a file below an excluded directory is never
// selected, even through an include. Dot files and version control
// directories are skipped unless IncludeHidden is set; version control
// directories are skipped regardless.
//
// # Archives
//
// [Manager.Create] writes the selection into a new zip file:
//
//	req, err := backup.NewRequest("./project", "/backups/project.zip", backup.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	mgr := backup.NewManager(backup.WithListener(func(e backup.Event) {
//	    fmt.Println(e.Kind, e.Path)
//	}))
//	target, err := mgr.Create(req)
//
// Every archive starts with a folder entry named after the source
// directory; files follow as "<folder>/<relative path>". Listeners receive
// [EventArchiveOpened], one [EventFileAdded] per entry and
// [EventArchiveClosed], in that order.
//
// # Error Handling
//
// Errors match one of the package sentinels with errors.Is:
//
//   - [ErrInvalidOptions]: malformed exclude or include entries
//   - [ErrNotReadable], [ErrNotADirectory]: unusable source or include directory
//   - [ErrAlreadyExists], [ErrNotWritable]: unusable target
//   - [ErrArchiveOpenFailed], [ErrArchiveWriteFailed]: archive I/O failures
package backup
