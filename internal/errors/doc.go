// Package errors provides error handling conventions for the filesbackup CLI.
//
// The package re-exports the github.com/cockroachdb/errors constructors used
// across the codebase, defines an ExitError type for CLI exit code handling,
// and exit code constants following standard Unix conventions.
//
// # Wrapping and Marking
//
// Errors are wrapped with context as they travel up the stack:
//
//	if err != nil {
//	    return errors.Wrapf(err, "reading %s", path)
//	}
//
// Typed failures are built with [Mark] so that the message can carry the
// offending path while [Is] still matches the package sentinel:
//
//	err := errors.Mark(errors.Newf("file `%s` already exists", target), ErrAlreadyExists)
//	errors.Is(err, ErrAlreadyExists) // true
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (invalid input, configuration, etc.)
//   - ExitSystem (2): System-related error (I/O, permissions, disk full, etc.)
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion. [ExitCode] resolves the code for any error chain:
//
//	if err := commands.Execute(); err != nil {
//	    os.Exit(errors.ExitCode(err))
//	}
package errors
