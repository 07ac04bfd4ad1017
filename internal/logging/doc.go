// Package logging provides structured logging for the filesbackup CLI using slog.
//
// The package supports both text and JSON output formats, configurable log
// levels including a Trace level below Debug, and helpers for testing.
//
// # Basic Usage
//
//	logger := logging.New(logging.Config{
//		Level:  logging.LevelFromVerbosity(2),
//		Format: logging.FormatText,
//		Output: os.Stderr,
//	})
//	logger.Debug("selected files", "count", 12)
//
// Commands receive their logger through the command context; see
// [NewContext] and [FromContext].
//
// # Testing
//
// For tests, use [ForTest] to capture log output via the testing framework:
//
//	func TestSomething(t *testing.T) {
//		logger := logging.ForTest(t)
//		// logs appear in test output on failure
//	}
package logging
