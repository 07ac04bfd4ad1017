package config

import (
	"path/filepath"
	"strings"

	"github.com/thoreinstein/filesbackup/internal/errors"
)

// Validation errors for configuration fields.
var (
	// ErrUnsupportedVersion indicates the version field is not CurrentVersion.
	ErrUnsupportedVersion = errors.New("unsupported config version")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version != CurrentVersion {
		errs = append(errs, errors.Mark(
			errors.Newf("unsupported config version: %d", cfg.Version),
			ErrUnsupportedVersion))
	}

	if cfg.Source != "" && strings.ContainsRune(cfg.Source, '\x00') {
		errs = append(errs, &PathError{Field: "source", Path: cfg.Source, Err: ErrInvalidPath})
	}

	for _, dir := range cfg.Exclude {
		if err := validateDir(dir); err != nil {
			errs = append(errs, &PathError{Field: "exclude", Path: dir, Err: err})
		}
	}
	for _, dir := range cfg.Include {
		if err := validateDir(dir); err != nil {
			errs = append(errs, &PathError{Field: "include", Path: dir, Err: err})
		}
	}

	return errs
}

// validateDir checks that an exclude or include entry names a directory
// below the source. It does not check that the directory exists.
func validateDir(dir string) error {
	if strings.TrimSpace(dir) == "" || strings.ContainsRune(dir, '\x00') {
		return ErrInvalidPath
	}
	if filepath.IsAbs(dir) {
		return ErrInvalidPath
	}

	cleaned := filepath.Clean(dir)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return ErrInvalidPath
	}
	return nil
}

// PathError represents an error for a specific path field.
type PathError struct {
	Field string
	Path  string
	Err   error
}

func (e *PathError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Path
}

func (e *PathError) Unwrap() error {
	return e.Err
}
