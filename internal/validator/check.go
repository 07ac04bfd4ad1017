package validator

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/thoreinstein/filesbackup/internal/config"
	"github.com/thoreinstein/filesbackup/internal/errors"
	"github.com/thoreinstein/filesbackup/internal/paths"
)

// CheckConfig reports problems with cfg beyond what config.Validate rejects:
// a source that cannot be backed up, include entries an exclude entry
// always wins over, and repeated entries.
func CheckConfig(cfg *config.Config) *Result {
	result := &Result{}
	if cfg == nil {
		result.AddError("", "config is nil", nil)
		return result
	}

	for _, err := range config.Validate(cfg) {
		var pe *config.PathError
		if errors.As(err, &pe) {
			msg := "must be a directory below the source"
			if pe.Field == "source" {
				msg = "is not a valid path"
			}
			result.AddError(pe.Field, msg, pe.Path)
			continue
		}
		result.AddError("version", err.Error(), cfg.Version)
	}

	checkSource(result, cfg.Source)
	checkDuplicates(result, "exclude", cfg.Exclude)
	checkDuplicates(result, "include", cfg.Include)

	for _, inc := range cfg.Include {
		if ex, ok := coveredBy(inc, cfg.Exclude); ok {
			result.AddWarning("include", "is always excluded by `"+ex+"`", inc)
		}
	}

	if !cfg.GitIgnore {
		result.AddInfo("git_ignore", "files listed in .gitignore will be backed up", false)
		if len(cfg.Include) > 0 {
			result.AddInfo("include", "has no effect while git_ignore is false", cfg.Include)
		}
	}

	return result
}

func checkSource(result *Result, source string) {
	if source == "" {
		result.AddInfo("source", "not set, the current directory is used", nil)
		return
	}
	if strings.ContainsRune(source, '\x00') {
		return
	}

	abs, err := paths.Abs(source)
	if err != nil {
		result.AddError("source", "is not a valid path", source)
		return
	}
	info, err := os.Stat(abs)
	switch {
	case err != nil:
		result.AddWarning("source", "does not exist or is not readable", source)
	case !info.IsDir():
		result.AddError("source", "is not a directory", source)
	}
}

func checkDuplicates(result *Result, field string, dirs []string) {
	seen := make(map[string]bool, len(dirs))
	for _, d := range dirs {
		key := filepath.ToSlash(filepath.Clean(d))
		if seen[key] {
			result.AddWarning(field, "is listed more than once", d)
		}
		seen[key] = true
	}
}

// coveredBy returns the exclude entry dir equals or lies below.
func coveredBy(dir string, excludes []string) (string, bool) {
	dir = filepath.ToSlash(filepath.Clean(dir))
	for _, ex := range excludes {
		e := filepath.ToSlash(filepath.Clean(ex))
		if dir == e || strings.HasPrefix(dir, e+"/") {
			return ex, true
		}
	}
	return "", false
}
