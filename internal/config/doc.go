// Package config provides configuration management for the filesbackup CLI.
//
// Settings come from a YAML file, FILESBACKUP_* environment variables and
// built-in defaults, in that order of precedence below command-line flags.
//
// # Configuration File
//
// The file is named config.yaml and is searched for in the current
// directory, then in $XDG_CONFIG_HOME/filesbackup (overridable with
// FILESBACKUP_CONFIG_DIR):
//
//	version: 1
//	source: ~/projects/site
//	exclude:
//	  - cache
//	  - build/tmp
//	include:
//	  - vendor
//	git_ignore: true
//	include_hidden: false
//
// Exclude and include entries are directories relative to the source.
//
// # Loading Configuration
//
//	config.Init()
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	opts := cfg.BackupOptions()
//
// An explicit path that does not exist is an error matching
// errors.ErrNotFound; a malformed or invalid file matches
// errors.ErrInvalidConfig. A non-boolean git_ignore fails at load.
package config
