// Package config provides configuration management for filesbackup using Viper.
package config

import (
	"io/fs"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/thoreinstein/filesbackup/internal/backup"
	"github.com/thoreinstein/filesbackup/internal/errors"
	"github.com/thoreinstein/filesbackup/internal/paths"
	"github.com/thoreinstein/filesbackup/pkg/fileutil"
)

// CurrentVersion is the only supported config file version.
const CurrentVersion = 1

// EnvPrefix prefixes environment variable overrides (FILESBACKUP_GIT_IGNORE).
const EnvPrefix = "FILESBACKUP"

// Config represents the top-level configuration structure.
type Config struct {
	Version       int      `mapstructure:"version" yaml:"version" toml:"version"`
	Source        string   `mapstructure:"source" yaml:"source,omitempty" toml:"source,omitempty"`
	Exclude       []string `mapstructure:"exclude" yaml:"exclude,omitempty" toml:"exclude,omitempty"`
	Include       []string `mapstructure:"include" yaml:"include,omitempty" toml:"include,omitempty"`
	GitIgnore     bool     `mapstructure:"git_ignore" yaml:"git_ignore" toml:"git_ignore"`
	IncludeHidden bool     `mapstructure:"include_hidden" yaml:"include_hidden" toml:"include_hidden"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Version:   CurrentVersion,
		GitIgnore: true,
	}
}

// BackupOptions converts the selection settings into backup options.
func (c *Config) BackupOptions() backup.Options {
	return backup.Options{
		ExcludeDirs:     c.Exclude,
		IncludeDirs:     c.Include,
		HonorIgnoreFile: c.GitIgnore,
		IncludeHidden:   c.IncludeHidden,
	}
}

// Init resets Viper and installs defaults, search paths and environment
// bindings. Call this once at application startup before accessing config
// values.
func Init() {
	viper.Reset()

	// Config file settings
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.ConfigDir())

	// Environment variable support
	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()

	// Defaults. Every key needs one so AutomaticEnv applies on Unmarshal.
	def := Default()
	viper.SetDefault("version", def.Version)
	viper.SetDefault("source", def.Source)
	viper.SetDefault("exclude", []string{})
	viper.SetDefault("include", []string{})
	viper.SetDefault("git_ignore", def.GitIgnore)
	viper.SetDefault("include_hidden", def.IncludeHidden)
}

// Load reads the configuration file and validates it.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations and falls back to
// defaults when no file is found.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}

	if errs := Validate(cfg); len(errs) > 0 {
		return nil, errors.Mark(errors.Wrap(errs[0], "validating config"), errors.ErrInvalidConfig)
	}

	return cfg, nil
}

// Read is Load without validation. Type errors, such as a non-boolean
// git_ignore, still fail.
func Read(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
		switch {
		case missing && path == "":
			// Implicit load: defaults apply.
		case missing:
			return nil, errors.Mark(errors.Wrapf(err, "config file not found at %s", path), errors.ErrNotFound)
		default:
			// Real read error (parsing, permissions, etc)
			return nil, errors.Mark(errors.Wrap(err, "reading config file"), errors.ErrInvalidConfig)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "unmarshaling config"), errors.ErrInvalidConfig)
	}

	return &cfg, nil
}

// FileUsed returns the config file Load read, or "" when defaults were used.
func FileUsed() string {
	return viper.ConfigFileUsed()
}

// Save writes cfg to path as YAML, atomically.
func Save(path string, cfg *Config) error {
	if errs := Validate(cfg); len(errs) > 0 {
		return errors.Mark(errors.Wrap(errs[0], "validating config"), errors.ErrInvalidConfig)
	}
	if err := paths.EnsureDir(filepath.Dir(path), paths.DefaultDirPerm); err != nil {
		return err
	}
	return fileutil.AtomicWriteYAML(path, cfg, 0o644)
}
