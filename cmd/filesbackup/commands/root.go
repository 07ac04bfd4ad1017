// Package commands implements the CLI commands for filesbackup.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/filesbackup/cmd"
	"github.com/thoreinstein/filesbackup/internal/config"
	"github.com/thoreinstein/filesbackup/internal/errors"
	"github.com/thoreinstein/filesbackup/internal/logging"
)

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// debug holds the value of the -d/--debug flag.
var debug bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// configFile holds the value of the --config flag.
var configFile string

// appConfig is the configuration loaded at startup.
var appConfig = config.Default()

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false,
		"print full error details")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default: ./config.yaml, then $XDG_CONFIG_HOME/filesbackup/config.yaml)")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("filesbackup version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	cfg, err := config.Load(configFile)
	if err != nil {
		// Capture load errors for later reporting
		configLoadErr = err
		appConfig = config.Default()
		return
	}
	configLoadErr = nil
	appConfig = cfg
}

var rootCmd = &cobra.Command{
	Use:   "filesbackup",
	Short: "Back up a directory into a zip archive",
	Long: `filesbackup archives a directory tree into a single zip file.

Files ignored by .gitignore are left out by default. Directories can be
excluded outright, or included back even when .gitignore hides them.
Defaults for every option can be kept in a config file.`,
	Example: `  # Back up the current directory
  filesbackup create ~/backups/site.zip

  # Back up another directory, keep vendor/ even though it is ignored
  filesbackup create site.zip -s ~/projects/site -i vendor

  # Show the effective configuration
  filesbackup config

  See Also: filesbackup create, filesbackup list, filesbackup config`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// Initialize logging first
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return checkConfig(cmd)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(
			errors.New("cannot use --quiet and --verbose together"),
			"Pick one of -q or -v")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("FILESBACKUP_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2 // Debug
				case "2":
					v = 3 // Trace
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	format := logging.Format(logFormat)
	if format != logging.FormatText && format != logging.FormatJSON {
		return errors.NewUserError(
			errors.Newf("unknown log format %q", logFormat),
			"Use --log-format text or --log-format json")
	}

	handlers := []slog.Handler{logging.NewFormatHandler(format, cmd.ErrOrStderr(), opts)}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(errors.Wrapf(err, "opening log file %s", logFile), "")
		}
		// File output uses JSON format
		handlers = append(handlers, logging.NewFormatHandler(logging.FormatJSON, f, opts))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// checkConfig reports a config file that failed to load. Commands that do
// not read the configuration run regardless.
func checkConfig(cmd *cobra.Command) error {
	switch cmd.Name() {
	case "help", "version", "init", "edit", "validate":
		return nil
	}
	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}
	return nil
}

// stdout returns the writer for regular command output, honoring --quiet.
func stdout(cmd *cobra.Command) io.Writer {
	if quiet {
		return io.Discard
	}
	return cmd.OutOrStdout()
}

// newColor returns c with output disabled when w cannot render it.
func newColor(w io.Writer, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if logging.SupportsColor(w) {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// PrintError writes err to w as "Error: message", followed by a suggestion
// when err carries one. With --debug the full error detail is printed.
func PrintError(w io.Writer, err error) {
	if err == nil {
		return
	}

	inner := err
	var suggestion string
	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			inner = exitErr.Err
		}
		suggestion = exitErr.Suggestion
	}

	label := newColor(w, color.FgRed, color.Bold).Sprint("Error:")
	if debug {
		fmt.Fprintf(w, "%s %+v\n", label, inner)
	} else {
		fmt.Fprintf(w, "%s %s\n", label, lowerFirst(inner.Error()))
	}
	if suggestion != "" {
		fmt.Fprintln(w, suggestion)
	}
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || !unicode.IsUpper(r) {
		return s
	}
	// Leave acronyms alone ("EOF", "HTTP").
	if next, _ := utf8.DecodeRuneInString(s[size:]); unicode.IsUpper(next) {
		return s
	}
	return strings.ToLower(s[:size]) + s[size:]
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
