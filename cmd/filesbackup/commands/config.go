package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/filesbackup/internal/config"
	"github.com/thoreinstein/filesbackup/internal/editor"
	"github.com/thoreinstein/filesbackup/internal/errors"
	"github.com/thoreinstein/filesbackup/internal/paths"
	"github.com/thoreinstein/filesbackup/internal/validator"
)

var (
	configFormat string
	configForce  bool
	configJSON   bool
)

func init() {
	configShowCmd.Flags().StringVar(&configFormat, "format", "yaml", "output format: yaml, toml")
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing config file")
	configValidateCmd.Flags().BoolVar(&configJSON, "json", false, "output results as JSON")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage filesbackup configuration",
	Long: `Manage the defaults stored in config.yaml.

Without a subcommand, shows the effective configuration.`,
	Example: `  # Show the effective configuration
  filesbackup config

  # Write a config file with defaults
  filesbackup config init

See Also: filesbackup create`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the configuration after merging the config file, FILESBACKUP_*
environment variables and defaults.`,
	Example: `  # As YAML
  filesbackup config show

  # As TOML
  filesbackup config show --format toml`,
	RunE: runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long:  `Get a single configuration value by key. List values are printed one per line.`,
	Example: `  filesbackup config get exclude
  filesbackup config get git_ignore`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigGet(cmd.OutOrStdout(), args[0])
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with default values",
	Long: `Write config.yaml with default values to the path given by --config,
or to the user config directory.`,
	Example: `  filesbackup config init
  filesbackup config init --config ./config.yaml --force`,
	RunE: runConfigInit,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open configuration in $EDITOR",
	Long: `Open the configuration file in your default editor.

Uses $EDITOR, then $VISUAL, then nano, then vi.`,
	Example: `  EDITOR=nano filesbackup config edit`,
	RunE: runConfigEdit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), configPath())
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration for problems",
	Long: `Check the configuration file for errors and for settings that are
accepted but likely not what was meant, such as an include entry that an
exclude entry always hides.

Exits non-zero when any error is found. Warnings do not affect the exit code.`,
	Example: `  filesbackup config validate
  filesbackup config validate --config ./config.yaml --json`,
	RunE: runConfigValidate,
}

// configPath returns the file in use, the --config value, or the default
// location, in that order.
func configPath() string {
	if used := config.FileUsed(); used != "" {
		return used
	}
	if configFile != "" {
		return configFile
	}
	return paths.ConfigFile()
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	return writeConfig(cmd.OutOrStdout(), appConfig, configFormat)
}

func writeConfig(w io.Writer, cfg *config.Config, format string) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case "yaml", "yml", "":
		data, err = yaml.Marshal(cfg)
	case "toml":
		data, err = toml.Marshal(cfg)
	default:
		return errors.NewUserError(errors.Newf("unknown format %q", format), "Use --format yaml or --format toml")
	}
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}

	_, err = w.Write(data)
	return err
}

func runConfigGet(w io.Writer, key string) error {
	if !viper.IsSet(key) {
		fmt.Fprintln(w, "not set")
		return nil
	}

	switch v := viper.Get(key).(type) {
	case []any:
		for _, item := range v {
			fmt.Fprintln(w, item)
		}
	case []string:
		for _, item := range v {
			fmt.Fprintln(w, item)
		}
	default:
		fmt.Fprintln(w, viper.GetString(key))
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path := configFile
	if path == "" {
		path = paths.ConfigFile()
	}

	if _, err := os.Stat(path); err == nil && !configForce {
		return errors.NewUserError(
			errors.Newf("config file `%s` already exists", path),
			"Use --force to overwrite it")
	}

	if err := config.Save(path, config.Default()); err != nil {
		return errors.NewSystemError(err, "")
	}

	fmt.Fprintf(stdout(cmd), "Created config file: `%s`\n", path)
	return nil
}

func runConfigEdit(_ *cobra.Command, _ []string) error {
	path := configPath()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return errors.NewUserError(
			errors.Newf("config file not found at %s", path),
			"Run: filesbackup config init")
	}

	return editor.Open(path)
}

func runConfigValidate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Read(configFile)
	if err != nil {
		return errors.NewConfigError(err)
	}

	result := validator.CheckConfig(cfg)
	result.File = config.FileUsed()

	format := validator.FormatText
	if configJSON {
		format = validator.FormatJSON
	}
	if err := validator.NewReporter(cmd.OutOrStdout(), format).Report(result); err != nil {
		return err
	}

	if result.HasErrors() {
		return errors.NewUserError(
			errors.Newf("configuration has %d error(s)", len(result.Errors())),
			"Run: filesbackup config edit")
	}
	return nil
}
