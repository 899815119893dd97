// Package config loads sentrystack settings using Viper.
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// AppName is the application name used for config file naming.
const AppName = "sentrystack"

// Config keys. They match the command-line flag names.
const (
	KeyReportLoggers = "report-loggers"
	KeyLoggerClasses = "logger-classes"
	KeyExclude       = "exclude"
	KeyFormat        = "format"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var (
	// ErrConfigNotFound is returned when an explicit config file is missing.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidFormat is returned for an unknown output format.
	ErrInvalidFormat = errors.New("invalid output format")
)

// Config represents the settings read from files and the environment.
type Config struct {
	ReportLoggers []string `mapstructure:"report-loggers" yaml:"report-loggers"`
	LoggerClasses []string `mapstructure:"logger-classes" yaml:"logger-classes"`
	Exclude       []string `mapstructure:"exclude"        yaml:"exclude"`
	Format        string   `mapstructure:"format"         yaml:"format"`

	// File is the file the settings were read from, if any.
	File string `mapstructure:"-" yaml:"-"`
}

// pyproject is the part of pyproject.toml read by sentrystack.
type pyproject struct {
	Tool struct {
		Sentrystack map[string]any `toml:"sentrystack"`
	} `toml:"tool"`
}

// Load reads the configuration.
//
// If path is provided, it reads from that specific file. Otherwise it
// searches, in order, .sentrystack.{yaml,yml,toml} in dir, the
// [tool.sentrystack] table of dir/pyproject.toml, and
// $XDG_CONFIG_HOME/sentrystack/config.{yaml,yml,toml}. Missing files are
// not an error. SENTRYSTACK_* environment variables override file values.
func Load(path, dir string) (*Config, error) {
	v := viper.New()

	// Environment variable support
	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault(KeyReportLoggers, []string{})
	v.SetDefault(KeyLoggerClasses, []string{})
	v.SetDefault(KeyExclude, []string{})
	v.SetDefault(KeyFormat, FormatText)

	file, err := read(v, path, dir)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}
	cfg.File = file

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// read loads the first config source found into v and returns its path.
func read(v *viper.Viper, path, dir string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", errors.Wrapf(ErrConfigNotFound, "%s", path)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return "", errors.Wrapf(err, "reading config file %s", path)
		}
		return path, nil
	}

	v.SetConfigName("." + AppName)
	v.AddConfigPath(dir)
	err := v.ReadInConfig()
	if err == nil {
		return v.ConfigFileUsed(), nil
	}
	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) {
		return "", errors.Wrap(err, "reading config file")
	}

	if file, ok, err := readPyproject(v, dir); err != nil || ok {
		return file, err
	}

	for _, ext := range []string{"yaml", "yml", "toml"} {
		file, err := xdg.SearchConfigFile(filepath.Join(AppName, "config."+ext))
		if err != nil {
			continue
		}
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return "", errors.Wrapf(err, "reading config file %s", file)
		}
		return file, nil
	}

	return "", nil
}

// readPyproject merges [tool.sentrystack] from dir/pyproject.toml.
func readPyproject(v *viper.Viper, dir string) (string, bool, error) {
	file := filepath.Join(dir, "pyproject.toml")

	data, err := os.ReadFile(file)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "reading %s", file)
	}

	var pp pyproject
	if err := toml.Unmarshal(data, &pp); err != nil {
		return "", false, errors.Wrapf(err, "parsing %s", file)
	}
	if pp.Tool.Sentrystack == nil {
		return "", false, nil
	}

	if err := v.MergeConfigMap(pp.Tool.Sentrystack); err != nil {
		return "", false, errors.Wrapf(err, "merging %s", file)
	}

	return file, true, nil
}

// Validate checks the settings.
func (c *Config) Validate() error {
	if !slices.Contains([]string{FormatText, FormatJSON, FormatYAML}, c.Format) {
		return errors.Wrapf(ErrInvalidFormat, "%q (want text, json or yaml)", c.Format)
	}
	return nil
}

// FlagValues returns the analyzer flag values the config provides, keyed
// by flag name. Empty settings are omitted.
func (c *Config) FlagValues() map[string]string {
	values := make(map[string]string)
	if len(c.ReportLoggers) > 0 {
		values[KeyReportLoggers] = strings.Join(c.ReportLoggers, ",")
	}
	if len(c.LoggerClasses) > 0 {
		values[KeyLoggerClasses] = strings.Join(c.LoggerClasses, ",")
	}
	return values
}
