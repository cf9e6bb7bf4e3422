// Package config resolves ecrtool settings from flags, ECRTOOL_* environment
// variables and an optional YAML file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mchineboy/ecrtool/internal/logging"
	"github.com/mchineboy/ecrtool/internal/registry"
)

const (
	EnvPrefix  = "ECRTOOL"
	configName = "ecrtool"
	configType = "yaml"

	DefaultRegion = "us-east-1"
	maxPageSize   = 1000

	OutputTable = "table"
	OutputPlain = "plain"
)

// Keys are the configuration file keys. Flags use the same names with
// dashes instead of underscores.
const (
	KeyRegion     = "region"
	KeyProfile    = "profile"
	KeyRegistryID = "registry_id"
	KeyPageSize   = "page_size"
	KeyMaxPages   = "max_pages"
	KeyOutput     = "output"
	KeyLogLevel   = "log_level"
	KeyLogFormat  = "log_format"
)

// ErrInvalidConfiguration is wrapped by every validation and loading failure.
var ErrInvalidConfiguration = errors.New("invalid configuration")

var regionPattern = regexp.MustCompile(`^[a-z]{2}(-[a-z]+)+-[0-9]+$`)

// Config holds the application configuration
type Config struct {
	Region     string `mapstructure:"region"`
	Profile    string `mapstructure:"profile"`
	RegistryID string `mapstructure:"registry_id"`
	PageSize   int    `mapstructure:"page_size"`
	MaxPages   int    `mapstructure:"max_pages"`
	Output     string `mapstructure:"output"`
	LogLevel   string `mapstructure:"log_level"`
	LogFormat  string `mapstructure:"log_format"`
}

// Defaults returns the built-in values for every key.
func Defaults() map[string]any {
	return map[string]any{
		KeyRegion:     DefaultRegion,
		KeyProfile:    "",
		KeyRegistryID: "",
		KeyPageSize:   0,
		KeyMaxPages:   registry.DefaultMaxPages,
		KeyOutput:     OutputTable,
		KeyLogLevel:   string(logging.LevelWarn),
		KeyLogFormat:  string(logging.FormatConsole),
	}
}

// FlagName maps a configuration key to its command-line flag.
func FlagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// Load resolves the configuration. An explicit file must exist; otherwise
// ecrtool.yaml is looked up in the working directory and
// $HOME/.config/ecrtool, and a missing file is not an error.
func Load(flags *pflag.FlagSet, file string) (Config, error) {
	v := viper.New()

	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key := range Defaults() {
			flag := flags.Lookup(FlagName(key))
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return Config{}, fmt.Errorf("%w: bind flag %s: %v", ErrInvalidConfiguration, flag.Name, err)
			}
		}
	}

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", configName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("%w: failed to read configuration: %v", ErrInvalidConfiguration, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: failed to parse configuration: %v", ErrInvalidConfiguration, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every setting and reports the first problem found.
func (c Config) Validate() error {
	if !regionPattern.MatchString(c.Region) {
		return fmt.Errorf("%w: not a valid AWS region: %q", ErrInvalidConfiguration, c.Region)
	}
	if c.PageSize < 0 || c.PageSize > maxPageSize {
		return fmt.Errorf("%w: page size must be between 1 and %d, or 0 for the service default", ErrInvalidConfiguration, maxPageSize)
	}
	if c.MaxPages < 1 {
		return fmt.Errorf("%w: max pages must be positive", ErrInvalidConfiguration)
	}
	if c.Output != OutputTable && c.Output != OutputPlain {
		return fmt.Errorf("%w: unsupported output %q (want %s or %s)", ErrInvalidConfiguration, c.Output, OutputTable, OutputPlain)
	}
	if !logging.ValidLevel(logging.Level(c.LogLevel)) {
		return fmt.Errorf("%w: unsupported log level: %s", ErrInvalidConfiguration, c.LogLevel)
	}
	if !logging.ValidFormat(logging.Format(c.LogFormat)) {
		return fmt.Errorf("%w: unsupported log format: %s", ErrInvalidConfiguration, c.LogFormat)
	}
	return nil
}
