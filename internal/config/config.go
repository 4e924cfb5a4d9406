// Package config manages svgtint settings: defaults, an optional config
// file, SVGTINT_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jmylchreest/svgtint/internal/autofix"
	"github.com/jmylchreest/svgtint/internal/colour"
	"github.com/jmylchreest/svgtint/internal/engine"
)

// Name is used for the config file, the config directory and the
// environment prefix.
const Name = "svgtint"

// Keys.
const (
	KeyBackgroundLight = "bg-light"
	KeyBackgroundDark  = "bg-dark"
	KeyMode            = "mode"
	KeyMaxPasses       = "max-passes"
	KeyPreview         = "preview"
)

// EnvKeyReplacer maps keys to environment variable names.
var EnvKeyReplacer = strings.NewReplacer("-", "_", ".", "_")

// Field is a registered setting.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Env returns the environment variable that sets the field.
func (f Field) Env() string {
	return strings.ToUpper(Name + "_" + EnvKeyReplacer.Replace(f.Key))
}

// Fields lists every setting in display order.
var Fields = []Field{
	{KeyBackgroundLight, engine.DefaultBackgroundLight, "Light background colour (hex)"},
	{KeyBackgroundDark, engine.DefaultBackgroundDark, "Dark background colour (hex)"},
	{KeyMode, autofix.ModeWCAG.String(), "Metric that drives fixes: wcag or apca"},
	{KeyMaxPasses, engine.DefaultMaxPasses, "Maximum analyse/fix passes for fix"},
	{KeyPreview, true, "Show colour swatches when writing to a terminal"},
}

// Config is the resolved configuration.
type Config struct {
	BackgroundLight string `mapstructure:"bg-light"`
	BackgroundDark  string `mapstructure:"bg-dark"`
	Mode            string `mapstructure:"mode"`
	MaxPasses       int    `mapstructure:"max-passes"`
	Preview         bool   `mapstructure:"preview"`
}

// Loader builds a Config from its sources.
type Loader struct {
	v  *viper.Viper
	fs afero.Fs
}

// NewLoader creates a loader reading config files from fs. A nil fs means
// the OS filesystem.
func NewLoader(fs afero.Fs) *Loader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	v := viper.New()
	v.SetFs(fs)
	v.SetEnvPrefix(Name)
	v.SetEnvKeyReplacer(EnvKeyReplacer)
	v.AutomaticEnv()
	v.SetTypeByDefaultValue(true)
	for _, f := range Fields {
		v.SetDefault(f.Key, f.Value)
	}
	return &Loader{v: v, fs: fs}
}

// BindFlags binds every flag in flags whose name is a config key.
func (l *Loader) BindFlags(flags *pflag.FlagSet) error {
	for _, f := range Fields {
		if flag := flags.Lookup(f.Key); flag != nil {
			if err := l.v.BindPFlag(f.Key, flag); err != nil {
				return fmt.Errorf("failed to bind flag %s: %w", f.Key, err)
			}
		}
	}
	return nil
}

// Load reads the config file (explicit path, else svgtint.yaml in the
// config directory) and returns the validated settings. A missing default
// config file is not an error.
func (l *Loader) Load(path string) (*Config, error) {
	if path != "" {
		l.v.SetConfigFile(path)
	} else {
		l.v.SetConfigName(Name)
		l.v.SetConfigType("yaml")
		l.v.AddConfigPath(Dir())
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ConfigFileUsed returns the config file that was read, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// Get returns the effective value of a key.
func (l *Loader) Get(key string) any {
	return l.v.Get(key)
}

// Validate checks the backgrounds, the mode and the pass limit.
func (c *Config) Validate() error {
	if _, err := colour.ParseHex(c.BackgroundLight); err != nil {
		return fmt.Errorf("%s: %w", KeyBackgroundLight, err)
	}
	if _, err := colour.ParseHex(c.BackgroundDark); err != nil {
		return fmt.Errorf("%s: %w", KeyBackgroundDark, err)
	}
	if _, err := autofix.ParseMode(c.Mode); err != nil {
		return fmt.Errorf("%s: %w", KeyMode, err)
	}
	if c.MaxPasses < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", KeyMaxPasses, c.MaxPasses)
	}
	return nil
}

// EngineOptions converts the settings for the engine.
func (c *Config) EngineOptions() engine.Options {
	mode, _ := autofix.ParseMode(c.Mode)
	return engine.Options{
		BackgroundLight: c.BackgroundLight,
		BackgroundDark:  c.BackgroundDark,
		Mode:            mode,
	}
}

// Dir returns the directory searched for svgtint.yaml:
// $XDG_CONFIG_HOME/svgtint, else ~/.config/svgtint.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, Name)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", Name)
	}
	return "."
}
