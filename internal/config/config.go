// Package config loads modgen settings from .modgen.yaml and MODGEN_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/phobologic/modgen/internal/lang"
)

// Config holds every setting the CLI reads.
type Config struct {
	// Language is used when --lang is absent and the project layout does
	// not settle it.
	Language string         `mapstructure:"language"`
	Rollback bool           `mapstructure:"rollback"`
	Log      LogConfig      `mapstructure:"log"`
	Template TemplateConfig `mapstructure:"template"`
}

// LogConfig selects the zap logger configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // console or json
}

// TemplateConfig describes the template project cloned by `modgen new`.
type TemplateConfig struct {
	URLs        map[string]string `mapstructure:"urls"` // by language name
	Package     string            `mapstructure:"package"`
	Class       string            `mapstructure:"class"`
	MixinConfig string            `mapstructure:"mixin_config"`
	Group       string            `mapstructure:"group"`
	BaseName    string            `mapstructure:"base_name"`
	GitTimeout  time.Duration     `mapstructure:"git_timeout"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("language", lang.Java)
	v.SetDefault("rollback", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("template.urls", map[string]string{
		lang.Java:   "https://github.com/FabricMC/fabric-example-mod",
		lang.Kotlin: "https://github.com/clabe45/fabric-example-mod-kotlin",
	})
	v.SetDefault("template.package", "net.fabricmc.example")
	v.SetDefault("template.class", "ExampleMod")
	v.SetDefault("template.mixin_config", "modid.mixins.json")
	v.SetDefault("template.group", "com.example")
	v.SetDefault("template.base_name", "fabric-example-mod")
	v.SetDefault("template.git_timeout", 2*time.Minute)
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := decode(newViper())
	if err != nil {
		panic(fmt.Sprintf("config: invalid defaults: %v", err))
	}
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("MODGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the configuration file at path, or, when path is empty,
// .modgen.yaml from the working directory or the home directory. A missing
// default file is not an error; a missing explicit file is.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".modgen")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if _, err := lang.Lookup(c.Language); err != nil {
		return &Error{Field: "language", Message: err.Error()}
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return &Error{Field: "log.format", Message: fmt.Sprintf("unknown format %q", c.Log.Format)}
	}
	if c.Template.GitTimeout <= 0 {
		return &Error{Field: "template.git_timeout", Message: "must be positive"}
	}
	return nil
}

// TemplateURL returns the template repository for the language.
func (c *Config) TemplateURL(l *lang.Language) (string, error) {
	url, ok := c.Template.URLs[l.Name]
	if !ok || url == "" {
		return "", &Error{Field: "template.urls." + l.Name, Message: "no template repository configured"}
	}
	return url, nil
}

// Error reports an invalid configuration value.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
