// Package config handles loading, defaulting, and validation of the flybydb
// TOML configuration file. Every section maps to a typed struct so the rest
// of the codebase gets strong typing without manual key lookups.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/large-farva/flybydb/internal/satnogs"
)

// Config is the top-level configuration, mirroring the TOML sections.
type Config struct {
	Source  SourceConfig  `toml:"source"  json:"source"`
	Output  OutputConfig  `toml:"output"  json:"output"`
	Names   NamesConfig   `toml:"names"   json:"names"`
	Logging LoggingConfig `toml:"logging" json:"logging"`
}

type SourceConfig struct {
	URL            string `toml:"url"             json:"url"             validate:"required,url"`
	TimeoutSeconds int    `toml:"timeout_seconds" json:"timeout_seconds" validate:"min=1,max=600"`
	UserAgent      string `toml:"user_agent"      json:"user_agent"`
}

// OutputConfig selects the database location. An empty path means the
// per-user default, $XDG_DATA_HOME/flyby/flyby.db.
type OutputConfig struct {
	Path string `toml:"path" json:"path"`
}

// NamesConfig points at an optional TLE set (file path or URL) whose names
// replace record ids as entry display names.
type NamesConfig struct {
	TLE string `toml:"tle" json:"tle"`
}

type LoggingConfig struct {
	Level string `toml:"level" json:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `toml:"json"  json:"json"`
}

// Timeout returns the fetch timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.Source.TimeoutSeconds) * time.Second
}

// Default returns a Config populated with sane defaults. Values here are
// used whenever the TOML file omits a field.
func Default() Config {
	return Config{
		Source: SourceConfig{
			URL:            satnogs.DefaultURL,
			TimeoutSeconds: 30,
			UserAgent:      "flybydb",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the TOML file at path, layers it on top of the defaults, and
// validates the result. An error is returned if the file can't be read,
// parsed, or if any constraint is violated.
func Load(path string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := toml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their TOML key.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("toml"), ",")
		return name
	})
	return v
}

// Validate checks cfg, reporting problems by their TOML key.
func Validate(cfg Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		// Namespace is "Config.source.url"; drop the type name.
		_, key, _ := strings.Cut(fe.Namespace(), ".")
		msgs = append(msgs, fmt.Sprintf("%s: failed %q check (value %v)", key, fe.Tag(), fe.Value()))
	}
	return errors.New(strings.Join(msgs, "; "))
}
