// Package xdg resolves the per-user locations flyby uses, following the
// XDG base directory rules: a set, non-empty variable wins, otherwise the
// default relative to the home directory applies.
package xdg

import (
	"errors"
	"os"
	"path/filepath"
)

const (
	appDir     = "flyby"
	dbFile     = "flyby.db"
	configFile = "flybydb.toml"
)

// Env looks up an environment variable. os.Getenv in production.
type Env func(string) string

// DataHome returns $XDG_DATA_HOME or ~/.local/share.
func DataHome(env Env) (string, error) {
	return base(env, "XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// ConfigHome returns $XDG_CONFIG_HOME or ~/.config.
func ConfigHome(env Env) (string, error) {
	return base(env, "XDG_CONFIG_HOME", ".config")
}

// DBPath is where flyby reads the user's transponder database.
func DBPath(env Env) (string, error) {
	dir, err := DataHome(env)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, dbFile), nil
}

// ConfigPath is the default location of the flybydb config file.
func ConfigPath(env Env) (string, error) {
	dir, err := ConfigHome(env)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, configFile), nil
}

func base(env Env, name, rel string) (string, error) {
	if env == nil {
		env = os.Getenv
	}
	// XDG treats relative values as unset.
	if v := env(name); v != "" && filepath.IsAbs(v) {
		return v, nil
	}
	home := env("HOME")
	if home == "" {
		return "", errors.New("cannot resolve home directory: HOME is not set")
	}
	return filepath.Join(home, rel), nil
}
