package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath names an explicit config file.
	EnvConfigPath = "MALSIM_CONFIG"
	// ConfigFileName is looked up in the working directory.
	ConfigFileName = "malsim.yaml"
	// ConfigDirName is the directory under ~/.config.
	ConfigDirName = "malsim"
)

// FindConfigPath returns the first config file found, or "" when none exists.
//
// Lookup order:
//  1. $MALSIM_CONFIG
//  2. ./malsim.yaml
//  3. $XDG_CONFIG_HOME/malsim/config.yaml
//  4. ~/.config/malsim/config.yaml
func FindConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		if fileExists(path) {
			return path
		}
	}

	if fileExists(ConfigFileName) {
		if abs, err := filepath.Abs(ConfigFileName); err == nil {
			return abs
		}
		return ConfigFileName
	}

	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		path := filepath.Join(xdgHome, ConfigDirName, "config.yaml")
		if fileExists(path) {
			return path
		}
	}

	if home := os.Getenv("HOME"); home != "" {
		path := filepath.Join(home, ".config", ConfigDirName, "config.yaml")
		if fileExists(path) {
			return path
		}
	}

	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
