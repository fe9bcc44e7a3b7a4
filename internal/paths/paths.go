// Package paths resolves the configuration and definitions directories of
// the timeboard CLI and maps definition names to files.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Directory and file names.
const (
	AppDirName          = "timeboard"
	DefinitionExt       = ".yaml"
	ConfigFileName      = "config.yaml"
	altDefinitionSuffix = ".yml"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir      = "TIMEBOARD_CONFIG_DIR"
	EnvDefinitionsDir = "TIMEBOARD_DEFINITIONS_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
	workDir       func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
	workDir:       os.Getwd,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/timeboard (fallback ~/.config/timeboard)
// macOS:   ~/Library/Application Support/timeboard
// Windows: %APPDATA%/timeboard
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, AppDirName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", AppDirName), nil
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppDirName), nil
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > TIMEBOARD_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDefinitionsDir returns the directory searched for named
// definitions: flag > configValue (definitions_dir in config.yaml) >
// TIMEBOARD_DEFINITIONS_DIR env > the working directory.
func ResolveDefinitionsDir(flag, configValue string) (string, error) {
	for _, v := range []string{flag, configValue, os.Getenv(EnvDefinitionsDir)} {
		if v != "" {
			return filepath.Abs(v)
		}
	}
	return platformDir.workDir()
}

// DefinitionPath maps a definition argument to a file. Arguments that look
// like paths (a separator or a YAML extension) or name an existing file are
// returned unchanged; anything else is a name looked up as
// dir/<name>.yaml.
func DefinitionPath(arg, dir string) string {
	if strings.ContainsRune(arg, filepath.Separator) || strings.ContainsRune(arg, '/') ||
		strings.HasSuffix(arg, DefinitionExt) || strings.HasSuffix(arg, altDefinitionSuffix) {
		return arg
	}
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		return arg
	}
	return filepath.Join(dir, arg+DefinitionExt)
}
