// Package paths resolves where cyclehud keeps its configuration (settings
// and layout) and its data (the save archive).
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user directories.
const AppName = "cyclehud"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "CYCLEHUD_CONFIG_DIR"
	EnvDataDir   = "CYCLEHUD_DATA_DIR"
)

// File names inside the resolved directories.
const (
	SettingsFile = "settings.yaml"
	LayoutFile   = "layout.yaml"
	ArchiveFile  = "saves.db"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// xdgDir returns $xdgVar/cyclehud on Linux, falling back to ~/<fallback...>/cyclehud.
// Elsewhere it returns the OS user config directory joined with cyclehud.
func xdgDir(xdgVar string, fallback ...string) (string, error) {
	if platformDir.goos != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
	if xdg := os.Getenv(xdgVar); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append(append([]string{home}, fallback...), AppName)...), nil
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/cyclehud (fallback ~/.config/cyclehud)
// macOS:   ~/Library/Application Support/cyclehud
// Windows: %APPDATA%/cyclehud
func DefaultConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform-specific default data directory.
//
// Linux:   $XDG_DATA_HOME/cyclehud (fallback ~/.local/share/cyclehud)
// macOS and Windows: same as the config directory.
func DefaultDataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", ".local", "share")
}

func resolve(flag, envVar string, fallback func() (string, error)) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(envVar); env != "" {
		return filepath.Abs(env)
	}
	return fallback()
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > CYCLEHUD_CONFIG_DIR > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	return resolve(flag, EnvConfigDir, DefaultConfigDir)
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > CYCLEHUD_DATA_DIR > DefaultDataDir().
func ResolveDataDir(flag string) (string, error) {
	return resolve(flag, EnvDataDir, DefaultDataDir)
}

// Dirs is a resolved pair of directories.
type Dirs struct {
	Config string
	Data   string
}

// Resolve resolves both directories from their flags.
func Resolve(configFlag, dataFlag string) (Dirs, error) {
	config, err := ResolveConfigDir(configFlag)
	if err != nil {
		return Dirs{}, fmt.Errorf("resolve config dir: %w", err)
	}
	data, err := ResolveDataDir(dataFlag)
	if err != nil {
		return Dirs{}, fmt.Errorf("resolve data dir: %w", err)
	}
	return Dirs{Config: config, Data: data}, nil
}

// Ensure creates both directories if they do not exist.
func (d Dirs) Ensure() error {
	for _, dir := range []string{d.Config, d.Data} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// SettingsPath returns the path of the settings file.
func (d Dirs) SettingsPath() string { return filepath.Join(d.Config, SettingsFile) }

// LayoutPath returns the path of the layout file.
func (d Dirs) LayoutPath() string { return filepath.Join(d.Config, LayoutFile) }

// ArchivePath returns the path of the save archive database.
func (d Dirs) ArchivePath() string { return filepath.Join(d.Data, ArchiveFile) }
