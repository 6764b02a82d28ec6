// Package settings reads user settings from settings.yaml in the config
// directory with Viper. It is the controller's SettingsProvider.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/cyclehud/pkg/types"
)

const (
	configFileName = "settings"
	configFileType = "yaml"
	configFileExt  = "settings.yaml"

	// EnvPrefix prefixes environment overrides, e.g. CYCLEHUD_EQUIP_DELAY_MS.
	EnvPrefix = "CYCLEHUD"
)

// Settings keys.
const (
	KeyPowerKey        = "power_key"
	KeyLeftKey         = "left_key"
	KeyRightKey        = "right_key"
	KeyUtilityKey      = "utility_key"
	KeyActivateKey     = "activate_key"
	KeyShowHideKey     = "showhide_key"
	KeyAutofade        = "autofade"
	KeyEquipDelayMS    = "equip_delay_ms"
	KeyMaxCycleLength  = "max_cycle_length"
	KeyLinkToFavorites = "link_to_favorites"
	KeyCacheSize       = "cache_size"
)

// DefaultSettingsYAML is written to settings.yaml on first run.
const DefaultSettingsYAML = `# cyclehud settings

# Hotkeys are host key codes. 0 leaves an action unbound.
power_key: 3
left_key: 5
right_key: 7
utility_key: 6
activate_key: 4
showhide_key: 8

# Hide the HUD automatically instead of with the show/hide key.
autofade: false

# Milliseconds between the last cycle press and the equip.
equip_delay_ms: 750

# Most entries one cycle may hold.
max_cycle_length: 15

# File favorited items into cycles automatically.
link_to_favorites: true

# Entries kept in the metadata cache.
cache_size: 256
`

// Provider holds the settings from the last successful read.
type Provider struct {
	dir string

	mu      sync.RWMutex
	current types.Settings
}

// New returns a provider for the given config directory holding default
// settings. Call Refresh to read the file.
func New(configDir string) *Provider {
	return &Provider{dir: configDir, current: types.DefaultSettings()}
}

// Load returns a provider that has read its settings file once.
func Load(configDir string) (*Provider, error) {
	p := New(configDir)
	if err := p.Refresh(); err != nil {
		return nil, err
	}
	return p, nil
}

// Path returns the settings file path.
func (p *Provider) Path() string {
	return filepath.Join(p.dir, configFileExt)
}

// Settings returns the settings from the last successful Refresh.
func (p *Provider) Settings() types.Settings {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Refresh re-reads settings.yaml, writing the default file first if none
// exists. On any error the previous settings stay in effect.
func (p *Provider) Refresh() error {
	v, err := loadConfig(p.dir)
	if err != nil {
		return err
	}
	var s types.Settings
	if err := v.Unmarshal(&s); err != nil {
		return fmt.Errorf("decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid settings in %s: %w", p.Path(), err)
	}

	p.mu.Lock()
	p.current = s
	p.mu.Unlock()
	return nil
}

func setDefaults(v *viper.Viper) {
	d := types.DefaultSettings()
	v.SetDefault(KeyPowerKey, d.PowerKey)
	v.SetDefault(KeyLeftKey, d.LeftKey)
	v.SetDefault(KeyRightKey, d.RightKey)
	v.SetDefault(KeyUtilityKey, d.UtilityKey)
	v.SetDefault(KeyActivateKey, d.ActivateKey)
	v.SetDefault(KeyShowHideKey, d.ShowHideKey)
	v.SetDefault(KeyAutofade, d.Autofade)
	v.SetDefault(KeyEquipDelayMS, d.EquipDelayMS)
	v.SetDefault(KeyMaxCycleLength, d.MaxCycleLength)
	v.SetDefault(KeyLinkToFavorites, d.LinkToFavorites)
	v.SetDefault(KeyCacheSize, d.CacheSize)
}

// loadConfig reads settings.yaml from configDir using Viper. It creates the
// directory and a default settings.yaml on first run. A missing file is not
// an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := EnsureDefaultFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default settings: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read settings: %w", err)
	}
	return v, nil
}

// EnsureDefaultFile writes the default settings.yaml if the directory has
// none. An existing file is never touched.
func EnsureDefaultFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat settings file: %w", err)
	}
	return os.WriteFile(path, []byte(DefaultSettingsYAML), 0o644)
}
