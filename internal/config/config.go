package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/casperkit/casperkit/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Configuration keys.
const (
	KeyRegistryURL     = "registry.url"
	KeyRegistryTimeout = "registry.timeout"
	KeyRegistryOffline = "registry.offline"
	KeyRegistryCache   = "registry.cache"
	KeyToolchain       = "toolchain"
)

// DefaultToolchain is the Rust toolchain pinned into generated projects.
const DefaultToolchain = "nightly-2023-03-25"

// DefaultRegistryTimeout bounds a single registry query.
const DefaultRegistryTimeout = 5 * time.Second

// Dir returns the path to the config directory (~/.casperkit/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.casperkit/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

func setDefaults() {
	viper.SetDefault(KeyRegistryURL, branding.RegistryURL())
	viper.SetDefault(KeyRegistryTimeout, DefaultRegistryTimeout.String())
	viper.SetDefault(KeyRegistryOffline, false)
	viper.SetDefault(KeyRegistryCache, true)
	viper.SetDefault(KeyToolchain, DefaultToolchain)
}

// Load initializes Viper to read from the config file and environment.
// registry.url is overridable as CASPERKIT_REGISTRY_URL.
func Load() {
	setDefaults()
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// RegistryURL returns the sparse index base URL without a trailing slash.
func RegistryURL() string {
	return strings.TrimRight(viper.GetString(KeyRegistryURL), "/")
}

// RegistryTimeout returns the per-query registry timeout. Unparseable or
// non-positive values fall back to DefaultRegistryTimeout.
func RegistryTimeout() time.Duration {
	d := viper.GetDuration(KeyRegistryTimeout)
	if d <= 0 {
		return DefaultRegistryTimeout
	}
	return d
}

// Offline reports whether registry queries are disabled.
func Offline() bool {
	return viper.GetBool(KeyRegistryOffline)
}

// CacheEnabled reports whether registry results are cached on disk.
func CacheEnabled() bool {
	return viper.GetBool(KeyRegistryCache)
}

// Toolchain returns the Rust toolchain channel for generated projects.
func Toolchain() string {
	if tc := strings.TrimSpace(viper.GetString(KeyToolchain)); tc != "" {
		return tc
	}
	return DefaultToolchain
}
