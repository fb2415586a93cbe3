package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"jdkfetch/internal/manifest"
)

// EnvPrefix prefixes environment overrides, e.g. JDKFETCH_MANIFEST_URL
const EnvPrefix = "JDKFETCH"

// Config holds the application configuration
type Config struct {
	ManifestURL         string        `json:"manifest_url" mapstructure:"manifest_url"`                   // Primary release manifest
	FallbackManifestURL string        `json:"fallback_manifest_url" mapstructure:"fallback_manifest_url"` // Tried when the primary fails
	CacheDir            string        `json:"cache_dir" mapstructure:"cache_dir"`                         // Where downloaded manifests are kept
	CacheTTL            time.Duration `json:"cache_ttl" mapstructure:"cache_ttl"`                         // How long a cached manifest is reused
	HTTPRetries         int           `json:"http_retries" mapstructure:"http_retries"`
	HTTPTimeout         time.Duration `json:"http_timeout" mapstructure:"http_timeout"`
	DownloadDir         string        `json:"download_dir" mapstructure:"download_dir"` // Default destination of `jdkfetch download`
	UpdateConfig        UpdateConfig  `json:"update_config" mapstructure:"update_config"`
	configPath          string
}

// UpdateConfig holds settings for auto-update feature
type UpdateConfig struct {
	Enabled     bool      `json:"enabled" mapstructure:"enabled"`           // Master toggle for update functionality
	AutoCheck   bool      `json:"auto_check" mapstructure:"auto_check"`     // Check for updates on startup
	LastCheck   time.Time `json:"last_check" mapstructure:"last_check"`     // Last time update check was performed
	SkipVersion string    `json:"skip_version" mapstructure:"skip_version"` // Version user chose to skip
	Repository  string    `json:"repository" mapstructure:"repository"`     // GitHub owner/name publishing jdkfetch releases
}

// Load loads the configuration from the user's config directory. A missing
// file yields the defaults; environment variables override both.
func Load() (*Config, error) {
	return LoadFile(getConfigPath())
}

// LoadFile loads the configuration stored at configPath
func LoadFile(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		// Remove BOM if present (UTF-8 BOM is EF BB BF)
		data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
		if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, err
	}

	cfg := &Config{}
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
	))
	if err := v.Unmarshal(cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.CacheDir = cleanPath(cfg.CacheDir)
	cfg.DownloadDir = cleanPath(cfg.DownloadDir)
	cfg.UpdateConfig.Repository = strings.Trim(strings.TrimSpace(cfg.UpdateConfig.Repository), "/")
	cfg.configPath = configPath
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("manifest_url", manifest.DefaultURL)
	v.SetDefault("fallback_manifest_url", manifest.FallbackURL)
	v.SetDefault("cache_dir", "")
	v.SetDefault("cache_ttl", manifest.DefaultTTL)
	v.SetDefault("http_retries", 3)
	v.SetDefault("http_timeout", 30*time.Second)
	v.SetDefault("download_dir", "")
	v.SetDefault("update_config.enabled", true)
	v.SetDefault("update_config.auto_check", true)
	v.SetDefault("update_config.skip_version", "")
	v.SetDefault("update_config.repository", "")
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	// Ensure config directory exists
	configDir := filepath.Dir(c.configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(c.configPath, data, 0644)
}

// Path returns the file the configuration is read from and saved to
func (c *Config) Path() string {
	return c.configPath
}

// ManifestURLs returns the configured manifest URLs, primary first
func (c *Config) ManifestURLs() []string {
	urls := make([]string, 0, 2)
	for _, u := range []string{c.ManifestURL, c.FallbackManifestURL} {
		u = strings.TrimSpace(u)
		if u != "" && (len(urls) == 0 || urls[0] != u) {
			urls = append(urls, u)
		}
	}
	return urls
}

func cleanPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	return filepath.Clean(p)
}

// getConfigPath returns the path to the configuration file
// Following XDG Base Directory specification
func getConfigPath() string {
	// Try XDG_CONFIG_HOME first (standard on Unix systems)
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome != "" {
		return filepath.Join(configHome, "jdkfetch", "jdkfetch.json")
	}

	// Fallback to $HOME/.config/jdkfetch/jdkfetch.json (XDG default)
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return filepath.Join(homeDir, ".config", "jdkfetch", "jdkfetch.json")
}
