package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// AppName names the config, state and data directories
const AppName = "anistream"

// EnvPrefix prefixes environment overrides, e.g. ANISTREAM_HTTP_TIMEOUT
const EnvPrefix = "ANISTREAM"

// Config is the complete application configuration
type Config struct {
	Providers ProvidersConfig `mapstructure:"providers" yaml:"providers"`
	HTTP      HTTPConfig      `mapstructure:"http" yaml:"http"`
	Fallback  FallbackConfig  `mapstructure:"fallback" yaml:"fallback"`
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	History   HistoryConfig   `mapstructure:"history" yaml:"history"`
	Database  DatabaseConfig  `mapstructure:"database" yaml:"database"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	Advanced  AdvancedConfig  `mapstructure:"advanced" yaml:"advanced"`
}

// ProvidersConfig holds the upstream endpoints
type ProvidersConfig struct {
	Samehadaku SamehadakuConfig `mapstructure:"samehadaku" yaml:"samehadaku"`
	Kuramanime KuramanimeConfig `mapstructure:"kuramanime" yaml:"kuramanime"`
}

// SamehadakuConfig configures the primary provider
type SamehadakuConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// KuramanimeConfig configures the fallback provider
type KuramanimeConfig struct {
	BaseURL          string `mapstructure:"base_url" yaml:"base_url"`
	PreferredQuality string `mapstructure:"preferred_quality" yaml:"preferred_quality"`
	HealthQuery      string `mapstructure:"health_query" yaml:"health_query"`
}

// HTTPConfig configures the shared upstream transport
type HTTPConfig struct {
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxRetries int           `mapstructure:"max_retries" yaml:"max_retries"`
	UserAgent  string        `mapstructure:"user_agent" yaml:"user_agent"`
}

// FallbackConfig mirrors aggregator.Policy
type FallbackConfig struct {
	Enabled       bool `mapstructure:"enabled" yaml:"enabled"`
	FirstPageOnly bool `mapstructure:"first_page_only" yaml:"first_page_only"`
}

// ServerConfig configures the JSON API
type ServerConfig struct {
	Address string `mapstructure:"address" yaml:"address"`
}

// HistoryConfig bounds the local history store
type HistoryConfig struct {
	MaxItems     int `mapstructure:"max_items" yaml:"max_items"`
	MaxFavorites int `mapstructure:"max_favorites" yaml:"max_favorites"`
}

// DatabaseConfig locates the sqlite file
type DatabaseConfig struct {
	Path    string `mapstructure:"path" yaml:"path"`
	WALMode bool   `mapstructure:"wal_mode" yaml:"wal_mode"`
}

// LoggingConfig configures InitLogger
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	File       string `mapstructure:"file" yaml:"file"`
	Format     string `mapstructure:"format" yaml:"format"`
	Color      bool   `mapstructure:"color" yaml:"color"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// AdvancedConfig holds debugging switches and platform overrides
type AdvancedConfig struct {
	Debug bool `mapstructure:"debug" yaml:"debug"`
	// ClipboardCommand receives copied text on stdin; empty uses the
	// platform default
	ClipboardCommand string `mapstructure:"clipboard_command" yaml:"clipboard_command"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Providers: ProvidersConfig{
			Samehadaku: SamehadakuConfig{
				BaseURL: "https://www.sankavollerei.com/anime/samehadaku",
			},
			Kuramanime: KuramanimeConfig{
				BaseURL:          "https://www.sankavollerei.com/anime/kura",
				PreferredQuality: "720",
				HealthQuery:      "naruto",
			},
		},
		HTTP: HTTPConfig{
			Timeout:    30 * time.Second,
			MaxRetries: 0,
			UserAgent:  "anistream/1.0",
		},
		Fallback: FallbackConfig{
			Enabled:       true,
			FirstPageOnly: true,
		},
		Server: ServerConfig{
			Address: "127.0.0.1:8080",
		},
		History: HistoryConfig{
			MaxItems:     50,
			MaxFavorites: 100,
		},
		Database: DatabaseConfig{
			Path:    filepath.Join(getDataDir(), AppName, "anistream.db"),
			WALMode: true,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Color:      true,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   false,
		},
	}
}

// Load reads configuration from cfgFile, or from the default location when
// empty, applies ANISTREAM_* environment overrides on top of the defaults and
// returns the decoded config together with the viper instance so callers can
// watch the file for changes. A missing config file is not an error.
func Load(cfgFile string) (*Config, *viper.Viper, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(GetConfigDir(), AppName))
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(cfgFile != "" && errors.Is(err, os.ErrNotExist)) {
			return nil, nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg, err := Decode(v)
	if err != nil {
		return nil, nil, err
	}
	return cfg, v, nil
}

// Decode unmarshals the current state of v and validates it
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the application cannot run with
func (c *Config) Validate() error {
	if c.Providers.Samehadaku.BaseURL == "" {
		return fmt.Errorf("providers.samehadaku.base_url must not be empty")
	}
	if c.Providers.Kuramanime.BaseURL == "" {
		return fmt.Errorf("providers.kuramanime.base_url must not be empty")
	}
	if c.HTTP.Timeout < 0 {
		return fmt.Errorf("http.timeout must not be negative")
	}
	if c.HTTP.MaxRetries < 0 {
		return fmt.Errorf("http.max_retries must not be negative")
	}
	if c.History.MaxItems < 1 || c.History.MaxFavorites < 1 {
		return fmt.Errorf("history limits must be positive")
	}
	return nil
}

// setDefaults registers every key of cfg with viper, so env overrides work
// for keys that do not appear in the config file
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("providers.samehadaku.base_url", cfg.Providers.Samehadaku.BaseURL)
	v.SetDefault("providers.kuramanime.base_url", cfg.Providers.Kuramanime.BaseURL)
	v.SetDefault("providers.kuramanime.preferred_quality", cfg.Providers.Kuramanime.PreferredQuality)
	v.SetDefault("providers.kuramanime.health_query", cfg.Providers.Kuramanime.HealthQuery)

	v.SetDefault("http.timeout", cfg.HTTP.Timeout)
	v.SetDefault("http.max_retries", cfg.HTTP.MaxRetries)
	v.SetDefault("http.user_agent", cfg.HTTP.UserAgent)

	v.SetDefault("fallback.enabled", cfg.Fallback.Enabled)
	v.SetDefault("fallback.first_page_only", cfg.Fallback.FirstPageOnly)

	v.SetDefault("server.address", cfg.Server.Address)

	v.SetDefault("history.max_items", cfg.History.MaxItems)
	v.SetDefault("history.max_favorites", cfg.History.MaxFavorites)

	v.SetDefault("database.path", cfg.Database.Path)
	v.SetDefault("database.wal_mode", cfg.Database.WALMode)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.color", cfg.Logging.Color)
	v.SetDefault("logging.max_size", cfg.Logging.MaxSize)
	v.SetDefault("logging.max_backups", cfg.Logging.MaxBackups)
	v.SetDefault("logging.max_age", cfg.Logging.MaxAge)
	v.SetDefault("logging.compress", cfg.Logging.Compress)

	v.SetDefault("advanced.debug", cfg.Advanced.Debug)
	v.SetDefault("advanced.clipboard_command", cfg.Advanced.ClipboardCommand)
}

// SaveDefaultConfig writes the defaults to path as YAML
func SaveDefaultConfig(path string) error {
	cfg := DefaultConfig()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	header := "# anistream configuration\n# Environment variables with the ANISTREAM_ prefix override these values.\n\n"
	return os.WriteFile(path, append([]byte(header), data...), 0644)
}

// DefaultConfigFile returns the path Load reads when no file is given
func DefaultConfigFile() string {
	return filepath.Join(GetConfigDir(), AppName, "config.yaml")
}

// InitializeDirs creates the config, data and state directories
func InitializeDirs() error {
	for _, dir := range []string{
		filepath.Join(GetConfigDir(), AppName),
		filepath.Join(getDataDir(), AppName),
		filepath.Join(getStateDir(), AppName),
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// GetConfigDir returns the base config directory ($XDG_CONFIG_HOME or the
// platform equivalent)
func GetConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	return filepath.Join(homeDir(), ".config")
}

func getDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	switch runtime.GOOS {
	case "windows":
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return dir
		}
	case "darwin":
		return filepath.Join(homeDir(), "Library", "Application Support")
	}
	return filepath.Join(homeDir(), ".local", "share")
}

func getStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return dir
	}
	switch runtime.GOOS {
	case "windows":
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return dir
		}
	case "darwin":
		return filepath.Join(homeDir(), "Library", "Logs")
	}
	return filepath.Join(homeDir(), ".local", "state")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
