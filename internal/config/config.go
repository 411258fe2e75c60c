package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the top-level application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Store   StoreConfig   `mapstructure:"store"`
	Webhook WebhookConfig `mapstructure:"webhook"`
	Admin   AdminConfig   `mapstructure:"admin"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

type StoreConfig struct {
	Path string `mapstructure:"path"`
	Key  string `mapstructure:"key"`
}

type WebhookConfig struct {
	URL string `mapstructure:"url"`
}

// AdminConfig holds the dashboard gate settings. PassphraseHash is a bcrypt
// hash of the shared passphrase; TokenTTLHours bounds dashboard sessions.
type AdminConfig struct {
	PassphraseHash string `mapstructure:"passphrase_hash"`
	TokenTTLHours  int    `mapstructure:"token_ttl_hours"`
}

type LoggingConfig struct {
	Directory  string `mapstructure:"directory"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")

	v.SetDefault("catalog.path", "config/catalog.yaml")

	v.SetDefault("store.path", "data/logosurvey.db")
	v.SetDefault("store.key", "logo-survey-responses")

	v.SetDefault("admin.token_ttl_hours", 12)

	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.max_size", 10) // MB
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 7) // days
	v.SetDefault("logging.compress", true)
}

// Load reads the configuration from config/config.yaml (optional) and
// LOGOSURVEY_-prefixed environment variables, e.g. LOGOSURVEY_WEBHOOK_URL.
func Load(configDir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(configDir)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("LOGOSURVEY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Missing config file is fine; defaults and env vars apply.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}
