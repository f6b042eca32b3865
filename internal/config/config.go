package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DB      DBConfig    `mapstructure:"db"`
	JWT     JWTConfig   `mapstructure:"jwt"`
	Drive   DriveConfig `mapstructure:"drive"`
	Cache   CacheConfig `mapstructure:"cache"`
	AppHost string      `mapstructure:"host"`
}

type DBConfig struct {
	Source string `mapstructure:"source"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type DriveConfig struct {
	APIKey      string `mapstructure:"api_key"`
	BaseURL     string `mapstructure:"base_url"`
	PageSize    int    `mapstructure:"page_size"`
	MaxRetries  int    `mapstructure:"max_retries"`
	WarmerToken string `mapstructure:"warmer_token"`
}

// CacheConfig keeps the listing freshness window and the HTTP cache-control
// values separate - they are not the same knob.
type CacheConfig struct {
	TTLMinutes               int `mapstructure:"ttl_minutes"`
	ListMaxAge               int `mapstructure:"list_max_age"`
	ListStaleWhileRevalidate int `mapstructure:"list_stale_while_revalidate"`
	StreamMaxAge             int `mapstructure:"stream_max_age"`
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

func Load() (*Config, error) {
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("/configs")
	viper.SetConfigName("settings")
	viper.SetConfigType("yml")

	viper.SetDefault("drive.base_url", "https://www.googleapis.com/drive/v3")
	viper.SetDefault("drive.page_size", 1000)
	viper.SetDefault("drive.max_retries", 3)
	viper.SetDefault("cache.ttl_minutes", 60)
	viper.SetDefault("cache.list_max_age", 300)
	viper.SetDefault("cache.list_stale_while_revalidate", 600)
	viper.SetDefault("cache.stream_max_age", 3600)

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
