package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flexprice/taxadmin/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `mapstructure:"deployment" validate:"required"`
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Logging    LoggingConfig    `mapstructure:"logging" validate:"required"`
	Remote     RemoteConfig     `mapstructure:"remote" validate:"required"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Fallback   FallbackConfig   `mapstructure:"fallback"`
	Sentry     SentryConfig     `mapstructure:"sentry"`
}

type DeploymentConfig struct {
	Mode types.RunMode `mapstructure:"mode" validate:"required,oneof=local api"`
}

type ServerConfig struct {
	Address string `mapstructure:"address" validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// RemoteConfig points at the upstream tax service
type RemoteConfig struct {
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

// CacheConfig controls the query cache. A zero TTL keeps entries until invalidated.
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	TTL             time.Duration `mapstructure:"ttl" validate:"gte=0"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval" validate:"gte=0"`
}

// FallbackConfig optionally replaces the built-in fallback dataset with a JSON file
type FallbackConfig struct {
	File string `mapstructure:"file"`
}

type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn" validate:"required_if=Enabled true"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate" validate:"gte=0,lte=1"`
}

const (
	DefaultRemoteBaseURL        = "https://685013d7e7fc42cfd17974a33.mockapi.io/api/v1"
	DefaultRemoteTimeout        = 10 * time.Second
	DefaultCacheTTL             = 5 * time.Minute
	DefaultCacheCleanupInterval = 10 * time.Minute
)

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/taxadmin")

	setDefaults(v)

	v.SetEnvPrefix("TAXADMIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults registers every key so env overrides apply without a config file
func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", types.ModeLocal)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", types.LogLevelInfo)
	v.SetDefault("remote.base_url", DefaultRemoteBaseURL)
	v.SetDefault("remote.timeout", DefaultRemoteTimeout)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", DefaultCacheTTL)
	v.SetDefault("cache.cleanup_interval", DefaultCacheCleanupInterval)
	v.SetDefault("fallback.file", "")
	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "local")
	v.SetDefault("sentry.sample_rate", 1.0)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// and tests
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Remote: RemoteConfig{
			BaseURL: DefaultRemoteBaseURL,
			Timeout: DefaultRemoteTimeout,
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             DefaultCacheTTL,
			CleanupInterval: DefaultCacheCleanupInterval,
		},
	}
}
