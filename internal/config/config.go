package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	Tenant   *TenantConfig   `mapstructure:"tenant"`
}

type APIConfig struct {
	Environment        string `mapstructure:"environment"`
	BaseURL            string `mapstructure:"base_url"`
	Port               string `mapstructure:"port"`
	JWTSigningKey      string `mapstructure:"jwt_signing_key"`
	AllowedCORSDomains string `mapstructure:"allowed_cors_domains"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
}

// TenantConfig carries the fallback organization used when a request
// supplies no tenant header and its hostname is not mapped.
type TenantConfig struct {
	HeaderName            string `mapstructure:"header_name"`
	DefaultOrganizationID uint   `mapstructure:"default_organization_id"`
}

func Load(configPath string) (*AppConfig, error) {
	viper.SetConfigFile(configPath)

	// Environment variables win over file values, e.g. TROOP_API_PORT.
	viper.SetEnvPrefix("TROOP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("viper.ReadInConfig -> %w", err)
	}

	conf := &AppConfig{}
	if err := viper.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("viper.Unmarshal -> %w", err)
	}

	if conf.Tenant == nil {
		conf.Tenant = &TenantConfig{}
	}
	if conf.Tenant.HeaderName == "" {
		conf.Tenant.HeaderName = "X-Organization-ID"
	}

	return conf, nil
}

// Watch re-reads the config file on change and unmarshals it into conf in
// place. Structural settings (port, database) still need a restart.
func Watch(conf *AppConfig) {
	viper.OnConfigChange(func(e fsnotify.Event) {
		if err := viper.Unmarshal(conf); err != nil {
			zap.L().Error("failed to reload config", zap.String("file", e.Name), zap.Error(err))

			return
		}

		zap.L().Info("config reloaded", zap.String("file", e.Name))
	})
	viper.WatchConfig()
}
