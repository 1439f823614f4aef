package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort          int    `mapstructure:"http_port"`
	LogLevel          string `mapstructure:"log_level"`
	DBPath            string `mapstructure:"db_path"`
	DBWaitSeconds     int    `mapstructure:"db_wait_seconds"`
	SessionSecret     string `mapstructure:"session_secret"`
	SuperuserEmail    string `mapstructure:"superuser_email"`
	SuperuserPassword string `mapstructure:"superuser_password"`
}

var AppConfig Config

// Init loads configuration from config.yaml (working directory or ./config),
// with PLATEFUL_* environment variable overrides and sane defaults.
func Init() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetEnvPrefix("PLATEFUL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("http_port", 8080)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("db_path", "plateful.db")
	viper.SetDefault("db_wait_seconds", 30)
	viper.SetDefault("session_secret", "plateful-dev-secret-change-in-production")
	viper.SetDefault("superuser_email", "admin@plateful.local")
	viper.SetDefault("superuser_password", "changeme")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			panic(fmt.Errorf("fatal error reading config file: %w", err))
		}
		// No config file is fine; defaults and env vars apply.
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		panic(fmt.Errorf("unable to decode config into struct: %w", err))
	}
}
