// Package config resolves process configuration once at startup.
package config

import (
	"time"

	"github.com/nekruzvatanshoev/carprice/pkg/carprice/form"
)

// Config holds runtime configuration for carprice.
type Config struct {
	API    APIConfig    `mapstructure:"api"`
	Form   FormConfig   `mapstructure:"form"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	Sentry SentryConfig `mapstructure:"sentry"`
}

type APIConfig struct {
	BaseURL     string        `mapstructure:"base_url" validate:"required,url"`
	PredictPath string        `mapstructure:"predict_path" validate:"required,startswith=/"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

type FormConfig struct {
	Variant string       `mapstructure:"variant" validate:"oneof=classic extended custom"`
	Fields  []form.Field `mapstructure:"fields" validate:"required_if=Variant custom,dive"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address" validate:"required"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	SessionTTL      time.Duration `mapstructure:"session_ttl" validate:"gt=0"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error DEBUG INFO WARN ERROR"`
	Format string `mapstructure:"format" validate:"oneof=json text"`
	File   string `mapstructure:"file"`
}

type SentryConfig struct {
	DSN         string `mapstructure:"dsn" validate:"omitempty,url"`
	Environment string `mapstructure:"environment"`
}

// Schema resolves the configured form variant.
func (c *Config) Schema() (form.Schema, error) {
	return form.Lookup(c.Form.Variant, c.Form.Fields)
}
