package config

import (
	"fmt"
	"strings"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix scopes environment overrides, e.g. CARPRICE_API_BASE_URL.
const EnvPrefix = "CARPRICE"

var dotenvFiles = []string{".env.local", ".env"}

// NewViper returns a viper instance with defaults and environment binding.
// Flags are bound onto it by the command layer.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("api.base_url", "http://127.0.0.1:8000")
	v.SetDefault("api.predict_path", "/predict")
	v.SetDefault("api.timeout", time.Duration(0))
	v.SetDefault("form.variant", "classic")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.session_ttl", 30*time.Minute)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// API_URL is what frontend deployments already export.
	_ = v.BindEnv("api.base_url", EnvPrefix+"_API_BASE_URL", "API_URL")

	return v
}

// Load reads .env files, the optional YAML file, and the environment into a
// validated Config.
func Load(v *viper.Viper, file string) (*Config, error) {
	for _, f := range dotenvFiles {
		// missing env files are fine
		_ = godotenv.Load(f)
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks struct rules and the form schema.
func Validate(cfg *Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	if _, err := cfg.Schema(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	return nil
}
