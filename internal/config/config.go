package config

import (
	"errors"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	DatabaseDriver string        `mapstructure:"DATABASE_DRIVER"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	JWTSecret      string        `mapstructure:"JWT_SECRET"`
	JWTTTL         time.Duration `mapstructure:"JWT_TTL"`
	Port           string        `mapstructure:"PORT"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	AppEnv         string        `mapstructure:"APP_ENV"`
	ResendAPIKey   string        `mapstructure:"RESEND_API_KEY"`
	EmailFrom      string        `mapstructure:"EMAIL_FROM"`
	MetricsEnabled bool          `mapstructure:"METRICS_ENABLED"`
}

var AppConfig *Config

var defaults = map[string]any{
	"DATABASE_DRIVER": "postgres",
	"DATABASE_URL":    "",
	"JWT_SECRET":      "",
	"JWT_TTL":         "24h",
	"PORT":            "8080",
	"LOG_LEVEL":       "info",
	"APP_ENV":         "local",
	"RESEND_API_KEY":  "",
	"EMAIL_FROM":      "Datefinder <no-reply@datefinder.app>",
	"METRICS_ENABLED": true,
}

// Load reads configuration from a .env file in dir (if present) and the
// environment. Environment variables win over the file.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	// AutomaticEnv only resolves keys viper already knows about.
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		log.Println("Warning: .env file not found, loading from environment variables")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}
	if cfg.JWTTTL <= 0 {
		return nil, errors.New("JWT_TTL must be positive")
	}
	return &cfg, nil
}

// LoadConfig loads the configuration from the working directory into AppConfig.
func LoadConfig() {
	cfg, err := Load(".")
	if err != nil {
		log.Fatalf("Unable to load configuration, %v", err)
	}
	AppConfig = cfg
}
