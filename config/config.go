package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	ModeWebhook = "webhook"
	ModePolling = "polling"
)

type Config struct {
	TelegramBotToken string `mapstructure:"TELEGRAM_BOT_TOKEN"`
	AdminChatID      int64  `mapstructure:"ADMIN_CHAT_ID"`
	TelegramMode     string `mapstructure:"TELEGRAM_MODE"`
	WebhookSecret    string `mapstructure:"WEBHOOK_SECRET"`

	DBDriver    string `mapstructure:"DB_DRIVER"`
	DB_URL      string `mapstructure:"DB_URL"`
	AutoMigrate bool   `mapstructure:"AUTO_MIGRATE"`

	HTTPAddr    string `mapstructure:"HTTP_ADDR"`
	CORSOrigins string `mapstructure:"CORS_ORIGINS"`

	JWTSecret string        `mapstructure:"JWT_SECRET"`
	JWTTTL    time.Duration `mapstructure:"JWT_TTL"`

	AdminUsername string `mapstructure:"ADMIN_USERNAME"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`

	RedisAddr string `mapstructure:"REDIS_ADDR"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`
}

var defaults = map[string]any{
	"TELEGRAM_BOT_TOKEN": "",
	"ADMIN_CHAT_ID":      0,
	"TELEGRAM_MODE":      ModeWebhook,
	"WEBHOOK_SECRET":     "",
	"DB_DRIVER":          DriverPostgres,
	"DB_URL":             "",
	"AUTO_MIGRATE":       true,
	"HTTP_ADDR":          ":8080",
	"CORS_ORIGINS":       "",
	"JWT_SECRET":         "",
	"JWT_TTL":            "168h",
	"ADMIN_USERNAME":     "admin",
	"ADMIN_PASSWORD":     "",
	"REDIS_ADDR":         "",
	"LOG_LEVEL":          "debug",
}

// LoadConfig reads the env file at path when present and lets process
// environment variables override it.
func LoadConfig(path string) (config Config, err error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return config, fmt.Errorf("resolve config path: %w", err)
	}

	v := viper.New()
	v.AddConfigPath(filepath.Dir(absPath))
	v.SetConfigName(filepath.Base(absPath))
	v.SetConfigType("env")
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("decode config: %w", err)
	}

	return config, nil
}

func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.DB_URL == "" {
		return errors.New("DB_URL is required")
	}
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.TelegramMode {
	case ModeWebhook, ModePolling:
	default:
		return fmt.Errorf("unsupported TELEGRAM_MODE %q", c.TelegramMode)
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	return nil
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func (c Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
