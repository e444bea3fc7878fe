package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// ErrInvalidConfig возвращается, когда конфигурация не проходит валидацию
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса (config.toml)
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Redis         RedisConfig         `toml:"redis"`
	Search        SearchConfig        `toml:"search"`
	Wizard        WizardConfig        `toml:"wizard"`
	Pricing       PricingConfig       `toml:"pricing"`
	RateLimit     RateLimitConfig     `toml:"rate_limit"`
	Notifications NotificationsConfig `toml:"notifications"`
}

// ServerConfig параметры HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig параметры подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// RedisConfig используется кэшем поиска и хранилищем сессий мастера бронирования.
// Если Enabled = false, кэш отключается, а сессии хранятся в памяти процесса
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type SearchConfig struct {
	CacheTTLSeconds int `toml:"cache_ttl_seconds"`
	DefaultPageSize int `toml:"default_page_size"`
	MaxPageSize     int `toml:"max_page_size"`
}

type WizardConfig struct {
	SessionTTLMinutes int `toml:"session_ttl_minutes"`
}

// PricingConfig политика промокодов.
// Пустой PromoCodes означает, что скидку дает любой непустой код
type PricingConfig struct {
	PromoDiscountRate float64  `toml:"promo_discount_rate"`
	PromoCodes        []string `toml:"promo_codes"`
}

type RateLimitConfig struct {
	Enabled           bool `toml:"enabled"`
	RequestsPerMinute int  `toml:"requests_per_minute"`
	Burst             int  `toml:"burst"`
}

type NotificationsConfig struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// Load читает конфигурацию из TOML файла, применяет значения по умолчанию и валидирует результат.
// Переменная окружения DB_PASSWORD имеет приоритет над файлом
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if password, ok := os.LookupEnv("DB_PASSWORD"); ok && password != "" {
		cfg.Database.Password = password
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	setDefaultInt(&c.Server.HTTPPort, 8080)
	setDefaultInt(&c.Server.ReadTimeout, 15)
	setDefaultInt(&c.Server.WriteTimeout, 15)
	setDefaultInt(&c.Server.IdleTimeout, 60)
	setDefaultInt(&c.Server.ShutdownTimeout, 10)

	setDefaultString(&c.Database.Host, "localhost")
	setDefaultInt(&c.Database.Port, 5432)
	setDefaultString(&c.Database.SSLMode, "disable")
	setDefaultInt(&c.Database.MaxOpenConns, 25)
	setDefaultInt(&c.Database.MaxIdleConns, 5)
	setDefaultInt(&c.Database.ConnMaxLifetime, 300)

	setDefaultString(&c.Logs.Level, "info")

	setDefaultString(&c.Metrics.Path, "/metrics")
	setDefaultString(&c.Metrics.ServiceName, "marketplace_service")

	setDefaultString(&c.Redis.Addr, "localhost:6379")

	setDefaultInt(&c.Search.CacheTTLSeconds, 60)
	setDefaultInt(&c.Search.DefaultPageSize, 12)
	setDefaultInt(&c.Search.MaxPageSize, 50)

	setDefaultInt(&c.Wizard.SessionTTLMinutes, 60)

	if c.Pricing.PromoDiscountRate == 0 {
		c.Pricing.PromoDiscountRate = 0.10
	}

	setDefaultInt(&c.RateLimit.RequestsPerMinute, 120)
	setDefaultInt(&c.RateLimit.Burst, 20)

	setDefaultInt(&c.Notifications.Timeout, 5)
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port out of range", ErrInvalidConfig)
	}
	if c.Database.DBName == "" || c.Database.User == "" {
		return fmt.Errorf("%w: database.dbname and database.user are required", ErrInvalidConfig)
	}
	if c.Search.DefaultPageSize > c.Search.MaxPageSize {
		return fmt.Errorf("%w: search.default_page_size exceeds search.max_page_size", ErrInvalidConfig)
	}
	if c.Pricing.PromoDiscountRate < 0 || c.Pricing.PromoDiscountRate >= 1 {
		return fmt.Errorf("%w: pricing.promo_discount_rate must be in [0, 1)", ErrInvalidConfig)
	}
	if c.Notifications.Enabled && c.Notifications.URL == "" {
		return fmt.Errorf("%w: notifications.url is required when notifications are enabled", ErrInvalidConfig)
	}
	return nil
}

func setDefaultInt(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}

func setDefaultString(v *string, def string) {
	if *v == "" {
		*v = def
	}
}
