package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

var (
	// ErrInvalidConfig возвращается, если конфигурация не прошла проверку
	ErrInvalidConfig = errors.New("invalid config")
)

var validate = validator.New()

// Драйверы хранилища
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Переменные окружения, перекрывающие значения из файла
const (
	EnvDBPassword = "ASSIST_DB_PASSWORD"
	EnvDBHost     = "ASSIST_DB_HOST"
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Booking  BookingConfig  `toml:"booking"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port" validate:"min=1,max=65535"`
	ReadTimeout     int `toml:"read_timeout" validate:"min=1"`
	WriteTimeout    int `toml:"write_timeout" validate:"min=1"`
	IdleTimeout     int `toml:"idle_timeout" validate:"min=0"`
	ShutdownTimeout int `toml:"shutdown_timeout" validate:"min=1"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Driver          string `toml:"driver" validate:"oneof=postgres memory"`
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level" validate:"oneof=debug info warn warning error"`
	File  string `toml:"file"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// BookingConfig настройки допуска заявок
type BookingConfig struct {
	MaxAdmissionRetries int    `toml:"max_admission_retries" validate:"min=1,max=20"`
	RequestNumberPrefix string `toml:"request_number_prefix" validate:"max=16"`
}

// Load читает конфигурацию из TOML файла, применяет значения по умолчанию
// и переменные окружения
func Load(path string) (*Config, error) {
	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Driver:          DriverPostgres,
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "assistance-service",
		},
		Booking: BookingConfig{
			MaxAdmissionRetries: 3,
			RequestNumberPrefix: "REQ-",
		},
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvDBPassword); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv(EnvDBHost); v != "" {
		cfg.Database.Host = v
	}
}

// Validate проверяет обязательные значения
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if c.Database.Driver == DriverPostgres {
		if c.Database.Port <= 0 {
			return fmt.Errorf("%w: database.port must be positive, got %d", ErrInvalidConfig, c.Database.Port)
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("%w: database.dbname is required", ErrInvalidConfig)
		}
	}

	return nil
}
