package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// DSN returns the keyword/value connection string used by gorm.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// DatabaseURL returns the URL form used by the migration runner.
func (c DatabaseConfig) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// KafkaConfig holds broker settings.
type KafkaConfig struct {
	Brokers     []string `mapstructure:"brokers"`
	GroupPrefix string   `mapstructure:"group_prefix"`
}

// BookingConfig holds booking behaviour settings.
type BookingConfig struct {
	Currency string        `mapstructure:"currency"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	DraftTTL time.Duration `mapstructure:"draft_ttl"`
}

// ServiceConfig holds all configuration for the booking service.
type ServiceConfig struct {
	Port    string         `mapstructure:"service_port"`
	AppEnv  string         `mapstructure:"app_env"`
	DB      DatabaseConfig `mapstructure:"db"`
	Redis   RedisConfig    `mapstructure:"redis"`
	Kafka   KafkaConfig    `mapstructure:"kafka"`
	Booking BookingConfig  `mapstructure:"booking"`
}

// IsDevelopment reports whether the service runs in development mode.
func (c *ServiceConfig) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service_port", ":8080")
	v.SetDefault("app_env", "development")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "postgres")
	v.SetDefault("db.name", "flytaxi_booking")
	v.SetDefault("db.ssl_mode", "disable")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.group_prefix", "flytaxi-")

	v.SetDefault("booking.currency", "INR")
	v.SetDefault("booking.cache_ttl", 5*time.Minute)
	v.SetDefault("booking.draft_ttl", 30*time.Minute)
}

// Load reads configuration from FLYTAXI_* environment variables, layered over an
// optional file named by FLYTAXI_CONFIG_FILE.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("FLYTAXI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := os.Getenv("FLYTAXI_CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg ServiceConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if !strings.HasPrefix(cfg.Port, ":") {
		cfg.Port = ":" + cfg.Port
	}
	return &cfg, nil
}
