package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	defaultEnv           = "development"
	defaultHTTPHost      = "0.0.0.0"
	defaultHTTPPort      = 8080
	defaultRedisDB       = 0
	defaultBondsExchange = "bonds.events"
	defaultLEILookupURL  = "https://leilookup.gleif.org/api/v2/leirecords?lei={lei}"
	defaultLogLevel      = "info"
)

// Config keeps the runtime configuration for the service.
type Config struct {
	Env      string
	LogLevel logrus.Level
	HTTP     HTTPConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
	LEI      LEIConfig
	Bonds    BondsConfig
}

// HTTPConfig holds HTTP server related settings.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr renders the listen address in host:port form.
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// PostgresConfig stores database connection parameters.
type PostgresConfig struct {
	DSN         string
	AutoMigrate bool
}

// RedisConfig stores Redis connection parameters. An empty Addr keeps API
// keys in Postgres.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// RabbitMQConfig stores the bond event publisher settings. An empty URL
// disables publishing.
type RabbitMQConfig struct {
	URL           string
	BondsExchange string
}

func (r RabbitMQConfig) Enabled() bool {
	return r.URL != ""
}

// LEIConfig configures the legal name lookup client. A zero Timeout keeps
// the transport defaults.
type LEIConfig struct {
	URLTemplate string
	Timeout     time.Duration
}

type BondsConfig struct {
	UniqueLEI   bool
	OwnerScoped bool
}

// Load builds Config from environment variables and an optional config.yaml.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/bondregistry")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	port := v.GetInt("http.port")
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("parse HTTP_PORT: invalid port %q", v.GetString("http.port"))
	}

	dsn := v.GetString("database.dsn")
	if dsn == "" {
		return nil, errors.New("DATABASE_DSN is required")
	}

	level, err := logrus.ParseLevel(v.GetString("log.level"))
	if err != nil {
		return nil, fmt.Errorf("parse LOG_LEVEL: %w", err)
	}

	exchange := v.GetString("rabbitmq.bonds_exchange")
	if v.GetString("rabbitmq.url") != "" && exchange == "" {
		return nil, errors.New("RABBITMQ_BONDS_EXCHANGE is required when RABBITMQ_URL is set")
	}

	template := v.GetString("lei.lookup_url")
	if !strings.Contains(template, "{lei}") {
		return nil, fmt.Errorf("LEI_LOOKUP_URL must contain the {lei} placeholder: %q", template)
	}

	return &Config{
		Env:      v.GetString("app.env"),
		LogLevel: level,
		HTTP: HTTPConfig{
			Host: v.GetString("http.host"),
			Port: port,
		},
		Postgres: PostgresConfig{
			DSN:         dsn,
			AutoMigrate: v.GetBool("database.auto_migrate"),
		},
		Redis: RedisConfig{
			Addr:      v.GetString("redis.addr"),
			Password:  v.GetString("redis.password"),
			DB:        v.GetInt("redis.db"),
			KeyPrefix: v.GetString("redis.key_prefix"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:           v.GetString("rabbitmq.url"),
			BondsExchange: exchange,
		},
		LEI: LEIConfig{
			URLTemplate: template,
			Timeout:     v.GetDuration("lei.lookup_timeout"),
		},
		Bonds: BondsConfig{
			UniqueLEI:   v.GetBool("bonds.unique_lei"),
			OwnerScoped: v.GetBool("bonds.owner_scoped"),
		},
	}, nil
}

// IsProduction reports whether the service runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", defaultEnv)
	v.SetDefault("http.host", defaultHTTPHost)
	v.SetDefault("http.port", defaultHTTPPort)
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.auto_migrate", false)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", defaultRedisDB)
	v.SetDefault("redis.key_prefix", "")
	v.SetDefault("rabbitmq.url", "")
	v.SetDefault("rabbitmq.bonds_exchange", defaultBondsExchange)
	v.SetDefault("lei.lookup_url", defaultLEILookupURL)
	v.SetDefault("lei.lookup_timeout", time.Duration(0))
	v.SetDefault("bonds.unique_lei", false)
	v.SetDefault("bonds.owner_scoped", true)
	v.SetDefault("log.level", defaultLogLevel)
}
