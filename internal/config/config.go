package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultPort            = "8080"
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultLogLevel        = "info"
	defaultOrdersPerRegion = 25
	defaultIDPrefix        = "KL"
	defaultRedisPort       = "6379"
	defaultMetricsCacheTTL = 10 * time.Second
	defaultExchange        = "order.exchange"
	defaultMySQLPort       = "3306"
)

// Config captures runtime configuration organised by concern.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Dataset  DatasetConfig  `yaml:"dataset"`
	Redis    RedisConfig    `yaml:"redis"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	MySQL    MySQLConfig    `yaml:"mysql"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// DatasetConfig controls synthetic order generation. A zero seed is replaced by a time-derived one
// at startup.
type DatasetConfig struct {
	Seed            uint64 `yaml:"seed"`
	OrdersPerRegion int    `yaml:"ordersPerRegion"`
	IDPrefix        string `yaml:"idPrefix"`
}

// RedisConfig enables the metrics cache when Host is set.
type RedisConfig struct {
	Host     string        `yaml:"host"`
	Port     string        `yaml:"port"`
	DB       int           `yaml:"db"`
	CacheTTL time.Duration `yaml:"cacheTTL"`
}

func (c RedisConfig) Enabled() bool { return c.Host != "" }

func (c RedisConfig) Addr() string { return c.Host + ":" + c.Port }

// RabbitMQConfig enables status-change events when URL is set.
type RabbitMQConfig struct {
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

func (c RabbitMQConfig) Enabled() bool { return c.URL != "" }

// MySQLConfig enables the status journal when Host is set.
type MySQLConfig struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Database string `yaml:"database"`
}

func (c MySQLConfig) Enabled() bool { return c.Host != "" }

func (c MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            defaultPort,
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Log: LogConfig{Level: defaultLogLevel},
		Dataset: DatasetConfig{
			OrdersPerRegion: defaultOrdersPerRegion,
			IDPrefix:        defaultIDPrefix,
		},
		Redis:    RedisConfig{Port: defaultRedisPort, CacheTTL: defaultMetricsCacheTTL},
		RabbitMQ: RabbitMQConfig{Exchange: defaultExchange},
		MySQL:    MySQLConfig{Port: defaultMySQLPort},
	}
}

// Load builds configuration from defaults, then the YAML file named by CONFIG_FILE (if any), then
// environment variables.
func Load() (Config, error) {
	return LoadWith(os.Getenv("CONFIG_FILE"), os.LookupEnv)
}

// LoadWith is Load with an explicit file path and environment lookup.
func LoadWith(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg, lookup); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	var errs []error

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	duration := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			d, err := time.ParseDuration(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}

	str("PORT", &cfg.Server.Port)
	duration("HTTP_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	duration("HTTP_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	duration("SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)

	str("LOG_LEVEL", &cfg.Log.Level)

	if v, ok := lookup("DATASET_SEED"); ok && strings.TrimSpace(v) != "" {
		seed, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("DATASET_SEED: %w", err))
		} else {
			cfg.Dataset.Seed = seed
		}
	}
	integer("ORDERS_PER_REGION", &cfg.Dataset.OrdersPerRegion)
	str("ORDER_ID_PREFIX", &cfg.Dataset.IDPrefix)

	str("REDIS_HOST", &cfg.Redis.Host)
	str("REDIS_PORT", &cfg.Redis.Port)
	integer("REDIS_DB", &cfg.Redis.DB)
	duration("METRICS_CACHE_TTL", &cfg.Redis.CacheTTL)

	str("RABBITMQ_URL", &cfg.RabbitMQ.URL)
	str("RABBITMQ_EXCHANGE", &cfg.RabbitMQ.Exchange)

	str("MYSQL_USER", &cfg.MySQL.User)
	str("MYSQL_PASSWORD", &cfg.MySQL.Password)
	str("MYSQL_HOST", &cfg.MySQL.Host)
	str("MYSQL_PORT", &cfg.MySQL.Port)
	str("MYSQL_DATABASE", &cfg.MySQL.Database)

	return errors.Join(errs...)
}

func (c Config) Validate() error {
	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server port is required"))
	}
	if c.Dataset.OrdersPerRegion <= 0 {
		errs = append(errs, fmt.Errorf("ordersPerRegion must be positive, got %d", c.Dataset.OrdersPerRegion))
	}
	if c.Dataset.IDPrefix == "" {
		errs = append(errs, errors.New("idPrefix is required"))
	}
	if c.Redis.Enabled() && c.Redis.CacheTTL <= 0 {
		errs = append(errs, errors.New("redis cacheTTL must be positive"))
	}
	if c.RabbitMQ.Enabled() && c.RabbitMQ.Exchange == "" {
		errs = append(errs, errors.New("rabbitmq exchange is required"))
	}
	if c.MySQL.Enabled() && c.MySQL.Database == "" {
		errs = append(errs, errors.New("mysql database is required"))
	}
	return errors.Join(errs...)
}
