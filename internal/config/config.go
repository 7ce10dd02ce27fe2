// Package config предоставляет структуры и функции для загрузки конфигурации из YAML и окружения.
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Бэкенды хранилища.
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendREST     = "rest"
)

// Config общая структура для хранения настроек
type Config struct {
	Env             string `yaml:"env" env:"ENV" env-default:"local"`
	Timezone        string `yaml:"timezone" env:"APP_TIMEZONE" env-default:"UTC"`
	Store           `yaml:"store"`
	RedisConnection `yaml:"redis_connection"`
	HTTPServer      `yaml:"http_server"`
	JWTToken        `yaml:"jwttoken"`
	RabbitMQ        `yaml:"rabbitmq"`
	Renewal         `yaml:"renewal"`
	Browse          `yaml:"browse"`
	Auth            `yaml:"auth"`
}

// Store структура для выбора и настройки хранилища событий
type Store struct {
	Backend        string        `yaml:"backend" env:"STORE_BACKEND" env-default:"sqlite"`
	PostgresDSN    string        `yaml:"postgres_dsn" env:"STORE_POSTGRES_DSN"`
	SQLitePath     string        `yaml:"sqlite_path" env:"STORE_SQLITE_PATH" env-default:":memory:"`
	RESTURL        string        `yaml:"rest_url" env:"STORE_REST_URL"`
	RESTAPIKey     string        `yaml:"rest_api_key" env:"STORE_REST_API_KEY"`
	RESTTimeout    time.Duration `yaml:"rest_timeout" env-default:"10s"`
	MigrationsPath string        `yaml:"migrations_path" env:"STORE_MIGRATIONS_PATH" env-default:"./migrations"`
	SeedPath       string        `yaml:"seed_path" env:"STORE_SEED_PATH"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
	RateLimit   float64       `yaml:"rate_limit" env-default:"20"`
	RateBurst   int           `yaml:"rate_burst" env-default:"40"`
}

// RedisConnection структура для настройки подключения к redis.
// Пустой адрес отключает кэш.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
	CacheTTL     time.Duration `yaml:"cache_ttl" env-default:"1m"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// RabbitMQ структура для подключения к брокеру уведомлений.
// Пустой URL отключает публикацию уведомлений о продлении.
type RabbitMQ struct {
	RabbitURL        string        `yaml:"url" env:"RABBITMQ_URL"`
	RabbitMaxRetries int           `yaml:"max_retries" env-default:"5"`
	RabbitRetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
	Exchange         string        `yaml:"exchange" env-default:"notifications"`
}

// Renewal структура для настроек окна продления
type Renewal struct {
	WindowDays   int    `yaml:"window_days" env-default:"7"`
	Schedule     string `yaml:"schedule" env:"RENEWAL_SCHEDULE" env-default:"0 8 * * *"`
	DisplayLimit int    `yaml:"display_limit" env-default:"4"`
}

// Browse структура для настроек постраничной выдачи
type Browse struct {
	PageSize     int `yaml:"page_size" env-default:"6"`
	LoadMoreSize int `yaml:"load_more_size" env-default:"5"`
}

// Auth структура для настроек входа
type Auth struct {
	EmailDomain string `yaml:"email_domain" env-default:"Bosch.in"`
}

// Load читает конфиг из файла path, переменные окружения перекрывают значения файла.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, path)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad загружает конфиг по пути из CONFIG_PATH и завершает процесс при ошибке.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// Validate проверяет согласованность настроек хранилища и часового пояса.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("store.postgres_dsn is required for backend %q", c.Backend)
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("store.sqlite_path is required for backend %q", c.Backend)
		}
	case BackendREST:
		if c.RESTURL == "" {
			return fmt.Errorf("store.rest_url is required for backend %q", c.Backend)
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Backend)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.WindowDays < 0 {
		return fmt.Errorf("renewal.window_days must not be negative")
	}
	return nil
}

// Location возвращает часовой пояс, в котором вычисляется "сегодня".
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"Timezone: %s\n"+
			"Store:\n"+
			"  Backend: %s\n"+
			"  SQLitePath: %s\n"+
			"  RESTURL: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"  CacheTTL: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"Renewal:\n"+
			"  WindowDays: %d\n"+
			"  Schedule: %s\n",
		c.Env,
		c.Timezone,
		c.Backend,
		c.SQLitePath,
		c.RESTURL,
		c.AddressRedis,
		c.DB,
		c.CacheTTL,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.WindowDays,
		c.Schedule,
	)
}
