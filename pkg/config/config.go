package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "devicestore"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Environment variable names, shared with tests and deploy tooling.
const (
	EnvAppEnv          = "DEVICESTORE_APP_ENV"
	EnvPort            = "DEVICESTORE_APP_PORT"
	EnvCatalogBaseURL  = "DEVICESTORE_CATALOG_BASE_URL"
	EnvCatalogToken    = "DEVICESTORE_CATALOG_BEARER_TOKEN"
	EnvSalesBaseURL    = "DEVICESTORE_SALES_BASE_URL"
	EnvRedisURL        = "DEVICESTORE_REDIS_URL"
	EnvSessionTTL      = "DEVICESTORE_SESSION_TTL"
	EnvSubmitLockTTL   = "DEVICESTORE_SUBMIT_LOCK_TTL"
	EnvCatalogTimeout  = "DEVICESTORE_CATALOG_TIMEOUT"
	EnvSalesTimeout    = "DEVICESTORE_SALES_TIMEOUT"
	EnvLogLevel       = "DEVICESTORE_LOG_LEVEL"
	EnvLogWarnStack   = "DEVICESTORE_LOG_WARN_STACK"
	EnvMetricsEnabled = "DEVICESTORE_METRICS_ENABLED"
	EnvRedisAddr      = "DEVICESTORE_REDIS_ADDR"
	EnvRedisPassword  = "DEVICESTORE_REDIS_PASSWORD"
	EnvRedisDB        = "DEVICESTORE_REDIS_DB"
	EnvRedisPoolSize  = "DEVICESTORE_REDIS_POOL_SIZE"
	EnvRedisDialTO    = "DEVICESTORE_REDIS_DIAL_TIMEOUT"
	EnvRedisReadTO    = "DEVICESTORE_REDIS_READ_TIMEOUT"
	EnvRedisWriteTO   = "DEVICESTORE_REDIS_WRITE_TIMEOUT"
	EnvRedisMinIdle   = "DEVICESTORE_REDIS_MIN_IDLE_CONNS"
)

type Config struct {
	App     AppConfig
	Catalog CatalogConfig
	Sales   SalesConfig
	Redis   RedisConfig
	Session SessionConfig
	Metrics MetricsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DEVICESTORE_APP_ENV" required:"true"`
	Port         string `envconfig:"DEVICESTORE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DEVICESTORE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DEVICESTORE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// CatalogConfig points at the remote catalog service supplying the five
// source collections.
type CatalogConfig struct {
	BaseURL     string        `envconfig:"DEVICESTORE_CATALOG_BASE_URL" required:"true"`
	BearerToken string        `envconfig:"DEVICESTORE_CATALOG_BEARER_TOKEN"`
	Timeout     time.Duration `envconfig:"DEVICESTORE_CATALOG_TIMEOUT" default:"30s"`
}

// SalesConfig points at the remote sale submission endpoint.
type SalesConfig struct {
	BaseURL     string        `envconfig:"DEVICESTORE_SALES_BASE_URL" required:"true"`
	BearerToken string        `envconfig:"DEVICESTORE_SALES_BEARER_TOKEN"`
	Timeout     time.Duration `envconfig:"DEVICESTORE_SALES_TIMEOUT" default:"30s"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DEVICESTORE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"DEVICESTORE_REDIS_ADDR"`
	Password     string        `envconfig:"DEVICESTORE_REDIS_PASSWORD"`
	DB           int           `envconfig:"DEVICESTORE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DEVICESTORE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DEVICESTORE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DEVICESTORE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DEVICESTORE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DEVICESTORE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// SessionConfig bounds the lifetime of configuration sessions and the
// single-inflight submission lock.
type SessionConfig struct {
	TTL           time.Duration `envconfig:"DEVICESTORE_SESSION_TTL" default:"2h"`
	SubmitLockTTL time.Duration `envconfig:"DEVICESTORE_SUBMIT_LOCK_TTL" default:"30s"`
}

type MetricsConfig struct {
	Enabled bool `envconfig:"DEVICESTORE_METRICS_ENABLED" default:"true"`
}
