package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix scopes every environment variable consumed by the app.
const EnvPrefix = "FOODDROP"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Password PasswordConfig
	CORS     CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FOODDROP_APP_ENV" default:"dev"`
	Port         string `envconfig:"FOODDROP_APP_PORT" default:"5000"`
	LogLevel     string `envconfig:"FOODDROP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FOODDROP_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"FOODDROP_AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	UseSQLite  bool   `envconfig:"FOODDROP_USE_SQLITE" default:"true"`
	SQLitePath string `envconfig:"FOODDROP_SQLITE_PATH" default:"fooddrop.db"`
	DSN        string `envconfig:"FOODDROP_DB_DSN"`

	MaxOpenConns    int           `envconfig:"FOODDROP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FOODDROP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FOODDROP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FOODDROP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) validate() error {
	if db.UseSQLite {
		if strings.TrimSpace(db.SQLitePath) == "" {
			return fmt.Errorf("FOODDROP_SQLITE_PATH is required when sqlite is enabled")
		}
		return nil
	}
	if strings.TrimSpace(db.DSN) == "" {
		return fmt.Errorf("FOODDROP_DB_DSN is required when sqlite is disabled")
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"FOODDROP_REDIS_URL"`
	Address      string        `envconfig:"FOODDROP_REDIS_ADDR"`
	Password     string        `envconfig:"FOODDROP_REDIS_PASSWORD"`
	DB           int           `envconfig:"FOODDROP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FOODDROP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FOODDROP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FOODDROP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FOODDROP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FOODDROP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured at all. Sessions
// degrade to stateless JWTs when it is absent.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"FOODDROP_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FOODDROP_JWT_ISSUER" default:"fooddrop"`
	ExpirationMinutes int    `envconfig:"FOODDROP_JWT_EXPIRATION_MINUTES" default:"1440"`
	CookieName        string `envconfig:"FOODDROP_JWT_COOKIE_NAME" default:"auth_token"`
	CookieSecure      bool   `envconfig:"FOODDROP_JWT_COOKIE_SECURE" default:"false"`
}

// AccessTokenTTL returns the configured token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FOODDROP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FOODDROP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FOODDROP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FOODDROP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FOODDROP_ARGON_KEY_LEN" default:"32"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"FOODDROP_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,https://localhost:5173,http://127.0.0.1:5173,https://127.0.0.1:5173"`
}
