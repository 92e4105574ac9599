package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Stock        StockConfig
	RateLimit    RateLimitConfig
	Cron         CronConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if cfg.App.RequestTimeout <= 0 {
		return nil, fmt.Errorf("%s must be positive", EnvRequestTimeout)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env            string        `envconfig:"GRADEVAULT_APP_ENV" required:"true"`
	Port           string        `envconfig:"GRADEVAULT_APP_PORT" required:"true"`
	LogLevel       string        `envconfig:"GRADEVAULT_LOG_LEVEL" default:"info"`
	LogWarnStack   bool          `envconfig:"GRADEVAULT_LOG_WARN_STACK" default:"false"`
	LogFormat      string        `envconfig:"GRADEVAULT_LOG_FORMAT" default:"json"`
	RequestTimeout time.Duration `envconfig:"GRADEVAULT_APP_REQUEST_TIMEOUT" default:"15s"`
	CORSOrigins    []string      `envconfig:"GRADEVAULT_APP_CORS_ORIGINS" default:"*"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"GRADEVAULT_DB_DSN"`
	Driver string `envconfig:"GRADEVAULT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GRADEVAULT_DB_HOST"`
	LegacyPort     int    `envconfig:"GRADEVAULT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GRADEVAULT_DB_USER"`
	LegacyPassword string `envconfig:"GRADEVAULT_DB_PASSWORD"`
	LegacyName     string `envconfig:"GRADEVAULT_DB_NAME"`
	LegacySSLMode  string `envconfig:"GRADEVAULT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GRADEVAULT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GRADEVAULT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GRADEVAULT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GRADEVAULT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	// Statements at or above this are logged as db.query.slow; 0 disables.
	SlowQueryThreshold time.Duration `envconfig:"GRADEVAULT_DB_SLOW_QUERY_THRESHOLD" default:"500ms"`
}

type RedisConfig struct {
	URL            string        `envconfig:"GRADEVAULT_REDIS_URL"`
	Address        string        `envconfig:"GRADEVAULT_REDIS_ADDR"`
	Password       string        `envconfig:"GRADEVAULT_REDIS_PASSWORD"`
	DB             int           `envconfig:"GRADEVAULT_REDIS_DB" default:"0"`
	PoolSize       int           `envconfig:"GRADEVAULT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns   int           `envconfig:"GRADEVAULT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout    time.Duration `envconfig:"GRADEVAULT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout    time.Duration `envconfig:"GRADEVAULT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout   time.Duration `envconfig:"GRADEVAULT_REDIS_WRITE_TIMEOUT" default:"5s"`
	IdempotencyTTL time.Duration `envconfig:"GRADEVAULT_REDIS_IDEMPOTENCY_TTL" default:"24h"`
}

type JWTConfig struct {
	Secret            string `envconfig:"GRADEVAULT_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"GRADEVAULT_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"GRADEVAULT_JWT_EXPIRATION_MINUTES" default:"60"`
}

// AccessTokenTTL returns the configured access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type StockConfig struct {
	MaxImportRows int `envconfig:"GRADEVAULT_STOCK_MAX_IMPORT_ROWS" default:"5000"`
}

type RateLimitConfig struct {
	AuctionsWindow time.Duration `envconfig:"GRADEVAULT_RATE_LIMIT_AUCTIONS_WINDOW" default:"1m"`
	AuctionsLimit  int           `envconfig:"GRADEVAULT_RATE_LIMIT_AUCTIONS_LIMIT" default:"120"`
	// Comma-separated CIDRs of proxies allowed to set X-Forwarded-For.
	TrustedProxies []string `envconfig:"GRADEVAULT_RATE_LIMIT_TRUSTED_PROXIES"`
}

type CronConfig struct {
	Interval   time.Duration `envconfig:"GRADEVAULT_CRON_INTERVAL" default:"15m"`
	LockTTL    time.Duration `envconfig:"GRADEVAULT_CRON_LOCK_TTL" default:"10m"`
	JobTimeout time.Duration `envconfig:"GRADEVAULT_CRON_JOB_TIMEOUT" default:"5m"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"GRADEVAULT_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"GRADEVAULT_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}
	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
