package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Growth        GrowthConfig
	Trade         TradeConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"VENDYGO_APP_ENV" required:"true"`
	Port         string `envconfig:"VENDYGO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VENDYGO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VENDYGO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"VENDYGO_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"VENDYGO_DB_DSN"`
	Driver string `envconfig:"VENDYGO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"VENDYGO_DB_HOST"`
	LegacyPort     int    `envconfig:"VENDYGO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VENDYGO_DB_USER"`
	LegacyPassword string `envconfig:"VENDYGO_DB_PASSWORD"`
	LegacyName     string `envconfig:"VENDYGO_DB_NAME"`
	LegacySSLMode  string `envconfig:"VENDYGO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VENDYGO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VENDYGO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VENDYGO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VENDYGO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VENDYGO_REDIS_URL" required:"true"`
	Address      string        `envconfig:"VENDYGO_REDIS_ADDR"`
	Password     string        `envconfig:"VENDYGO_REDIS_PASSWORD"`
	DB           int           `envconfig:"VENDYGO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VENDYGO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VENDYGO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VENDYGO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VENDYGO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VENDYGO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"VENDYGO_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"VENDYGO_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"VENDYGO_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"VENDYGO_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"VENDYGO_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"VENDYGO_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"VENDYGO_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"VENDYGO_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"VENDYGO_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"VENDYGO_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"VENDYGO_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"VENDYGO_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"VENDYGO_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"VENDYGO_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"VENDYGO_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"VENDYGO_AUTO_MIGRATE" default:"false"`
}

// GrowthConfig tunes the background worker that applies external co-op
// commitments (purchases made outside the platform feed).
type GrowthConfig struct {
	TickInterval time.Duration `envconfig:"VENDYGO_GROWTH_TICK_INTERVAL" default:"30s"`
	MinDelta     int           `envconfig:"VENDYGO_GROWTH_MIN_DELTA" default:"5"`
	MaxDelta     int           `envconfig:"VENDYGO_GROWTH_MAX_DELTA" default:"25"`
	LockTTL      time.Duration `envconfig:"VENDYGO_GROWTH_LOCK_TTL" default:"55s"`
}

type TradeConfig struct {
	ListingTTLDays int `envconfig:"VENDYGO_TRADE_LISTING_TTL_DAYS" default:"15"`
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
