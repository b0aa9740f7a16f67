package config

// EnvPrefix is the prefix envconfig uses when processing the environment.
const EnvPrefix = "VENDYGO"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names shared with tests and bootstrap code.
const (
	EnvAppEnv                 = "VENDYGO_APP_ENV"
	EnvPort                   = "VENDYGO_APP_PORT"
	EnvDBDSN                  = "VENDYGO_DB_DSN"
	EnvDBHost                 = "VENDYGO_DB_HOST"
	EnvDBUser                 = "VENDYGO_DB_USER"
	EnvDBName                 = "VENDYGO_DB_NAME"
	EnvRedisURL               = "VENDYGO_REDIS_URL"
	EnvJWTSecret              = "VENDYGO_JWT_SECRET"
	EnvJWTIssuer              = "VENDYGO_JWT_ISSUER"
	EnvJWTExpMins             = "VENDYGO_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "VENDYGO_REFRESH_TOKEN_TTL_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
