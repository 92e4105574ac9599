package config

const (
	EnvPrefix = "GRADEVAULT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv         = "GRADEVAULT_APP_ENV"
	EnvPort           = "GRADEVAULT_APP_PORT"
	EnvLogLevel       = "GRADEVAULT_LOG_LEVEL"
	EnvRequestTimeout = "GRADEVAULT_APP_REQUEST_TIMEOUT"

	EnvDBDSN  = "GRADEVAULT_DB_DSN"
	EnvDBHost = "GRADEVAULT_DB_HOST"
	EnvDBUser = "GRADEVAULT_DB_USER"
	EnvDBName = "GRADEVAULT_DB_NAME"

	EnvRedisURL = "GRADEVAULT_REDIS_URL"

	EnvJWTSecret  = "GRADEVAULT_JWT_SECRET"
	EnvJWTIssuer  = "GRADEVAULT_JWT_ISSUER"
	EnvJWTExpMins = "GRADEVAULT_JWT_EXPIRATION_MINUTES"

	EnvStockMaxImportRows = "GRADEVAULT_STOCK_MAX_IMPORT_ROWS"
	EnvCronInterval       = "GRADEVAULT_CRON_INTERVAL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
