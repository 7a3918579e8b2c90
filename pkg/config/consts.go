package config

const EnvPrefix = "WEBSHOP"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "WEBSHOP_APP_ENV"
	EnvPort     = "WEBSHOP_APP_PORT"
	EnvDBDSN    = "WEBSHOP_DB_DSN"
	EnvDBHost   = "WEBSHOP_DB_HOST"
	EnvDBUser   = "WEBSHOP_DB_USER"
	EnvDBName   = "WEBSHOP_DB_NAME"
	EnvRedisURL = "WEBSHOP_REDIS_URL"

	EnvJWTSecret  = "WEBSHOP_JWT_SECRET"
	EnvJWTIssuer  = "WEBSHOP_JWT_ISSUER"
	EnvJWTExpMins = "WEBSHOP_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
