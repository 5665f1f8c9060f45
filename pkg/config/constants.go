package config

// EnvPrefix is passed to envconfig; individual fields carry explicit names so
// the prefix only matters for variables without a tag.
const EnvPrefix = "CASAKIRAN"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	CartPersistenceMemory = "memory"
	CartPersistenceRedis  = "redis"

	CatalogBackendPostgres = "postgres"
	CatalogBackendMemory   = "memory"
)

const (
	EnvAppEnv   = "CASAKIRAN_APP_ENV"
	EnvPort     = "CASAKIRAN_APP_PORT"
	EnvDBDSN    = "CASAKIRAN_DB_DSN"
	EnvDBHost   = "CASAKIRAN_DB_HOST"
	EnvDBUser   = "CASAKIRAN_DB_USER"
	EnvDBName   = "CASAKIRAN_DB_NAME"
	EnvRedisURL = "CASAKIRAN_REDIS_URL"

	EnvJWTSecret              = "CASAKIRAN_JWT_SECRET"
	EnvJWTIssuer              = "CASAKIRAN_JWT_ISSUER"
	EnvJWTExpMins             = "CASAKIRAN_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "CASAKIRAN_REFRESH_TOKEN_TTL_MINUTES"

	EnvWhatsAppPhone = "CASAKIRAN_WHATSAPP_PHONE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
