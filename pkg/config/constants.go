package config

const EnvPrefix = "BAGZO"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	LocalDriverSQLite = "sqlite"
	LocalDriverRedis  = "redis"
	LocalDriverMemory = "memory"
)

const (
	EnvAppEnv   = "BAGZO_APP_ENV"
	EnvPort     = "BAGZO_APP_PORT"
	EnvLogLevel = "BAGZO_LOG_LEVEL"

	EnvStoreBaseURL = "BAGZO_STORE_BASE_URL"
	EnvStoreTimeout = "BAGZO_STORE_TIMEOUT"

	EnvLocalDriver     = "BAGZO_LOCAL_DRIVER"
	EnvLocalSQLitePath = "BAGZO_LOCAL_SQLITE_PATH"

	EnvDBDriver     = "BAGZO_DB_DRIVER"
	EnvDBDSN        = "BAGZO_DB_DSN"
	EnvDBSQLitePath = "BAGZO_DB_SQLITE_PATH"

	EnvRedisURL = "BAGZO_REDIS_URL"

	EnvJWTSecret  = "BAGZO_JWT_SECRET"
	EnvJWTIssuer  = "BAGZO_JWT_ISSUER"
	EnvJWTExpMins = "BAGZO_JWT_EXPIRATION_MINUTES"

	EnvCheckoutTaxRate       = "BAGZO_CHECKOUT_TAX_RATE"
	EnvCheckoutCODFee        = "BAGZO_CHECKOUT_COD_FEE"
	EnvCheckoutClearAttempts = "BAGZO_CHECKOUT_CLEAR_ATTEMPTS"

	EnvEnforceRoles = "BAGZO_ENFORCE_ROLES"
	EnvCORSOrigins  = "BAGZO_CORS_ALLOWED_ORIGINS"
)
