package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App           AppConfig
	Store         StoreConfig
	Local         LocalConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Checkout      CheckoutConfig
	FeatureFlags  FeatureFlagsConfig
	CORS          CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Local.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Checkout.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidateServer enforces the settings only the store server needs.
func (c *Config) ValidateServer() error {
	var missing []string
	if strings.TrimSpace(c.JWT.Secret) == "" {
		missing = append(missing, EnvJWTSecret)
	}
	if c.DB.IsPostgres() && c.DB.DSN == "" {
		missing = append(missing, EnvDBDSN)
	}
	if c.App.Port == "" {
		missing = append(missing, EnvPort)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required server config: %s", strings.Join(missing, ", "))
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"BAGZO_APP_ENV" default:"development"`
	Port         string `envconfig:"BAGZO_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"BAGZO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BAGZO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev) || strings.EqualFold(a.Env, "dev")
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "prod")
}

// StoreConfig points the storefront client at the remote resource store.
type StoreConfig struct {
	BaseURL   string        `envconfig:"BAGZO_STORE_BASE_URL" default:"http://localhost:8080"`
	Timeout   time.Duration `envconfig:"BAGZO_STORE_TIMEOUT" default:"10s"`
	UserAgent string        `envconfig:"BAGZO_STORE_USER_AGENT" default:"bagzo-client"`
}

// LocalConfig selects the client's durable local storage.
type LocalConfig struct {
	Driver     string `envconfig:"BAGZO_LOCAL_DRIVER" default:"sqlite"`
	SQLitePath string `envconfig:"BAGZO_LOCAL_SQLITE_PATH" default:"bagzo-local.db"`
	Namespace  string `envconfig:"BAGZO_LOCAL_NAMESPACE" default:"bagzo"`
}

func (l *LocalConfig) normalize() error {
	l.Driver = strings.ToLower(strings.TrimSpace(l.Driver))
	switch l.Driver {
	case LocalDriverSQLite, LocalDriverRedis, LocalDriverMemory:
		return nil
	default:
		return fmt.Errorf("invalid %s %q", EnvLocalDriver, l.Driver)
	}
}

type DBConfig struct {
	Driver     string `envconfig:"BAGZO_DB_DRIVER" default:"postgres"`
	DSN        string `envconfig:"BAGZO_DB_DSN"`
	SQLitePath string `envconfig:"BAGZO_DB_SQLITE_PATH" default:"bagzo-store.db"`

	MaxOpenConns    int           `envconfig:"BAGZO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BAGZO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BAGZO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BAGZO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) IsPostgres() bool { return db.Driver == DBDriverPostgres }

func (db DBConfig) IsSQLite() bool { return db.Driver == DBDriverSQLite }

func (db *DBConfig) normalize() error {
	db.Driver = strings.ToLower(strings.TrimSpace(db.Driver))
	switch db.Driver {
	case DBDriverPostgres, DBDriverSQLite:
		return nil
	default:
		return fmt.Errorf("invalid %s %q", EnvDBDriver, db.Driver)
	}
}

type RedisConfig struct {
	URL          string        `envconfig:"BAGZO_REDIS_URL"`
	Address      string        `envconfig:"BAGZO_REDIS_ADDR"`
	Password     string        `envconfig:"BAGZO_REDIS_PASSWORD"`
	DB           int           `envconfig:"BAGZO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BAGZO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BAGZO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BAGZO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BAGZO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BAGZO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any redis endpoint is configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"BAGZO_JWT_SECRET"`
	Issuer            string `envconfig:"BAGZO_JWT_ISSUER" default:"bagzo"`
	ExpirationMinutes int    `envconfig:"BAGZO_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// TTL returns the configured session token lifetime.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BAGZO_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BAGZO_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BAGZO_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BAGZO_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BAGZO_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"BAGZO_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginIPLimit    int           `envconfig:"BAGZO_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	LoginEmailLimit int           `envconfig:"BAGZO_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"10"`
	RegisterWindow  time.Duration `envconfig:"BAGZO_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterIPLimit int           `envconfig:"BAGZO_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// CheckoutConfig holds the pricing knobs applied when an order is derived
// from a cart.
type CheckoutConfig struct {
	TaxRate       decimal.Decimal `envconfig:"BAGZO_CHECKOUT_TAX_RATE" default:"0.10"`
	CODFee        decimal.Decimal `envconfig:"BAGZO_CHECKOUT_COD_FEE" default:"50"`
	ClearAttempts int             `envconfig:"BAGZO_CHECKOUT_CLEAR_ATTEMPTS" default:"3"`
}

func (c CheckoutConfig) validate() error {
	if c.TaxRate.IsNegative() {
		return fmt.Errorf("%s must not be negative", EnvCheckoutTaxRate)
	}
	if c.CODFee.IsNegative() {
		return fmt.Errorf("%s must not be negative", EnvCheckoutCODFee)
	}
	if c.ClearAttempts < 1 {
		return fmt.Errorf("%s must be at least 1", EnvCheckoutClearAttempts)
	}
	return nil
}

// DefaultCheckout mirrors the env defaults for callers that build services
// without loading the environment.
func DefaultCheckout() CheckoutConfig {
	return CheckoutConfig{
		TaxRate:       decimal.RequireFromString("0.10"),
		CODFee:        decimal.NewFromInt(50),
		ClearAttempts: 3,
	}
}

type FeatureFlagsConfig struct {
	AutoMigrate  bool `envconfig:"BAGZO_AUTO_MIGRATE" default:"false"`
	EnforceRoles bool `envconfig:"BAGZO_ENFORCE_ROLES" default:"true"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"BAGZO_CORS_ALLOWED_ORIGINS" default:"*"`
}
