package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	EnvPrefix = "NEXORA"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv        = "NEXORA_APP_ENV"
	EnvPort          = "NEXORA_APP_PORT"
	EnvStorageDriver = "NEXORA_STORAGE_DRIVER"
	EnvDBDriver      = "NEXORA_DB_DRIVER"
	EnvDBDSN         = "NEXORA_DB_DSN"
	EnvDBHost        = "NEXORA_DB_HOST"
	EnvDBUser        = "NEXORA_DB_USER"
	EnvDBName        = "NEXORA_DB_NAME"
	EnvRedisURL      = "NEXORA_REDIS_URL"
	EnvRedisAddr     = "NEXORA_REDIS_ADDR"
	EnvCatalogPath   = "NEXORA_CATALOG_PATH"
	EnvTaxRate       = "NEXORA_PRICING_TAX_RATE"
	EnvCouponAmount  = "NEXORA_CHECKOUT_COUPON_DISCOUNT"
	EnvCheckoutDelay = "NEXORA_CHECKOUT_PROCESSING_DELAY"

	StorageDriverMemory = "memory"
	StorageDriverRedis  = "redis"
	StorageDriverSQL    = "sql"

	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App      AppConfig
	Storage  StorageConfig
	DB       DBConfig
	Redis    RedisConfig
	Catalog  CatalogConfig
	Pricing  PricingConfig
	Search   SearchConfig
	Checkout CheckoutConfig
	Session  SessionConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageDriverMemory:
	case StorageDriverRedis:
		if c.Redis.URL == "" && c.Redis.Address == "" {
			return fmt.Errorf("%s or %s is required when storage driver is %q", EnvRedisURL, EnvRedisAddr, StorageDriverRedis)
		}
	case StorageDriverSQL:
		if err := c.DB.EnsureDSN(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported %s %q", EnvStorageDriver, c.Storage.Driver)
	}
	if c.Pricing.TaxRate.IsNegative() {
		return fmt.Errorf("%s must not be negative", EnvTaxRate)
	}
	if c.Checkout.CouponDiscount < 0 {
		return fmt.Errorf("%s must not be negative", EnvCouponAmount)
	}
	if c.Checkout.ProcessingDelay < 0 {
		return fmt.Errorf("%s must not be negative", EnvCheckoutDelay)
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"NEXORA_APP_ENV" required:"true"`
	Port         string `envconfig:"NEXORA_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"NEXORA_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"NEXORA_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"NEXORA_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"NEXORA_AUTO_MIGRATE" default:"false"`

	// CORSOrigins lists the storefront origins allowed to call the API.
	CORSOrigins     []string      `envconfig:"NEXORA_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout time.Duration `envconfig:"NEXORA_SHUTDOWN_TIMEOUT" default:"10s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StorageConfig selects the key-value backend that persists session state.
type StorageConfig struct {
	Driver string `envconfig:"NEXORA_STORAGE_DRIVER" default:"memory"`
}

type DBConfig struct {
	DSN    string `envconfig:"NEXORA_DB_DSN"`
	Driver string `envconfig:"NEXORA_DB_DRIVER" default:"sqlite"`

	LegacyHost     string `envconfig:"NEXORA_DB_HOST"`
	LegacyPort     int    `envconfig:"NEXORA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"NEXORA_DB_USER"`
	LegacyPassword string `envconfig:"NEXORA_DB_PASSWORD"`
	LegacyName     string `envconfig:"NEXORA_DB_NAME"`
	LegacySSLMode  string `envconfig:"NEXORA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"NEXORA_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"NEXORA_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"NEXORA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"NEXORA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	// SlowQueryThreshold logs statements slower than this at warn level.
	SlowQueryThreshold time.Duration `envconfig:"NEXORA_DB_SLOW_QUERY_THRESHOLD" default:"200ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"NEXORA_REDIS_URL"`
	Address      string        `envconfig:"NEXORA_REDIS_ADDR"`
	Password     string        `envconfig:"NEXORA_REDIS_PASSWORD"`
	DB           int           `envconfig:"NEXORA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"NEXORA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"NEXORA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"NEXORA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"NEXORA_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"NEXORA_REDIS_WRITE_TIMEOUT" default:"3s"`
	// SessionTTL expires idle session keys; zero keeps them forever.
	SessionTTL time.Duration `envconfig:"NEXORA_REDIS_SESSION_TTL" default:"720h"`
}

// CatalogConfig points at an optional catalog file. Empty means the embedded seed catalog.
type CatalogConfig struct {
	Path string `envconfig:"NEXORA_CATALOG_PATH"`
}

// PricingConfig holds the cart total policy values.
type PricingConfig struct {
	TaxRate               decimal.Decimal `envconfig:"NEXORA_PRICING_TAX_RATE" default:"0.18"`
	FreeShippingThreshold int             `envconfig:"NEXORA_PRICING_FREE_SHIPPING_THRESHOLD" default:"999"`
	ShippingFee           int             `envconfig:"NEXORA_PRICING_SHIPPING_FEE" default:"99"`
}

type SearchConfig struct {
	SuggestLimit   int      `envconfig:"NEXORA_SEARCH_SUGGEST_LIMIT" default:"6"`
	TrendingTerms  []string `envconfig:"NEXORA_SEARCH_TRENDING_TERMS" default:"wireless headphones,gaming laptop,smart watch,running shoes"`
	BrowseCap      int      `envconfig:"NEXORA_SEARCH_BROWSE_CAP" default:"180"`
	FallbackLimit  int      `envconfig:"NEXORA_SEARCH_FALLBACK_LIMIT" default:"24"`
	MinDidYouMeanN int      `envconfig:"NEXORA_SEARCH_DID_YOU_MEAN_MIN_LEN" default:"3"`
}

type CheckoutConfig struct {
	ProcessingDelay time.Duration `envconfig:"NEXORA_CHECKOUT_PROCESSING_DELAY" default:"1800ms"`
	CouponDiscount  int           `envconfig:"NEXORA_CHECKOUT_COUPON_DISCOUNT" default:"199"`
}

type SessionConfig struct {
	MaxCached int           `envconfig:"NEXORA_SESSION_MAX_CACHED" default:"10000"`
	MinIdle   time.Duration `envconfig:"NEXORA_SESSION_MIN_IDLE" default:"1m"`
}

// EnsureDSN fills DSN from the driver default or the legacy host/user/name fields.
func (db *DBConfig) EnsureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if strings.EqualFold(db.Driver, DBDriverSQLite) {
		db.DSN = "file:nexora.db?cache=shared"
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
