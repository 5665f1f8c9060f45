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
	Site          SiteConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	CORS          CORSConfig
	Cart          CartConfig
	Catalog       CatalogConfig
	Admin         AdminConfig
	Media         MediaConfig
	GCP           GCPConfig
	GCS           GCSConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Cart.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CASAKIRAN_APP_ENV" required:"true"`
	Port         string `envconfig:"CASAKIRAN_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CASAKIRAN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CASAKIRAN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// SiteConfig carries the storefront identity and the WhatsApp checkout target.
type SiteConfig struct {
	Name              string `envconfig:"CASAKIRAN_SITE_NAME" default:"Casa Kiran"`
	WhatsAppPhone     string `envconfig:"CASAKIRAN_WHATSAPP_PHONE" required:"true"`
	CurrencyCode      string `envconfig:"CASAKIRAN_CURRENCY_CODE" default:"CLP"`
	CurrencySymbol    string `envconfig:"CASAKIRAN_CURRENCY_SYMBOL" default:"$"`
	CurrencyFractions int    `envconfig:"CASAKIRAN_CURRENCY_FRACTION_DIGITS" default:"0"`
	Locale            string `envconfig:"CASAKIRAN_LOCALE" default:"es-CL"`
}

type DBConfig struct {
	DSN    string `envconfig:"CASAKIRAN_DB_DSN"`
	Driver string `envconfig:"CASAKIRAN_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CASAKIRAN_DB_HOST"`
	LegacyPort     int    `envconfig:"CASAKIRAN_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CASAKIRAN_DB_USER"`
	LegacyPassword string `envconfig:"CASAKIRAN_DB_PASSWORD"`
	LegacyName     string `envconfig:"CASAKIRAN_DB_NAME"`
	LegacySSLMode  string `envconfig:"CASAKIRAN_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CASAKIRAN_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CASAKIRAN_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CASAKIRAN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CASAKIRAN_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CASAKIRAN_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CASAKIRAN_REDIS_ADDR"`
	Password     string        `envconfig:"CASAKIRAN_REDIS_PASSWORD"`
	DB           int           `envconfig:"CASAKIRAN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CASAKIRAN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CASAKIRAN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CASAKIRAN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CASAKIRAN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CASAKIRAN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"CASAKIRAN_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"CASAKIRAN_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"CASAKIRAN_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"CASAKIRAN_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CASAKIRAN_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CASAKIRAN_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CASAKIRAN_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CASAKIRAN_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CASAKIRAN_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"CASAKIRAN_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"CASAKIRAN_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"CASAKIRAN_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CASAKIRAN_CORS_ORIGINS" default:"http://localhost:3000,https://casakiran.cl,https://www.casakiran.cl"`
}

// CartConfig selects where visitor carts live between requests.
type CartConfig struct {
	Persistence string        `envconfig:"CASAKIRAN_CART_PERSISTENCE" default:"memory"`
	TTL         time.Duration `envconfig:"CASAKIRAN_CART_TTL" default:"168h"`
	CookieName  string        `envconfig:"CASAKIRAN_CART_COOKIE" default:"ck_cart_session"`
}

func (c CartConfig) validate() error {
	switch c.Persistence {
	case CartPersistenceMemory, CartPersistenceRedis:
		return nil
	}
	return fmt.Errorf("unknown cart persistence %q", c.Persistence)
}

// CatalogConfig selects the catalog repository implementation.
type CatalogConfig struct {
	Backend string `envconfig:"CASAKIRAN_CATALOG_BACKEND" default:"postgres"`
}

func (c CatalogConfig) UseFixture() bool {
	return strings.EqualFold(c.Backend, CatalogBackendMemory)
}

// AdminConfig seeds the first admin account outside production.
type AdminConfig struct {
	BootstrapEmail    string `envconfig:"CASAKIRAN_ADMIN_EMAIL"`
	BootstrapPassword string `envconfig:"CASAKIRAN_ADMIN_PASSWORD"`
}

type MediaConfig struct {
	MaxUploadMB int `envconfig:"CASAKIRAN_MEDIA_MAX_UPLOAD_MB" default:"10"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"CASAKIRAN_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"CASAKIRAN_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"CASAKIRAN_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName string `envconfig:"CASAKIRAN_GCS_BUCKET_NAME"`
	PublicHost string `envconfig:"CASAKIRAN_GCS_PUBLIC_HOST" default:"https://storage.googleapis.com"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CASAKIRAN_AUTO_MIGRATE" default:"false"`
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
