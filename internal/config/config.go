// Package config provides application configuration loaded from environment
// variables (optionally seeded from a .env file) with defaults and validation.
// It centralizes server timeouts, logging, database pool settings, rate
// limiting, mail and image-host credentials, cache/event sinks, and tracing.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// DBConfig selects the SQL driver and bounds the connection pool.
type DBConfig struct {
	Driver          string        // DB_DRIVER: sqlite|mysql|postgres
	DSN             string        // DB_DSN (file path for sqlite)
	MaxOpenConns    int           // DB_MAX_OPEN_CONNS
	MaxIdleConns    int           // DB_MAX_IDLE_CONNS
	ConnMaxLifetime time.Duration // DB_CONN_MAX_LIFETIME
	AcquireTimeout  time.Duration // DB_ACQUIRE_TIMEOUT, per unit of work
}

// MailConfig holds outbound email settings.
type MailConfig struct {
	ResendAPIKey      string // RESEND_API_KEY; empty logs mail instead of sending
	FromOrders        string // MAIL_FROM_ORDERS
	FromGeneral       string // MAIL_FROM_GENERAL
	AdminEmail        string // ADMIN_EMAIL
	AdminDashboardURL string // ADMIN_DASHBOARD_URL
}

// NotifyConfig sizes the asynchronous notification dispatcher.
type NotifyConfig struct {
	QueueSize   int
	Workers     int
	SendTimeout time.Duration
}

// ImageHostConfig configures the imgbb upload client.
type ImageHostConfig struct {
	APIKey    string
	UploadURL string
}

// CacheConfig configures the optional Redis catalog cache.
type CacheConfig struct {
	RedisAddr     string // REDIS_ADDR; empty disables caching
	RedisPassword string
	RedisDB       int
	CatalogTTL    time.Duration
}

// EventsConfig configures the optional Kafka event publisher.
type EventsConfig struct {
	KafkaBrokers []string // KAFKA_BROKERS; empty disables publishing
	KafkaTopic   string
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	MaxHeaderBytes    int
	GinMode           string // debug|release|test

	// Logging / Docs
	LogLevel       string
	LogPretty      bool
	SwaggerEnabled bool
	APIBasePath    string

	DB DBConfig

	// Rate limiting
	RateRPS   float64
	RateBurst int

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Order submissions carrying the same Idempotency-Key within this window
	// replay the original order.
	IdempotencyTTL time.Duration

	Mail      MailConfig
	Notify    NotifyConfig
	ImageHost ImageHostConfig
	Cache     CacheConfig
	Events    EventsConfig

	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables, applies defaults,
// normalizes values, and validates the result. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:   getdur("SHUTDOWN_TIMEOUT", 10*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/")),

		DB: DBConfig{
			Driver:          strings.ToLower(getenv("DB_DRIVER", "sqlite")),
			DSN:             getenv("DB_DSN", ""),
			MaxOpenConns:    getint("DB_MAX_OPEN_CONNS", 5),
			MaxIdleConns:    getint("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getdur("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			AcquireTimeout:  getdur("DB_ACQUIRE_TIMEOUT", 5*time.Second),
		},

		RateRPS:   getfloat("RATE_RPS", 30),
		RateBurst: getint("RATE_BURST", 30),

		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		IdempotencyTTL: getdur("IDEMPOTENCY_TTL", 24*time.Hour),

		Mail: MailConfig{
			ResendAPIKey:      getenv("RESEND_API_KEY", ""),
			FromOrders:        getenv("MAIL_FROM_ORDERS", "Airban Doors <orders@hansoheneba.com>"),
			FromGeneral:       getenv("MAIL_FROM_GENERAL", "Airban Doors <hello@hansoheneba.com>"),
			AdminEmail:        getenv("ADMIN_EMAIL", ""),
			AdminDashboardURL: strings.TrimRight(getenv("ADMIN_DASHBOARD_URL", ""), "/"),
		},
		Notify: NotifyConfig{
			QueueSize:   getint("NOTIFY_QUEUE_SIZE", 100),
			Workers:     getint("NOTIFY_WORKERS", 2),
			SendTimeout: getdur("NOTIFY_SEND_TIMEOUT", 10*time.Second),
		},
		ImageHost: ImageHostConfig{
			APIKey:    getenv("IMGBB_API_KEY", ""),
			UploadURL: getenv("IMGBB_UPLOAD_URL", "https://api.imgbb.com/1/upload"),
		},
		Cache: CacheConfig{
			RedisAddr:     getenv("REDIS_ADDR", ""),
			RedisPassword: getenv("REDIS_PASSWORD", ""),
			RedisDB:       getint("REDIS_DB", 0),
			CatalogTTL:    getdur("CATALOG_CACHE_TTL", 5*time.Minute),
		},
		Events: EventsConfig{
			KafkaBrokers: splitCSV(getenv("KAFKA_BROKERS", "")),
			KafkaTopic:   getenv("KAFKA_TOPIC", "airban.events"),
		},

		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "airban-api"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	if cfg.DB.Driver == "postgresql" {
		cfg.DB.Driver = "postgres"
	}
	if cfg.DB.DSN == "" {
		cfg.DB.DSN = defaultDSN(cfg.DB.Driver)
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 ||
		cfg.IdleTimeout <= 0 || cfg.ShutdownTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	switch cfg.DB.Driver {
	case "sqlite", "mysql", "postgres":
	default:
		return cfg, fmt.Errorf("DB_DRIVER %q not supported (sqlite, mysql, postgres)", cfg.DB.Driver)
	}
	if strings.TrimSpace(cfg.DB.DSN) == "" {
		return cfg, errors.New("DB_DSN must not be empty")
	}
	if cfg.DB.MaxOpenConns < 1 {
		return cfg, errors.New("DB_MAX_OPEN_CONNS must be >= 1")
	}
	if cfg.DB.MaxIdleConns < 0 {
		return cfg, errors.New("DB_MAX_IDLE_CONNS must be >= 0")
	}
	if cfg.DB.AcquireTimeout <= 0 {
		return cfg, errors.New("DB_ACQUIRE_TIMEOUT must be > 0")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.IdempotencyTTL <= 0 {
		return cfg, errors.New("IDEMPOTENCY_TTL must be > 0")
	}
	if cfg.Notify.QueueSize < 1 || cfg.Notify.Workers < 1 {
		return cfg, errors.New("NOTIFY_QUEUE_SIZE and NOTIFY_WORKERS must be >= 1")
	}
	if cfg.Notify.SendTimeout <= 0 {
		return cfg, errors.New("NOTIFY_SEND_TIMEOUT must be > 0")
	}
	if cfg.Cache.CatalogTTL <= 0 {
		return cfg, errors.New("CATALOG_CACHE_TTL must be > 0")
	}
	if len(cfg.Events.KafkaBrokers) > 0 && strings.TrimSpace(cfg.Events.KafkaTopic) == "" {
		return cfg, errors.New("KAFKA_TOPIC must not be empty when KAFKA_BROKERS is set")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// defaultDSN picks a DSN when DB_DSN is unset. For MySQL it assembles one
// from the MYSQL_* variables used by earlier deployments.
func defaultDSN(driver string) string {
	switch driver {
	case "sqlite":
		return "airban.db"
	case "mysql":
		host := getenv("MYSQL_HOST", "")
		if host == "" {
			return ""
		}
		if !strings.Contains(host, ":") {
			host += ":3306"
		}
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			getenv("MYSQL_USER", "root"), getenv("MYSQL_PASSWORD", ""), host, getenv("MYSQL_DB", "airban"))
	}
	return ""
}

// ---- helpers ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
