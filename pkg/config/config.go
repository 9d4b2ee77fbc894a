package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Store    StoreConfig
	Seed     SeedConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Login    LoginConfig
	Persist  PersistConfig
	Offline  OfflineConfig
	Summary  SummaryConfig
}

// StoreConfig selects the key-value store driver backing application state.
type StoreConfig struct {
	Driver  string // "file" or "postgres"
	BaseDir string // file driver only
}

// SeedConfig controls the bootstrap administrator installed on first
// start, when the users slot has never been written. Without it a fresh
// deployment has no account able to create users.
type SeedConfig struct {
	Enabled  bool
	Name     string
	Username string
	Password string
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// LoginConfig tunes the transient login-failure indicator.
type LoginConfig struct {
	ErrorTTL time.Duration
}

// PersistConfig tunes the snapshot write queue.
type PersistConfig struct {
	QueueSize int
}

// OfflineConfig configures the offline cache gateway.
type OfflineConfig struct {
	Port            int
	Upstream        string
	Generation      string
	BootstrapAssets []string
	ExcludedHosts   []string
	FetchTimeout    time.Duration
}

// SummaryConfig configures the AI usage summary integration.
type SummaryConfig struct {
	APIKey   string
	Model    string
	Endpoint string
	Timeout  time.Duration
	CacheTTL time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Store = StoreConfig{
		Driver:  v.GetString("STORE_DRIVER"),
		BaseDir: v.GetString("STORE_BASE_DIR"),
	}

	cfg.Seed = SeedConfig{
		Enabled:  v.GetBool("SEED_ADMIN"),
		Name:     v.GetString("SEED_ADMIN_NAME"),
		Username: v.GetString("SEED_ADMIN_USERNAME"),
		Password: v.GetString("SEED_ADMIN_PASSWORD"),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Login = LoginConfig{
		ErrorTTL: parseDuration(v.GetString("LOGIN_ERROR_TTL"), 3*time.Second),
	}

	cfg.Persist = PersistConfig{
		QueueSize: v.GetInt("PERSIST_QUEUE_SIZE"),
	}

	cfg.Offline = OfflineConfig{
		Port:            v.GetInt("OFFLINE_PORT"),
		Upstream:        v.GetString("OFFLINE_UPSTREAM"),
		Generation:      v.GetString("CACHE_GENERATION"),
		BootstrapAssets: splitAndTrim(v.GetString("BOOTSTRAP_ASSETS")),
		ExcludedHosts:   splitAndTrim(v.GetString("CACHE_EXCLUDED_HOSTS")),
		FetchTimeout:    parseDuration(v.GetString("OFFLINE_FETCH_TIMEOUT"), 10*time.Second),
	}

	cfg.Summary = SummaryConfig{
		APIKey:   v.GetString("GEMINI_API_KEY"),
		Model:    v.GetString("GEMINI_MODEL"),
		Endpoint: v.GetString("GEMINI_ENDPOINT"),
		Timeout:  parseDuration(v.GetString("GEMINI_TIMEOUT"), 30*time.Second),
		CacheTTL: parseDuration(v.GetString("SUMMARY_CACHE_TTL"), 5*time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("STORE_DRIVER", "file")
	v.SetDefault("STORE_BASE_DIR", "./data")

	v.SetDefault("SEED_ADMIN", true)
	v.SetDefault("SEED_ADMIN_NAME", "Research Administrator")
	v.SetDefault("SEED_ADMIN_USERNAME", "admin")
	v.SetDefault("SEED_ADMIN_PASSWORD", "admin")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "mustang_stride")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "mustang-stride")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("LOGIN_ERROR_TTL", "3s")
	v.SetDefault("PERSIST_QUEUE_SIZE", 16)

	v.SetDefault("OFFLINE_PORT", 8081)
	v.SetDefault("OFFLINE_UPSTREAM", "http://localhost:8080")
	v.SetDefault("CACHE_GENERATION", "mustang-stride-v3")
	v.SetDefault("BOOTSTRAP_ASSETS", "/,/index.html,/manifest.json")
	v.SetDefault("CACHE_EXCLUDED_HOSTS", "googleapis.com")
	v.SetDefault("OFFLINE_FETCH_TIMEOUT", "10s")

	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-3-flash-preview")
	v.SetDefault("GEMINI_ENDPOINT", "https://generativelanguage.googleapis.com/v1beta/models")
	v.SetDefault("GEMINI_TIMEOUT", "30s")
	v.SetDefault("SUMMARY_CACHE_TTL", "5m")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
