package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort       string
	LogLevel       string
	RequestTimeout time.Duration

	DBDriver        string
	PostgresDSN     string
	MongoURI        string
	MongoDatabase   string
	DBMaxOpenConns  int
	DBMaxIdleConns  int
	DBConnMaxIdle   time.Duration
	DBConnMaxLife   time.Duration
	RedisURL        string
	ApplyRatePerMin int
	LoginRatePerMin int

	JWTSecret      string
	AccessTokenTTL time.Duration
	AdminEmail     string
	AdminPassword  string

	ListmonkBaseURL    string
	ListmonkUsername   string
	ListmonkToken      string
	ListmonkTemplateID int
	GeminiAPIKey       string
	GeminiModel        string

	StrictRoundTransitions bool
}

const (
	DriverMemory   = "memory"
	DriverPgx      = "pgx"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	return load(true)
}

// LoadStorage is Load for tools that only open the repositories and never
// issue tokens.
func LoadStorage() (*Config, error) {
	return load(false)
}

func load(requireAuth bool) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		HTTPPort:               getEnv("HTTP_PORT", "8080"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		RequestTimeout:         getDuration("REQUEST_TIMEOUT", 10*time.Second),
		DBDriver:               strings.ToLower(getEnv("DB_DRIVER", DriverMemory)),
		PostgresDSN:            getEnv("DATABASE_URL", ""),
		MongoURI:               getEnv("MONGO_URI", ""),
		MongoDatabase:          getEnv("MONGO_DATABASE", "placement"),
		DBMaxOpenConns:         getInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:         getInt("DB_MAX_IDLE_CONNS", 10),
		DBConnMaxIdle:          getDuration("DB_CONN_MAX_IDLE", 5*time.Minute),
		DBConnMaxLife:          getDuration("DB_CONN_MAX_LIFE", 30*time.Minute),
		RedisURL:               getEnv("REDIS_URL", ""),
		ApplyRatePerMin:        getInt("APPLY_RATE_LIMIT_PER_MIN", 3),
		LoginRatePerMin:        getInt("LOGIN_RATE_LIMIT_PER_MIN", 10),
		JWTSecret:              getEnv("JWT_SECRET", ""),
		AccessTokenTTL:         getDuration("ACCESS_TOKEN_TTL", 12*time.Hour),
		AdminEmail:             getEnv("ADMIN_EMAIL", ""),
		AdminPassword:          getEnv("ADMIN_PASSWORD", ""),
		ListmonkBaseURL:        getEnv("LISTMONK_BASE_URL", ""),
		ListmonkUsername:       getEnv("LISTMONK_USERNAME", ""),
		ListmonkToken:          getEnv("LISTMONK_TOKEN", ""),
		ListmonkTemplateID:     getInt("LISTMONK_TEMPLATE_ID", 0),
		GeminiAPIKey:           getEnv("GEMINI_API_KEY", ""),
		GeminiModel:            getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		StrictRoundTransitions: getBool("STRICT_ROUND_TRANSITIONS", true),
	}
	if cfg.DBDriver == "pq" || cfg.DBDriver == "postgresql" {
		cfg.DBDriver = DriverPostgres
	}

	missing := make([]string, 0, 4)
	if requireAuth && cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	switch cfg.DBDriver {
	case DriverMemory:
	case DriverPgx, DriverPostgres:
		if cfg.PostgresDSN == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case DriverMongo:
		if cfg.MongoURI == "" {
			missing = append(missing, "MONGO_URI")
		}
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	if cfg.ApplyRatePerMin < 0 || cfg.LoginRatePerMin < 0 {
		return nil, fmt.Errorf("rate limit values must not be negative")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		value = strings.TrimSpace(value)
		if value != "" {
			return value
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := time.ParseDuration(strings.TrimSpace(value))
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
