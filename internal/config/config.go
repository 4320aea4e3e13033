package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultDSN = "host=localhost user=postgres password=postgres dbname=revisor port=5432 sslmode=disable"

type Config struct {
	AppEnv         string
	HTTPPort       string
	DatabaseDSN    string
	DBMaxOpenConns int
	DBMaxIdleConns int
	JWTSecret      string
	JWTTTL         time.Duration
	CORSOrigins    []string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	CacheTTL       time.Duration
	AuthRateLimit  float64
	AuthRateBurst  int
}

var (
	ErrMissingJWTSecret = errors.New("JWT_SECRET is not set")
	ErrShortJWTSecret   = errors.New("JWT_SECRET must be at least 32 characters")
)

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:    getEnv("DATABASE_DSN", defaultDSN),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 10),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		JWTTTL:         getEnvDuration("JWT_TTL", 24*time.Hour),
		CORSOrigins:    splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		CacheTTL:       getEnvDuration("CACHE_TTL", 5*time.Minute),
		AuthRateLimit:  getEnvFloat("AUTH_RATE_LIMIT", 5),
		AuthRateBurst:  getEnvInt("AUTH_RATE_BURST", 10),
	}

	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}
	if len(cfg.JWTSecret) < 32 {
		return nil, ErrShortJWTSecret
	}
	if cfg.DatabaseDSN == defaultDSN {
		log.Println("[WARN] DATABASE_DSN is using the local default, set it for production")
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("[WARN] %s=%q is not an integer, using %d", key, v, def)
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("[WARN] %s=%q is not a number, using %v", key, v, def)
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("[WARN] %s=%q is not a duration, using %s", key, v, def)
	}
	return def
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
