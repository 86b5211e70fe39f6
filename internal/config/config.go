package config

import (
	"os"
	"strconv"
	"time"

	"task_tracker/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	JWTSecret   string
	TokenTTL    time.Duration

	// Redis for rate limiting (optional; limiter is fail-open without it)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Fixed-window request limits
	APIRateLimit   int
	APIRateWindow  time.Duration
	AuthRateLimit  int
	AuthRateWindow time.Duration

	LogLevel string
	LogJSON  bool
}

// Load reads configuration from the environment (.env is honored when
// present) and fails fast on missing secrets.
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	tokenTTL := 24 * time.Hour
	if v := os.Getenv("JWT_EXPIRES_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			tokenTTL = time.Duration(n) * time.Hour
		}
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	apiRateLimit := 100
	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			apiRateLimit = n
		}
	}
	apiRateWindow := time.Minute
	if v := os.Getenv("API_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			apiRateWindow = time.Duration(n) * time.Second
		}
	}

	// Stricter window for register/login
	authRateLimit := 5
	if v := os.Getenv("AUTH_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			authRateLimit = n
		}
	}
	authRateWindow := time.Minute
	if v := os.Getenv("AUTH_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			authRateWindow = time.Duration(n) * time.Second
		}
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return &Config{
		AppPort:        port,
		DatabaseURL:    dbURL,
		JWTSecret:      jwtSecret,
		TokenTTL:       tokenTTL,
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        redisDB,
		APIRateLimit:   apiRateLimit,
		APIRateWindow:  apiRateWindow,
		AuthRateLimit:  authRateLimit,
		AuthRateWindow: authRateWindow,
		LogLevel:       logLevel,
		LogJSON:        os.Getenv("LOG_JSON") == "true",
	}
}
