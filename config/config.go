package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL  string
	JWTSecretKey string
	ServerPort   int

	CORSAllowedOrigins []string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
	R2Endpoint        string

	AMQPURL      string
	AMQPExchange string

	// Ограничение записи результатов на один IP
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// 0 отключает периодическую проверку
	IntegrityCheckInterval time.Duration

	MCPAddr   string
	MCPAPIKey string
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	port, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	rateRequests, err := intEnv("RATE_LIMIT_REQUESTS", 30)
	if err != nil {
		return nil, err
	}
	if rateRequests < 0 {
		return nil, fmt.Errorf("RATE_LIMIT_REQUESTS must not be negative, got %d", rateRequests)
	}
	rateWindow, err := durationEnv("RATE_LIMIT_WINDOW", time.Minute)
	if err != nil {
		return nil, err
	}
	if rateWindow <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", rateWindow)
	}

	integrity, err := durationEnv("INTEGRITY_CHECK_INTERVAL", time.Hour)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseURL:            dbURL,
		JWTSecretKey:           jwtKey,
		ServerPort:             port,
		CORSAllowedOrigins:     listEnv("CORS_ALLOWED_ORIGINS"),
		R2AccountID:            os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:          os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey:      os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:           os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:        os.Getenv("R2_PUBLIC_BASE_URL"),
		R2Endpoint:             os.Getenv("R2_ENDPOINT"),
		AMQPURL:                os.Getenv("AMQP_URL"),
		AMQPExchange:           os.Getenv("AMQP_EXCHANGE"),
		RateLimitRequests:      rateRequests,
		RateLimitWindow:        rateWindow,
		IntegrityCheckInterval: integrity,
		MCPAddr:                os.Getenv("MCP_ADDR"),
		MCPAPIKey:              os.Getenv("MCP_API_KEY"),
	}

	return cfg, nil
}

// RatePerSecond переводит RATE_LIMIT_REQUESTS/RATE_LIMIT_WINDOW в скорость token bucket.
func (c *Config) RatePerSecond() float64 {
	if c.RateLimitRequests == 0 {
		return 0
	}
	return float64(c.RateLimitRequests) / c.RateLimitWindow.Seconds()
}

func intEnv(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}

func listEnv(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
