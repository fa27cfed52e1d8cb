package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	JWTSecret   string
	MongoURI    string
	DBName      string
	PostgresDSN string // BaaS billing tables live in Postgres
	SkipAuth    bool
	Environment string
	AppId       string

	// Cache TTL tiers (recency-vs-load tradeoff, see report/trend fetchers)
	ReportCacheTTL time.Duration
	UsageCacheTTL  time.Duration
	TrendCacheTTL  time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		JWTSecret:      getEnv("JWT_SECRET", "secret"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:         getEnv("DB_NAME", "forwarddesk"),
		PostgresDSN:    getEnv("POSTGRES_DSN", "postgres://localhost:5432/forwarddesk?sslmode=disable"),
		SkipAuth:       getEnv("SKIP_AUTH", "false") == "true",
		Environment:    getEnv("ENVIRONMENT", "development"),
		AppId:          getEnv("APP_ID", "forwarddesk"),
		ReportCacheTTL: getDurationEnv("REPORT_CACHE_TTL_MINUTES", 15),
		UsageCacheTTL:  getDurationEnv("USAGE_CACHE_TTL_MINUTES", 30),
		TrendCacheTTL:  getDurationEnv("TREND_CACHE_TTL_MINUTES", 60),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallbackMinutes int) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if minutes, err := strconv.Atoi(value); err == nil && minutes > 0 {
			return time.Duration(minutes) * time.Minute
		}
	}
	return time.Duration(fallbackMinutes) * time.Minute
}
