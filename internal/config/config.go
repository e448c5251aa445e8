package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/SAP-F-2025/grade-service/internal/grading"
	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string
	Environment string
	LogLevel    string
	CacheTTL    time.Duration
	CORSOrigins []string

	Grading GradingConfig
	Events  EventConfig
}

// GradingConfig holds the calculation policies applied when a request does
// not override them.
type GradingConfig struct {
	DropPolicy           grading.DropPolicy
	InactivePolicy       grading.InactiveCategoryPolicy
	RequireEveryCategory bool
}

// Options converts the config into aggregator options.
func (g GradingConfig) Options() grading.Options {
	opts := grading.DefaultOptions()
	opts.DropPolicy = g.DropPolicy
	opts.InactivePolicy = g.InactivePolicy
	opts.RequireEveryCategory = g.RequireEveryCategory
	return opts
}

// LoadConfig reads .env when present and then the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	dropPolicy, err := grading.ParseDropPolicy(getEnv("DROP_POLICY", string(grading.DropGreedyBeneficial)))
	if err != nil {
		return nil, err
	}
	inactivePolicy, err := grading.ParseInactiveCategoryPolicy(getEnv("INACTIVE_CATEGORY_POLICY", string(grading.InactiveRenormalize)))
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CacheTTL:    getEnvDuration("CACHE_TTL", 10*time.Minute),
		CORSOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		Grading: GradingConfig{
			DropPolicy:           dropPolicy,
			InactivePolicy:       inactivePolicy,
			RequireEveryCategory: getEnvBool("REQUIRE_EVERY_CATEGORY", false),
		},
		Events: EventConfig{
			Enabled:      getEnvBool("EVENTS_ENABLED", false),
			Publisher:    getEnv("EVENTS_PUBLISHER", "mock"),
			KafkaBrokers: getEnv("KAFKA_BROKERS", "localhost:9092"),
			GradeTopic:   getEnv("GRADE_EVENTS_TOPIC", "grade-events"),
		},
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// splitList splits a comma separated value, dropping blanks.
func splitList(value string) []string {
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
