package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Placeholder secrets used when the variables are unset. Validate rejects
// them in release mode.
const (
	defaultSessionSecret = "default-secret-key-change-me"
	defaultJWTSecret     = "default-jwt-secret-change-me"
)

var ErrInsecureSecret = errors.New("secret must be set in release mode")

type Config struct {
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBDSN      string

	RedisHost     string
	RedisPort     string
	SessionSecret string

	JWTSecret          string
	JWTExpirationHours int

	GinMode            string
	Port               string
	CORSAllowedOrigins []string

	LogLevel  string
	LogFormat string

	OpenAIAPIKey string

	RevenuePerJob            int64
	EnforceStatusTransitions bool
	LoginRatePerSecond       float64
	LoginRateBurst           int
	SeedDemoData             bool
}

// Load reads the optional .env file and then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DBDriver:   getEnv("DB_DRIVER", "mysql"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "dispatch"),
		DBPassword: getEnv("DB_PASSWORD", "dispatchpassword"),
		DBName:     getEnv("DB_NAME", "fleet_dispatch"),
		DBDSN:      getEnv("DB_DSN", ""),

		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		SessionSecret: getEnv("SESSION_SECRET", defaultSessionSecret),

		JWTSecret:          getEnv("JWT_SECRET", defaultJWTSecret),
		JWTExpirationHours: getEnvInt("JWT_EXPIRATION_HOURS", 24),

		GinMode:            getEnv("GIN_MODE", "debug"),
		Port:               getEnv("PORT", "3000"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),

		RevenuePerJob:            int64(getEnvInt("REVENUE_PER_JOB", 500)),
		EnforceStatusTransitions: getEnvBool("ENFORCE_STATUS_TRANSITIONS", false),
		LoginRatePerSecond:       getEnvFloat("LOGIN_RATE_PER_SECOND", 1),
		LoginRateBurst:           getEnvInt("LOGIN_RATE_BURST", 5),
		SeedDemoData:             getEnvBool("SEED_DEMO_DATA", false),
	}
}

// Validate refuses to run a release build on the placeholder secrets.
func (c *Config) Validate() error {
	if c.GinMode != "release" {
		return nil
	}
	if c.JWTSecret == "" || c.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET: %w", ErrInsecureSecret)
	}
	if c.SessionSecret == "" || c.SessionSecret == defaultSessionSecret {
		return fmt.Errorf("SESSION_SECRET: %w", ErrInsecureSecret)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
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

// getEnvList splits a comma separated variable, dropping empty entries.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
