package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every runtime setting. It is loaded once in main and passed
// down to the components that need it; nothing reads the environment after
// startup.
type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret        string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration
	MaxSessions      int
	SweepInterval    time.Duration
	RotateRefreshTok bool

	TaxRate string // decimal string, e.g. "0.19"
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnvFromFile("DB_PASSWORD_FILE", "DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "ecommerce"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:        getEnvFromFile("JWT_SECRET_FILE", "JWT_SECRET", "change-me-in-production"),
		AccessTokenTTL:   getDuration("ACCESS_TOKEN_TTL", 24*time.Hour),
		RefreshTokenTTL:  getDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		MaxSessions:      getInt("MAX_SESSIONS_PER_USER", 5),
		SweepInterval:    getDuration("SESSION_SWEEP_INTERVAL", time.Hour),
		RotateRefreshTok: getBool("ROTATE_REFRESH_TOKENS", false),

		TaxRate: getEnv("TAX_RATE", "0.19"),
	}
}

// DSN builds the postgres connection string.
func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvFromFile supports docker-style secret files: if KEY_FILE points at a
// readable file its trimmed content wins over KEY.
func getEnvFromFile(fileKey, envKey, defaultValue string) string {
	if filePath := os.Getenv(fileKey); filePath != "" {
		if content, err := os.ReadFile(filePath); err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return getEnv(envKey, defaultValue)
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
