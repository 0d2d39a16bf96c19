package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // For splitting list values
	"time"    // For duration parsing

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort         string        // Application port
	DBUser          string        // Database user
	DBPassword      string        // Database password
	DBHost          string        // Database host
	DBPort          string        // Database port
	DBName          string        // Database name
	DBMaxOpenConns  int           // Max open connections in the pool
	DBMaxIdleConns  int           // Max idle connections in the pool
	DBConnMaxLife   time.Duration // Max lifetime of a pooled connection
	JWTSecret       string        // JWT secret key
	JWTExpires      time.Duration // JWT token lifetime
	RedisAddr       string        // Redis server address
	RedisPass       string        // Redis password
	RedisDB         int           // Redis database number
	CORSOrigins     []string      // Allowed CORS origins
	RateLimitMax    int64         // Max requests per IP per window on /api
	RateLimitWindow time.Duration // Rate limit window
	AuthLimitMax    int64         // Max requests per IP per window on /api/auth
	IsProd          bool          // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	return &Config{
		AppPort:         getEnv("APP_PORT", "3000"),
		DBUser:          os.Getenv("DB_USER"),
		DBPassword:      os.Getenv("DB_PASSWORD"),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "3306"),
		DBName:          getEnv("DB_NAME", "huertohogar"),
		DBMaxOpenConns:  getEnvInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:  getEnvInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLife:   getEnvDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		JWTExpires:      getEnvDuration("JWT_EXPIRES_IN", 24*time.Hour),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:       os.Getenv("REDIS_PASS"),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		CORSOrigins:     splitList(getEnv("CORS_ORIGIN", "http://localhost:3000")),
		RateLimitMax:    int64(getEnvInt("RATE_LIMIT_MAX", 100)),
		RateLimitWindow: getEnvDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
		AuthLimitMax:    int64(getEnvInt("AUTH_RATE_LIMIT_MAX", 5)),
		IsProd:          os.Getenv("IS_PROD") == "true",
	}
}

// DSN builds the MySQL Data Source Name from the loaded values
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true&charset=utf8mb4"
}

// getEnv returns the value of an environment variable or a default
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// splitList splits a comma-separated value into trimmed entries
func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
