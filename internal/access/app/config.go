package app

import (
	"os"
	"strconv"
	"time"

	"github.com/michat/michat/pkg/jwtx"
)

type Config struct {
	Issuer        string        // Optional: issuer claim for tokens (default: michat-access)
	JWTSecret     string        // Optional: HS256 signing secret; generated into JWTSecretFile when empty
	JWTSecretFile string        // Optional: path to file holding the signing secret (default: ./jwt_secret)
	AccessTTL     time.Duration // Optional: access token lifetime (default: 15m)
	RefreshTTL    time.Duration // Optional: refresh token lifetime (default: 168h)

	DatabaseFile        string        // Optional: path to SQLite database file (default: ./access.db)
	PepperFile          string        // Optional: path to file containing pepper for password hashing (default: ./pepper)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		Issuer:        getEnvOrDefault("ACCESS_ISSUER", "michat-access"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTSecretFile: getEnvOrDefault("JWT_SECRET_FILE", "jwt_secret"),
		AccessTTL: getEnvDurationOrDefault(
			"ACCESS_TOKEN_TTL",
			jwtx.DefaultAccessTokenTTL,
		),
		RefreshTTL: getEnvDurationOrDefault(
			"REFRESH_TOKEN_TTL",
			jwtx.DefaultRefreshTokenTTL,
		),
		DatabaseFile:        getEnvOrDefault("ACCESS_DATABASE_FILE", "access.db"),
		PepperFile:          getEnvOrDefault("ACCESS_PEPPER_FILE", "pepper"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// e.g. "1h", "30m", "90s"
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are treated as minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
