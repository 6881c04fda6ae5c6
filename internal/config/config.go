package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all runtime configuration for the TrainUp server.
type Config struct {
	Port        string
	MongoURI    string
	MongoDBName string
	JWTSecret   string
	TokenExpiry int // hours
}

// LoadConfig reads configuration from a .env file (if present) and the environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName: getEnv("MONGO_DB_NAME", "trainup"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		TokenExpiry: getEnvInt("TOKEN_EXPIRY_HOURS", 72),
	}

	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET is not set")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		logrus.Warnf("Invalid value for %s, using default %d", key, fallback)
	}
	return fallback
}
