package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is built once in main and handed to the components that need it.
type Config struct {
	Port     string
	AppEnv   string
	LogLevel string

	Travelport Travelport
	Cache      Cache
}

// Travelport holds the upstream account. Endpoint, Username, Password and
// TargetBranch are required.
type Travelport struct {
	Endpoint     string
	Username     string
	Password     string
	TargetBranch string
	Timeout      time.Duration
}

type Cache struct {
	Enabled       bool
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisTTL      time.Duration
}

// Load reads an optional .env file and then the process environment.
func Load() Config {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	return Config{
		Port:     getEnv("PORT", "9000"),
		AppEnv:   getEnv("APP_ENV", "prod"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Travelport: Travelport{
			Endpoint:     os.Getenv("TRAVELPORT_ENDPOINT"),
			Username:     os.Getenv("TRAVELPORT_USERNAME"),
			Password:     os.Getenv("TRAVELPORT_PASSWORD"),
			TargetBranch: os.Getenv("TRAVELPORT_TARGET_BRANCH"),
			Timeout:      getEnvDuration("TRAVELPORT_TIMEOUT", 90*time.Second),
		},
		Cache: Cache{
			Enabled:       getEnvBool("CACHE_ENABLED", false),
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       getEnvInt("REDIS_DB", 0),
			RedisTTL:      getEnvDuration("REDIS_TTL", 5*time.Minute),
		},
	}
}

// Validate reports every missing required key at once.
func (c Config) Validate() error {
	var missing []string
	if c.Travelport.Endpoint == "" {
		missing = append(missing, "TRAVELPORT_ENDPOINT")
	}
	if c.Travelport.Username == "" {
		missing = append(missing, "TRAVELPORT_USERNAME")
	}
	if c.Travelport.Password == "" {
		missing = append(missing, "TRAVELPORT_PASSWORD")
	}
	if c.Travelport.TargetBranch == "" {
		missing = append(missing, "TRAVELPORT_TARGET_BRANCH")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
