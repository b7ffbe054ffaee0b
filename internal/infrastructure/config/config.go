package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration

	// Question database
	DBPath         string // working copy, e.g. "quizdeck.db"
	DBTemplatePath string // bundled database copied on first run
	DBForceRefresh bool   // discard the working copy on startup

	// Session defaults for multi-subject decks
	DefaultSampleSize  int
	DefaultRepeatCount int

	// CORS
	AllowedOrigins []string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	repeat := getenvInt("DEFAULT_REPEAT_COUNT", 5)
	if repeat < 1 {
		repeat = 1
	}

	return &Config{
		ServerAddress:      mustGetenv("SERVER_ADDRESS"),
		ShutdownTimeout:    mustGetDuration("SHUTDOWN_TIMEOUT"),
		DBPath:             getenvDefault("DB_PATH", "quizdeck.db"),
		DBTemplatePath:     getenvDefault("DB_TEMPLATE_PATH", "assets/haha.db"),
		DBForceRefresh:     getenvBool("DB_FORCE_REFRESH", false),
		DefaultSampleSize:  getenvInt("DEFAULT_SAMPLE_SIZE", 20),
		DefaultRepeatCount: repeat,
		AllowedOrigins:     []string{getenvDefault("CORS_ALLOWED_ORIGIN", "*")},
	}
}

func mustGetenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	return v
}

func mustGetDuration(k string) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getenvInt(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid integer: %v", k, v, err)
	}
	return n
}

func getenvBool(k string, fallback bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid boolean: %v", k, v, err)
	}
	return b
}
