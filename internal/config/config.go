package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultUserID is the fixed "current user". The data model carries user ids
// throughout, but this build serves exactly one local user.
const DefaultUserID = "local"

type Config struct {
	Port    string
	DataDir string
	UserID  string
	Debug   bool

	// DatabaseURL switches the store from the file driver to Postgres.
	DatabaseURL string

	// KafkaBrokers switches audit publishing from console to Kafka.
	KafkaBrokers []string
}

func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:        envOr("COFFEERUN_PORT", "9000"),
		DataDir:     envOr("COFFEERUN_DATA_DIR", "data"),
		UserID:      envOr("COFFEERUN_USER", DefaultUserID),
		Debug:       os.Getenv("COFFEERUN_DEBUG") == "true",
		DatabaseURL: os.Getenv("DATABASE_URL"),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
