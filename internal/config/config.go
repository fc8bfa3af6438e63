package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	// DBDSN is the Postgres DSN, e.g.
	// "host=localhost user=vistoria dbname=vistoria port=5432".
	DBDSN         string
	ServerPort    string
	SessionSecret string
}

// Load reads the environment, with a .env file as fallback for local
// development. The admin seed credentials (ADMIN_EMAIL/ADMIN_PASSWORD)
// are read separately by the database package.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBDSN:         os.Getenv("DB_DSN"),
		ServerPort:    os.Getenv("SERVER_PORT"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
	}

	if cfg.DBDSN == "" {
		log.Fatal("DB_DSN is not set")
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.SessionSecret == "" {
		log.Fatal("SESSION_SECRET is not set")
	}

	return cfg
}
