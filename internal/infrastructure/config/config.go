package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath string

	// Session lifecycle
	SessionMaxAge time.Duration // sessions older than this are swept
	SweepInterval time.Duration // how often the sweeper runs

	// Engine tuning
	PoolSize int // candidate words sampled per session

	// Simulation
	SimUsers int // concurrent simulated quiz takers
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()
	return &Config{
		DBPath:        getenvDefault("DB_PATH", "lexidrill.db"),
		SessionMaxAge: getDurationDefault("SESSION_MAX_AGE", 2*time.Hour),
		SweepInterval: getDurationDefault("SWEEP_INTERVAL", 5*time.Minute),
		PoolSize:      getIntDefault("POOL_SIZE", 50),
		SimUsers:      getIntDefault("SIM_USERS", 8),
	}
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getDurationDefault(k string, fallback time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getIntDefault(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Fatalf("config: %s=%q is not a positive integer", k, v)
	}
	return n
}
