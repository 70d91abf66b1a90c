package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Catalog modes decide how an order line identifies what was bought.
const (
	CatalogSnapshot  = "snapshot"
	CatalogReference = "reference"
)

// Total policies decide whether a declared order total is trusted or checked.
const (
	TotalTrust  = "trust"
	TotalVerify = "verify"
)

type Config struct {
	DBHost            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBPort            string
	DBSSLMode         string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	AppPort string
	AppEnv  string

	AdminKey     string
	AdminKeyHash string
	JWTSecret    string

	UploadDir      string
	CatalogMode    string
	TotalPolicy    string
	RequestTimeout time.Duration
	CORSOrigin     string

	RateLimitRPS   float64
	RateLimitBurst int
}

// LoadConfig loads .env (if present) and the environment, exiting on invalid values.
func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg, err := Load()
	if err != nil {
		log.Fatalf("Environment variables not loaded properly: %v", err)
	}
	return cfg
}

// Load reads the configuration from the environment without touching .env files.
func Load() (*Config, error) {
	cfg := &Config{
		DBHost:       os.Getenv("DB_HOST"),
		DBUser:       os.Getenv("DB_USER"),
		DBPassword:   os.Getenv("DB_PASSWORD"),
		DBName:       os.Getenv("DB_NAME"),
		DBPort:       getEnv("DB_PORT", "5432"),
		DBSSLMode:    getEnv("DB_SSLMODE", "disable"),
		AppPort:      getEnv("APP_PORT", "8080"),
		AppEnv:       getEnv("APP_ENV", "development"),
		AdminKey:     os.Getenv("ADMIN_KEY"),
		AdminKeyHash: os.Getenv("ADMIN_KEY_HASH"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		UploadDir:    getEnv("UPLOAD_DIR", "uploads"),
		CatalogMode:  strings.ToLower(getEnv("CATALOG_MODE", CatalogSnapshot)),
		TotalPolicy:  strings.ToLower(getEnv("TOTAL_POLICY", TotalTrust)),
		CORSOrigin:   getEnv("CORS_ORIGIN", "*"),
	}

	if cfg.DBHost == "" {
		return nil, fmt.Errorf("DB_HOST must not be empty")
	}

	var err error
	if cfg.DBMaxOpenConns, err = getEnvInt("DB_MAX_OPEN_CONNS", 25); err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_OPEN_CONNS: %w", err)
	}
	if cfg.DBMaxIdleConns, err = getEnvInt("DB_MAX_IDLE_CONNS", 5); err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_IDLE_CONNS: %w", err)
	}

	lifetime, err := getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME_SEC: %w", err)
	}
	cfg.DBConnMaxLifetime = time.Duration(lifetime) * time.Second

	timeout, err := getEnvInt("REQUEST_TIMEOUT_SEC", 15)
	if err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT_SEC: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("REQUEST_TIMEOUT_SEC must be > 0")
	}
	cfg.RequestTimeout = time.Duration(timeout) * time.Second

	rps, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "10"), 64)
	if err != nil || rps <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS must be a positive number")
	}
	cfg.RateLimitRPS = rps

	if cfg.RateLimitBurst, err = getEnvInt("RATE_LIMIT_BURST", 20); err != nil || cfg.RateLimitBurst <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_BURST must be a positive integer")
	}

	switch cfg.CatalogMode {
	case CatalogSnapshot, CatalogReference:
	default:
		return nil, fmt.Errorf("unknown CATALOG_MODE %q (use %q or %q)", cfg.CatalogMode, CatalogSnapshot, CatalogReference)
	}

	switch cfg.TotalPolicy {
	case TotalTrust, TotalVerify:
	default:
		return nil, fmt.Errorf("unknown TOTAL_POLICY %q (use %q or %q)", cfg.TotalPolicy, TotalTrust, TotalVerify)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}
