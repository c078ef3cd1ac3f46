package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Database types
const (
	DatabaseMongo    = "mongo"
	DatabasePostgres = "postgres"
	DatabaseSQLite   = "sqlite"
)

const (
	defaultPort         = 5000
	defaultDatabaseURL  = "mongodb://localhost:27017/formbuilder"
	defaultClientOrigin = "http://localhost:3000"
	defaultTokenSecret  = "quickly-form-dev-secret"
	defaultTokenTTL     = 30 * 24 * time.Hour
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	ClientOrigin string
	TokenSecret  string
	TokenTTL     time.Duration
}

// ParseFlags reads flags, then environment variables (after loading .env if
// present), then falls back to defaults for anything still unset
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("quickly-form", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (mongo, postgres or sqlite)")
	fs.StringVar(&cfg.ClientOrigin, "origin", "", "Allowed cross-origin caller")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.TokenSecret, "token-secret", "", "Session token signing secret (prefer env)")
	fs.DurationVar(&cfg.TokenTTL, "token-ttl", 0, "Session token lifetime")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Missing .env is fine; variables already in the environment win
	_ = godotenv.Load()

	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = defaultPort
		}
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = envOr("DATABASE_URL", defaultDatabaseURL)
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = databaseTypeFromURL(cfg.DatabaseURL)
		}
	}
	switch cfg.DatabaseType {
	case DatabaseMongo, DatabasePostgres, DatabaseSQLite:
	default:
		return Config{}, errors.New("database type must be one of: mongo, postgres, sqlite")
	}

	if cfg.ClientOrigin == "" {
		cfg.ClientOrigin = envOr("CLIENT_ORIGIN", defaultClientOrigin)
	}

	if cfg.TokenSecret == "" {
		cfg.TokenSecret = envOr("TOKEN_SECRET", defaultTokenSecret)
	}

	if cfg.TokenTTL == 0 {
		if ttlStr := os.Getenv("TOKEN_TTL"); ttlStr != "" {
			ttl, err := time.ParseDuration(ttlStr)
			if err != nil {
				return Config{}, errors.New("invalid TOKEN_TTL env variable")
			}
			cfg.TokenTTL = ttl
		} else {
			cfg.TokenTTL = defaultTokenTTL
		}
	}
	if cfg.TokenTTL <= 0 {
		return Config{}, errors.New("token TTL must be positive")
	}

	return cfg, nil
}

// UsesDefaultTokenSecret reports whether tokens are signed with the built-in
// development secret, which anyone can use to forge tokens
func (c Config) UsesDefaultTokenSecret() bool {
	return c.TokenSecret == defaultTokenSecret
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// databaseTypeFromURL guesses the backend from the connection string scheme
func databaseTypeFromURL(url string) string {
	switch {
	case strings.HasPrefix(url, "mongodb://"), strings.HasPrefix(url, "mongodb+srv://"):
		return DatabaseMongo
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DatabasePostgres
	default:
		return DatabaseSQLite
	}
}
