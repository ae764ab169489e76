package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-logr/logr"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ArowuTest/ctrdrbg/internal/drbg"
	"github.com/ArowuTest/ctrdrbg/internal/rng"
)

// Seed sources accepted in SEED_SOURCE.
const (
	SeedSystem     = "system"
	SeedStdin      = "stdin"
	SeedPassphrase = "passphrase"
	SeedHTTP       = "http"
)

// AppConfig holds all environment variables.
type AppConfig struct {
	Port       string
	DBHost     string
	DBPort     string
	DBUser     string
	DBName     string
	DBPassword string
	DBSSLMode  string
	JWTSecret  string

	SeedSource     string
	SeedPassphrase string
	SeedURL        string

	ReseedInterval  uint64
	MaxRequestBytes int
	LogVerbosity    int

	AdminUsername string
	AdminPassword string
}

// UseDB reports whether a postgres database is configured.
func (c *AppConfig) UseDB() bool { return c.DBHost != "" }

// Load reads environment variables (and .env if present) and validates them.
// Every problem found is reported in the returned error.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	var errs *multierror.Error
	cfg := &AppConfig{
		Port:           getenv("PORT", "8080"),
		DBHost:         os.Getenv("DB_HOST"),
		DBPort:         getenv("DB_PORT", "5432"),
		DBUser:         os.Getenv("DB_USER"),
		DBName:         os.Getenv("DB_NAME"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBSSLMode:      getenv("DB_SSLMODE", "disable"),
		JWTSecret:      os.Getenv("JWT_SECRET_KEY"),
		SeedSource:     getenv("SEED_SOURCE", SeedSystem),
		SeedPassphrase: os.Getenv("SEED_PASSPHRASE"),
		SeedURL:        os.Getenv("SEED_URL"),
		AdminUsername:  os.Getenv("ADMIN_USERNAME"),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
	}

	var err error
	if cfg.ReseedInterval, err = strconv.ParseUint(getenv("RESEED_INTERVAL", strconv.Itoa(drbg.DefaultReseedInterval)), 10, 64); err != nil || cfg.ReseedInterval == 0 {
		errs = multierror.Append(errs, fmt.Errorf("RESEED_INTERVAL must be a positive integer"))
	}
	if cfg.MaxRequestBytes, err = strconv.Atoi(getenv("MAX_REQUEST_BYTES", strconv.Itoa(rng.MaxBytesPerRequest))); err != nil || cfg.MaxRequestBytes < 1 || cfg.MaxRequestBytes > rng.MaxBytesPerRequest {
		errs = multierror.Append(errs, fmt.Errorf("MAX_REQUEST_BYTES must be between 1 and %d", rng.MaxBytesPerRequest))
	}
	if cfg.LogVerbosity, err = strconv.Atoi(getenv("LOG_VERBOSITY", "0")); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("LOG_VERBOSITY must be an integer"))
	}

	if cfg.JWTSecret == "" {
		errs = multierror.Append(errs, errors.New("JWT_SECRET_KEY is required"))
	}
	switch cfg.SeedSource {
	case SeedSystem, SeedStdin:
	case SeedPassphrase:
		if cfg.SeedPassphrase == "" {
			errs = multierror.Append(errs, errors.New("SEED_PASSPHRASE is required for the passphrase seed source"))
		}
	case SeedHTTP:
		if cfg.SeedURL == "" {
			errs = multierror.Append(errs, errors.New("SEED_URL is required for the http seed source"))
		}
	default:
		errs = multierror.Append(errs, fmt.Errorf("unknown SEED_SOURCE %q", cfg.SeedSource))
	}
	if (cfg.AdminUsername == "") != (cfg.AdminPassword == "") {
		errs = multierror.Append(errs, errors.New("ADMIN_USERNAME and ADMIN_PASSWORD must be set together"))
	}
	if cfg.UseDB() && (cfg.DBUser == "" || cfg.DBName == "") {
		errs = multierror.Append(errs, errors.New("DB_USER and DB_NAME are required when DB_HOST is set"))
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// DSN returns the postgres connection string.
func (c *AppConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}

// logWriter feeds gorm's logger into logr at debug verbosity.
type logWriter struct{ l logr.Logger }

func (w logWriter) Printf(format string, args ...interface{}) {
	w.l.V(1).Info(fmt.Sprintf(format, args...))
}

// InitDB opens the postgres database with query logging routed to l.
func InitDB(c *AppConfig, l logr.Logger) (*gorm.DB, error) {
	gormLogger := logger.New(
		logWriter{l: l},
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(c.DSN()), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	return db, nil
}
