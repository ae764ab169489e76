package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/go-logr/logr"

	"github.com/ArowuTest/ctrdrbg/internal/auth"
	"github.com/ArowuTest/ctrdrbg/internal/config"
	"github.com/ArowuTest/ctrdrbg/internal/entropy"
	"github.com/ArowuTest/ctrdrbg/internal/handlers"
	"github.com/ArowuTest/ctrdrbg/internal/log"
	"github.com/ArowuTest/ctrdrbg/internal/models"
	"github.com/ArowuTest/ctrdrbg/internal/rng"
	"github.com/ArowuTest/ctrdrbg/internal/store"
)

func main() {
	appCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration:\n%v\n", err)
		os.Exit(2)
	}
	logger := log.GetLogger(appCfg.LogVerbosity)

	if err := run(appCfg, logger); err != nil {
		logger.Error(err, "server stopped")
		os.Exit(1)
	}
}

func run(appCfg *config.AppConfig, logger logr.Logger) error {
	ctx := log.ContextWithLogger(context.Background(), logger)

	st, err := openStore(appCfg, logger)
	if err != nil {
		return err
	}

	if appCfg.AdminUsername != "" {
		created, err := handlers.Bootstrap(ctx, st, appCfg.AdminUsername, appCfg.AdminPassword)
		if err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
		if created {
			logger.Info("created bootstrap admin", "username", appCfg.AdminUsername)
		}
	}

	src, err := seedSource(appCfg)
	if err != nil {
		return err
	}
	gen, err := rng.New(ctx, src,
		rng.WithLogger(logger.WithName("rng")),
		rng.WithReseedInterval(appCfg.ReseedInterval),
		rng.WithOnReseed(handlers.ReseedRecorder(st)),
	)
	if err != nil {
		return fmt.Errorf("instantiate generator: %w", err)
	}
	defer gen.Close()

	iss, err := auth.New(appCfg.JWTSecret, 0)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), handlers.RequestLogger(logger))
	handlers.New(st, gen, iss, appCfg.MaxRequestBytes).Register(r)

	logger.Info("listening", "port", appCfg.Port, "generator", gen.ID(), "seedSource", appCfg.SeedSource)
	return r.Run(":" + appCfg.Port)
}

func openStore(appCfg *config.AppConfig, logger logr.Logger) (store.Store, error) {
	if !appCfg.UseDB() {
		logger.Info("DB_HOST not set, keeping operators and audit in memory")
		return store.NewMemory(), nil
	}
	db, err := config.InitDB(appCfg, logger.WithName("gorm"))
	if err != nil {
		return nil, err
	}
	if err := models.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return store.NewGorm(db), nil
}

func seedSource(appCfg *config.AppConfig) (entropy.Source, error) {
	switch appCfg.SeedSource {
	case config.SeedStdin:
		return entropy.NewStream(os.Stdin), nil
	case config.SeedPassphrase:
		return entropy.NewPassphrase(appCfg.SeedPassphrase, nil)
	case config.SeedHTTP:
		return entropy.NewHTTP(appCfg.SeedURL, nil)
	}
	return entropy.System(), nil
}
