package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/tegha-romeo/auth-api/docs"
	"github.com/tegha-romeo/auth-api/internal/api"
	"github.com/tegha-romeo/auth-api/internal/core/ports"
	"github.com/tegha-romeo/auth-api/internal/core/service"
	"github.com/tegha-romeo/auth-api/internal/infrastructure/config"
	mongostore "github.com/tegha-romeo/auth-api/internal/infrastructure/db/mongo"
	"github.com/tegha-romeo/auth-api/internal/infrastructure/db/postgres"
	"github.com/tegha-romeo/auth-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title                       Auth API
// @version                     1.0
// @description                 Email/password authentication with short-lived bearer tokens.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the token.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "auth-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	users, closeStore, err := openStore(ctx, cfg, logger.Component("store"))
	if err != nil {
		return err
	}
	defer closeStore()

	tokens, err := service.NewTokenService([]byte(cfg.JWTSecret))
	if err != nil {
		return err
	}
	hasher := service.NewBcryptHasher(cfg.BcryptCost)
	auth := service.NewAuthService(users, hasher, tokens, cfg.Store.Timeout, logger.Component("auth"))

	if err := auth.EnsureAdmin(ctx, ports.AdminSeed{
		Firstname: cfg.Admin.Firstname,
		Lastname:  cfg.Admin.Lastname,
		Email:     cfg.Admin.Email,
		Password:  cfg.Admin.Password,
	}); err != nil {
		return err
	}

	e := api.NewRouter(api.Deps{
		Auth:         auth,
		Tokens:       tokens,
		Users:        users,
		Log:          logger.Component("http"),
		StoreTimeout: cfg.Store.Timeout,
		FrontendURL:  cfg.FrontendURL,
		EnforceRoles: cfg.EnforceRoles,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.Store.Driver).Bool("enforce_roles", cfg.EnforceRoles).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.UserStore, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Store.MongoURI,
			Database: cfg.Store.MongoDatabase,
			MaxConns: uint64(cfg.Store.MaxConns),
		})
		if err != nil {
			return nil, nil, err
		}
		repo := mongostore.NewUserRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, fmt.Errorf("mongo indexes: %w", err)
		}
		log.Info().Str("database", cfg.Store.MongoDatabase).Msg("connected to mongodb")
		return repo, func() { _ = client.Disconnect(context.Background()) }, nil

	case config.DriverPostgres:
		db, err := postgres.Connect(ctx, postgres.Config{
			DSN:      cfg.Store.DatabaseURL,
			MaxConns: cfg.Store.MaxConns,
		})
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		log.Info().Msg("connected to postgres, migrations applied")
		return postgres.NewUserRepository(db), func() { _ = db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}
