package main

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/duynhne/account-service/config"
	database "github.com/duynhne/account-service/internal/core"
	"github.com/duynhne/account-service/internal/core/domain"
	"github.com/duynhne/account-service/internal/core/repository/psql"
	"github.com/duynhne/account-service/internal/core/repository/sqlite"
	logicv1 "github.com/duynhne/account-service/internal/logic/v1"
)

// openRepository opens the backend selected by DB_DRIVER.
func openRepository(ctx context.Context, cfg *config.Config) (domain.UserRepository, error) {
	switch strings.ToLower(cfg.Storage.Driver) {
	case "sqlite":
		repo, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite repository: %w", err)
		}
		return repo, nil
	case "postgres":
		pool, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		return psql.NewUserRepository(pool, pool.Close), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Storage.Driver)
	}
}

// seedDemoUser creates the demo account used by the unauthenticated
// fallback when SEED_DEMO_USER is set.
func seedDemoUser(ctx context.Context, cfg *config.Config, svc *logicv1.AccountService, logger *zap.Logger) error {
	if !cfg.Web.SeedDemoUser {
		return nil
	}
	created, err := svc.SeedUser(ctx, domain.User{
		ID:        cfg.Web.DemoUserID,
		Username:  "demo",
		Email:     "demo@example.com",
		FirstName: "Demo",
		LastName:  "User",
	})
	if err != nil {
		return err
	}
	logger.Info("Demo user seeded", zap.String("user_id", cfg.Web.DemoUserID), zap.Bool("created", created))
	return nil
}
