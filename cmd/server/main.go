package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/job-application-tracker/internal/config"
	"github.com/iliyamo/job-application-tracker/internal/database"
	"github.com/iliyamo/job-application-tracker/internal/handler"
	"github.com/iliyamo/job-application-tracker/internal/model"
	"github.com/iliyamo/job-application-tracker/internal/queue"
	"github.com/iliyamo/job-application-tracker/internal/repository"
	"github.com/iliyamo/job-application-tracker/internal/router"
	"github.com/iliyamo/job-application-tracker/internal/utils"
)

func main() {
	// Load .env when present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("schema: %v", err)
	}

	users := repository.NewUserRepo(db)
	if err := bootstrapAdmin(ctx, cfg, users); err != nil {
		log.Fatalf("admin bootstrap: %v", err)
	}

	// Redis backs the credential rate limiter; nil disables it.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, credential rate limiting disabled")
	}

	// Background worker that delivers issued recovery codes.
	go func() {
		if err := queue.StartRecoveryCodeConsumer(); err != nil {
			log.Printf("recovery consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users), handler.NewRecoveryHandler(cfg, users), cfg, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// bootstrapAdmin ensures the configured admin account exists. It runs on
// every start and treats "already there" as success, so the same
// environment can be deployed repeatedly. When no admin credentials are
// configured it does nothing.
func bootstrapAdmin(ctx context.Context, cfg config.Config, users repository.UserStore) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil
	}
	hash, err := utils.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
	if err != nil {
		return err
	}
	_, err = users.Create(ctx, cfg.AdminUsername, "", hash, model.RoleAdmin)
	if errors.Is(err, repository.ErrUserExists) {
		return nil
	}
	return err
}
