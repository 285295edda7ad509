package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"jobboard/app/internal/app/bootstrap"
	"jobboard/app/internal/config"
	"jobboard/app/internal/data/database"
	"jobboard/app/internal/domain/accounts"
	applog "jobboard/app/internal/platform/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	_ = godotenv.Load()

	flags := flag.NewFlagSet("seed-admin", flag.ContinueOnError)
	email := flags.String("email", os.Getenv("ADMIN_EMAIL"), "admin email address (ADMIN_EMAIL)")
	name := flags.String("name", envOr("ADMIN_NAME", "Admin"), "admin display name (ADMIN_NAME)")
	password := flags.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password (ADMIN_PASSWORD)")
	if err := flags.Parse(args); err != nil {
		return eris.Wrap(err, "parsing flags")
	}

	cfg, err := config.Load()
	if err != nil {
		return eris.Wrap(err, "failure loading configuration")
	}

	logger, err := applog.NewLogger(cfg.LogLevel)
	if err != nil {
		return eris.Wrap(err, "failure initialising logger")
	}

	db, err := bootstrap.OpenDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := database.Close(db); closeErr != nil {
			logger.WithError(closeErr).Error("closing database")
		}
	}()

	service, err := bootstrap.NewAccountService(db, cfg, logger, nil)
	if err != nil {
		return err
	}

	user, created, err := service.EnsureAdmin(ctx, accounts.RegisterInput{
		Email:    *email,
		Name:     *name,
		Password: *password,
	})
	if err != nil {
		return eris.Wrap(err, "ensuring admin user")
	}

	logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
		"created": created,
	}).Info("admin user ready")
	return nil
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
