package main // Entry point package

import (
	"log/slog" // structured logging
	"os"       // exit codes and stdout

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/account-recovery/internal/config"
	"github.com/iliyamo/account-recovery/internal/database"
	"github.com/iliyamo/account-recovery/internal/handler"
	"github.com/iliyamo/account-recovery/internal/mailer"
	"github.com/iliyamo/account-recovery/internal/repository"
	"github.com/iliyamo/account-recovery/internal/router"
	"github.com/iliyamo/account-recovery/internal/service"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		slog.Error("database connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	mail := mailer.New(cfg)
	authSvc := service.NewAuthService(users, cfg)
	recoverySvc := service.NewRecoveryService(users, mail, cfg)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()

	h := handler.NewAuthHandler(authSvc, recoverySvc)
	router.RegisterRoutes(e)
	router.RegisterAuth(e, h, cfg.JWTSecret)

	addr := ":" + cfg.Port
	slog.Info("listening", "addr", addr, "env", cfg.Env)
	if err := e.Start(addr); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
