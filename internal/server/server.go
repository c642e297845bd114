// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/oliverandrich/account-service/internal/config"
	"codeberg.org/oliverandrich/account-service/internal/database"
	"codeberg.org/oliverandrich/account-service/internal/handlers"
	"codeberg.org/oliverandrich/account-service/internal/i18n"
	"codeberg.org/oliverandrich/account-service/internal/repository"
	"codeberg.org/oliverandrich/account-service/internal/services/account"
	"codeberg.org/oliverandrich/account-service/internal/services/email"
	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"
)

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
	)

	// Database and migrations
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	// i18n
	if initErr := i18n.Init(); initErr != nil {
		return fmt.Errorf("failed to init i18n: %w", initErr)
	}

	// Mail
	mailer, err := newMailer(ctx, &cfg.SMTP)
	if err != nil {
		return fmt.Errorf("failed to configure mail: %w", err)
	}

	// Services
	repo := repository.New(db)
	accounts := account.NewService(repo, mailer, account.Options{
		BaseURL:         cfg.Server.BaseURL,
		VerificationTTL: cfg.Tickets.VerificationTTL,
		ResetTTL:        cfg.Tickets.ResetTTL,
		Hasher:          account.NewBcryptHasher(cfg.Tickets.BcryptCost),
	})

	e := New(cfg, handlers.New(accounts, db))

	return startWithGracefulShutdown(ctx, e, cfg)
}

// New builds the Echo instance with middleware and routes.
func New(cfg *config.Config, h *handlers.Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	setupMiddleware(e, cfg)
	setupRoutes(e, h)

	return e
}

func setupRoutes(e *echo.Echo, h *handlers.Handlers) {
	e.GET("/health", h.Health)

	user := e.Group("/user")
	user.POST("/signup", h.Signup)
	user.GET("/verify/:userId/:uniqueString", h.Verify)
	user.GET("/verified", h.Verified)
	user.POST("/signin", h.SignIn)
	user.POST("/requestPasswordReset", h.RequestPasswordReset)
	user.POST("/resetPassword", h.ResetPassword)
}

// newMailer returns an SMTP mailer, or a logging one if no SMTP host is configured.
// An unreachable SMTP server is logged but does not prevent startup.
func newMailer(ctx context.Context, cfg *config.SMTPConfig) (account.Mailer, error) {
	if cfg.Host == "" {
		slog.Warn("smtp_not_configured", "hint", "mail is written to the log")
		return email.NewLogMailer(slog.Default()), nil
	}

	mailer, err := email.NewSMTPMailer(cfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := mailer.Ping(pingCtx); err != nil {
		slog.Error("smtp_unreachable", "host", cfg.Host, "port", cfg.Port, "error", err)
	} else {
		slog.Info("smtp_ready", "host", cfg.Host, "port", cfg.Port)
	}

	return mailer, nil
}

func startWithGracefulShutdown(ctx context.Context, e *echo.Echo, cfg *config.Config) error {
	// Channel for server errors
	errChan := make(chan error, 1)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		slog.Info("Server running", "url", cfg.Server.BaseURL)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	// Wait for interrupt signal, cancellation or error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		slog.Info("shutting down server")
	case <-ctx.Done():
		slog.Info("shutting down server", "reason", ctx.Err())
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	slog.Info("server stopped")
	return nil
}
