package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"greensteps/internal/auth"
	"greensteps/internal/config"
	"greensteps/internal/dashboard"
	"greensteps/internal/db"
	"greensteps/internal/email"
	"greensteps/internal/logger"
	"greensteps/internal/reward"
	"greensteps/internal/server"
	"greensteps/internal/tips"
	"greensteps/internal/user"
	"greensteps/internal/waste"
)

// @title GreenSteps API
// @version 1.0
// @description Waste tracking with reward points, dashboards and reduction tips.
// @host localhost:5000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel)
	defer logger.Sync()
	logger.Info("Starting GreenSteps application", "port", cfg.Port)

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Redis unreachable, e-mails will fail to queue", "addr", cfg.RedisAddr, "error", err)
	}
	pingCancel()

	emailService := email.New(rdb, email.Settings{
		From:     cfg.EmailFrom,
		FromName: cfg.EmailFromName,
		SMTPHost: cfg.SMTPHost,
		SMTPPort: cfg.SMTPPort,
		SMTPUser: cfg.SMTPUser,
		SMTPPass: cfg.SMTPPass,
	})
	defer emailService.Close()

	tokens, err := auth.NewTokenManager(cfg.JWTSecret)
	if err != nil {
		logger.Fatalf("Failed to create token manager: %v", err)
	}

	userRepo := user.NewRepository(database)
	wasteRepo := waste.NewRepository(database)

	ledger := reward.NewLedger(database, cfg.LedgerDeltaColumn, cfg.LedgerHistoryEnabled)
	rewardService := reward.NewService(
		reward.NewRepository(database, ledger),
		email.NewBadgeNotifier(userRepo, emailService),
	)
	userService := user.NewService(userRepo, tokens, rewardService, emailService)
	wasteService := waste.NewService(wasteRepo, rewardService)
	dashboardService := dashboard.NewService(dashboard.NewRepository(database), rewardService, wasteService)

	var advisor tips.Advisor
	if cfg.AdvisorEnabled() {
		advisor = tips.NewOpenAIAdvisor(tips.AdvisorConfig{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
			Timeout: cfg.AdvisorTimeout,
		})
		logger.Info("Tip advisor enabled", "model", cfg.OpenAIModel)
	}
	tipService := tips.NewService(wasteRepo, advisor, tips.NewCache(cfg.TipTTL, tips.SystemClock))

	srv := server.New(cfg, server.Deps{
		Tokens: tokens,
		DB:     database,
		Emails: emailService,
	}, server.Handlers{
		Users:     user.NewHandler(userService),
		Waste:     waste.NewHandler(wasteService),
		Rewards:   reward.NewHandler(rewardService),
		Dashboard: dashboard.NewHandler(dashboardService),
		Tips:      tips.NewHandler(tipService),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go emailService.Start(ctx)

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Error during server shutdown")
	}

	logger.Info("Server stopped")
}
