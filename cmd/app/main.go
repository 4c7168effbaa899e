// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"telegram-vip-subscription/internal/application"
	"telegram-vip-subscription/internal/config"
	"telegram-vip-subscription/internal/domain/model"
	"telegram-vip-subscription/internal/domain/ports/adapter"
	pg "telegram-vip-subscription/internal/infra/db/postgres"
	"telegram-vip-subscription/internal/infra/logging"
	"telegram-vip-subscription/internal/infra/metrics"
	red "telegram-vip-subscription/internal/infra/redis"
	"telegram-vip-subscription/internal/infra/sched"
	tele "telegram-vip-subscription/internal/infra/telegram"
	"telegram-vip-subscription/internal/infra/web"
	"telegram-vip-subscription/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// .env is optional; real deployments use config.yaml plus environment.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.Connect(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()
	tm := pg.NewTxManager(pool)

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connect failed")
	}
	defer redisClient.Close()
	locker := red.NewLocker(redisClient)
	settingsRepo := red.NewSettingsRepo(redisClient, model.Settings{
		Quiet:     cfg.Toggles.Quiet,
		RoleSync:  cfg.Toggles.RoleSync,
		AutoCheck: cfg.Toggles.AutoCheck,
	})

	// ---- Repositories ----
	userRepo := pg.NewUserRepo(pool)
	durationRepo := pg.NewDurationRepo(pool)
	subRepo := pg.NewSubscriptionRepo(pool)
	codeRepo := pg.NewUniqueCodeRepo(pool)
	redeemedRepo := pg.NewRedeemedCodeRepo(pool)
	grantRepo := pg.NewGrantRepo(pool)
	revokeRepo := pg.NewRevokeRepo(pool)
	trialRepo := pg.NewTrialTimerRepo(pool)

	// ---- Use cases ----
	userUC := usecase.NewUserUseCase(userRepo, logger)
	durationUC := usecase.NewDurationUseCase(durationRepo)
	subUC := usecase.NewSubscriptionUseCase(subRepo, grantRepo, revokeRepo, tm, logger)
	codeUC := usecase.NewCodeUseCase(codeRepo, redeemedRepo, subRepo, grantRepo, durationRepo, tm, cfg.Reconcile.CodeTTL, logger)
	settingsUC := usecase.NewSettingsUseCase(settingsRepo, logger)

	// ---- Chat adapter ----
	// Without a token (dev mode only) commands are unreachable, but workers
	// and the admin API still run against the noop adapter.
	var chat adapter.ChatAdapter
	var realBot *tele.RealTelegramBotAdapter
	if cfg.Bot.Token == "" {
		logger.Warn().Msg("no bot token configured, using the noop chat adapter")
		chat = tele.NewNoopBotAdapter()
	} else {
		realBot, err = tele.NewRealTelegramBotAdapter(&cfg.Bot, userUC, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("telegram init failed")
		}
		chat = realBot
	}

	notifier := usecase.NewNotifier(chat, settingsRepo, cfg.Bot.AdminIDs, logger)
	adminUC := usecase.NewAdminUseCase(userUC, subUC, chat, logger)
	reconcileUC := usecase.NewReconcileUseCase(userRepo, subUC, settingsRepo, chat, notifier, locker, cfg.Reconcile.ExpiryWarn, logger)
	trialUC := usecase.NewTrialUseCase(userUC, trialRepo, subUC, chat, notifier, cfg.Reconcile.TrialWindow, logger)

	facade := application.NewBotFacade(userUC, durationUC, subUC, codeUC, adminUC, settingsUC, reconcileUC, notifier, chat, logger)
	if realBot != nil {
		realBot.SetFacade(facade)
		realBot.SetTrialUseCase(trialUC)

		if strings.ToLower(cfg.Bot.Mode) != "polling" && cfg.Bot.Mode != "" {
			logger.Warn().Str("mode", cfg.Bot.Mode).Msg("bot mode not implemented, falling back to polling")
		}
		go func() {
			if err := realBot.StartPolling(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error().Err(err).Msg("telegram polling stopped")
			}
		}()
	}

	// ---- Background workers ----
	reconcileWorker := sched.NewReconcileWorker(cfg.Reconcile.Interval, reconcileUC, settingsUC, logger)
	go func() { _ = reconcileWorker.Run(ctx) }()

	if cfg.Bot.CommunityChatID != 0 {
		trialWorker := sched.NewTrialWorker(cfg.Reconcile.TrialSweep, trialUC, logger)
		go func() { _ = trialWorker.Run(ctx) }()
	}

	// ---- Admin HTTP API ----
	auth := web.NewAuthManager(cfg.Admin.JWTSecret, !cfg.Runtime.Dev, "", 12*time.Hour)
	adminSrv := web.NewServer(userUC, subUC, settingsUC, auth, cfg.Admin.APIKey, logger)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Admin.Port),
		Handler:           adminSrv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("admin api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("admin api server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("admin api shutdown failed")
	}
}
