package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homework_status_bot/internal/app"
	"homework_status_bot/internal/infra/config"
	"homework_status_bot/internal/infra/logger"
	"homework_status_bot/internal/infra/practicum"
	"homework_status_bot/internal/infra/scheduler"
	"homework_status_bot/internal/infra/telegram"
)

func main() {
	bootLogger := logger.NewBootstrap()

	cfg, err := config.Load()
	if err != nil {
		// Missing credentials are the only unconditionally fatal condition.
		bootLogger.WithError(err).Fatal("Отсутствует один или несколько токенов или конфигурация некорректна")
	}

	log, logCloser := logger.New(cfg, os.Stdout)
	defer logCloser.Close()

	log.Infof("Homework status bot starting. LogLevel: %s, Environment: %s, Schedule: %s", cfg.LogLevel, cfg.Environment, cfg.PollSchedule)

	schedule, err := cfg.Schedule()
	if err != nil {
		log.WithError(err).Fatal("Could not parse poll schedule")
	}

	bot, err := telegram.NewBot(cfg.TelegramToken)
	if err != nil {
		log.WithError(err).Fatal("Could not create Telegram bot")
	}
	notifier := app.NewNotifier(telegram.NewTelebotAdapter(bot), cfg.TelegramChatID, log)

	apiClient := practicum.NewClient(practicum.ClientConfig{
		Endpoint: cfg.PracticumEndpoint,
		Token:    cfg.PracticumToken,
		Timeout:  cfg.RequestTimeout,
	}, log)

	pollService := app.NewHomeworkPollService(apiClient, notifier, log, time.Now().Unix())
	pollScheduler := scheduler.NewPollScheduler(pollService, schedule, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pollScheduler.Start(ctx)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.WithField("signal", sig.String()).Info("Shutting down application...")
	pollScheduler.Stop()
	log.WithField("cursor", pollService.Cursor()).Info("Application shut down gracefully.")
}
