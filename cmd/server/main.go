package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"ripple/config"
	channelRepository "ripple/internal/channel/repository"
	channelUsecase "ripple/internal/channel/usecase"
	"ripple/internal/database"
	"ripple/internal/handler"
	identityRepository "ripple/internal/identity/repository"
	identityUsecase "ripple/internal/identity/usecase"
	"ripple/internal/reaper"
	"ripple/internal/router"
	"ripple/pkg/logger"
)

func main() {
	v, err := config.LoadConfig("config")
	if err != nil {
		panic(err)
	}
	cfg, err := config.ParseConfig(v)
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(cfg)
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg.Bun.DSN)
	if err != nil {
		log.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.CreateSchema(ctx, db); err != nil {
		log.Error("failed to create schema", "err", err)
		os.Exit(1)
	}

	userRepo := identityRepository.NewUserRepository(db, log)
	channelRepo := channelRepository.NewChannelRepository(db, log)

	userUC := identityUsecase.NewUserUsecase(userRepo, log, cfg)
	channelUC := channelUsecase.NewChannelUsecase(channelRepo, userRepo, log)

	sweeper := reaper.New(channelRepo, userRepo, log, reaper.Options{
		Interval:         cfg.Reaper.Interval,
		ChannelIdleAfter: cfg.Reaper.ChannelIdleAfter,
		UserRetention:    cfg.Reaper.UserRetention,
	})
	sweeper.Start()
	defer sweeper.Stop()

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e,
		handler.NewUserHandler(userUC),
		handler.NewChannelHandler(channelUC),
	)

	go func() {
		addr := ":" + cfg.Server.Port
		log.Info("listening", "addr", addr, "env", cfg.Server.Environment)
		if err := e.Start(addr); err != nil {
			log.Error("server stopped", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", "err", err)
	}
}
