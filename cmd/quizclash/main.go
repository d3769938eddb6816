package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"quizclash/internal/catalog"
	"quizclash/internal/config"
	"quizclash/internal/match"
	"quizclash/internal/score"
	"quizclash/internal/unlock"
	"quizclash/internal/web"
	"quizclash/internal/ws"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	cat := catalog.Default()

	var unlocks match.UnlockSource
	var scores match.ScoreSink
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		unlocks = unlock.NewRedisStore(rdb)
		sink := score.NewRedisSink(rdb, logger)
		defer sink.Close()
		scores = sink
		logger.Info("redis connected", zap.String("addr", cfg.RedisAddr))
	} else {
		logger.Info("no redis configured, all cards unlocked")
	}

	hub := ws.NewHub(logger)

	m, err := match.New(match.Config{
		Catalog:      cat,
		Broadcaster:  hub,
		Unlocks:      unlocks,
		Scores:       scores,
		Logger:       logger,
		RoundSeconds: cfg.RoundSeconds,
		StartingGold: cfg.StartingGold,
	})
	if err != nil {
		return err
	}
	m.AddTeam("Red")
	m.AddTeam("Blue")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go m.Run(ctx)

	wsSrv := ws.NewServer(hub, m, logger)
	adminSrv := web.NewServer(m, cat, logger)

	errCh := make(chan error, 2)
	go func() {
		logger.Info("game server listening", zap.String("addr", cfg.Addr))
		errCh <- http.ListenAndServe(cfg.Addr, wsSrv)
	}()
	go func() {
		logger.Info("admin API listening", zap.String("addr", cfg.AdminAddr))
		errCh <- http.ListenAndServe(cfg.AdminAddr, adminSrv)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		return nil
	case err := <-errCh:
		return err
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}
