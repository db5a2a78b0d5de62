package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	appcfg "github.com/castlebot/chess-escrow/internal/config"
	"github.com/castlebot/chess-escrow/internal/escrow"
	"github.com/castlebot/chess-escrow/internal/match"
	"github.com/castlebot/chess-escrow/internal/obslog"
	"github.com/castlebot/chess-escrow/internal/server"
	"github.com/castlebot/chess-escrow/internal/store"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.Init(obslog.Options{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		File:    cfg.LogFile,
		Console: cfg.LogConsole,
	}); err != nil {
		log.Fatalf("logger init error: %v", err)
	}

	// Record store: Redis when configured, in-memory otherwise.
	var st store.Store
	if cfg.RedisURL != "" {
		st, err = store.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("store init error: %v", err)
		}
		obslog.L().Info("store_redis", zap.String("url", cfg.RedisURL))
	} else {
		st = store.NewMemory()
		obslog.L().Warn("store_memory", zap.String("reason", "REDIS_URL not set; records do not survive restarts"))
	}
	defer st.Close()

	ledger := escrow.NewLedger(cfg.Denom, escrow.NewMemoryBank())
	mgr := match.NewManager(st, ledger)

	// Optional settlement archive.
	if cfg.DatabaseURL != "" {
		repo, err := match.NewRepository(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("archive init error: %v", err)
		}
		defer repo.Close()
		mgr.AttachRepository(repo)
		obslog.L().Info("archive_enabled")
	}

	srv := server.New(mgr)
	errCh := make(chan error, 1)
	go func() {
		obslog.L().Info("listening", zap.String("addr", cfg.ListenAddr), zap.String("denom", cfg.Denom))
		errCh <- srv.ListenAndServe(cfg.ListenAddr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		obslog.L().Info("shutdown", zap.String("signal", sig.String()))
		if err := srv.Shutdown(); err != nil {
			obslog.L().Error("shutdown_error", zap.Error(err))
		}
	case err := <-errCh:
		if err != nil {
			obslog.L().Fatal("serve_error", zap.Error(err))
		}
	}
}
