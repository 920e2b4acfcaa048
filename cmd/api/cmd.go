package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GregMSThompson/finance-tracker/internal/bootstrap"
	"github.com/GregMSThompson/finance-tracker/internal/config"
	"github.com/GregMSThompson/finance-tracker/internal/router"
	"github.com/GregMSThompson/finance-tracker/pkg/logger"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg, err := config.Load("")
	exitOnError("config load failed", err, slog.Default())
	bs, err := bootstrap.Run(cfg, logger.NewCloudRunHandler)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// dependancies
	deps, err := bootstrap.NewDeps(bs, cfg)
	exitOnError("service wiring failed", err, bs.Log)

	// router
	r := router.NewRouter(deps, bs.Log)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			bs.Log.Error("server shutdown failed", "error", err)
		}
	}()

	bs.Log.Info("server listening", "addr", srv.Addr)
	err = srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	exitOnError("server start failed", err, bs.Log)
}
