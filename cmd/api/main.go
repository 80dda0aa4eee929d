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

	"github.com/bl4ckarch/assetguard/internal/audit"
	"github.com/bl4ckarch/assetguard/internal/command"
	"github.com/bl4ckarch/assetguard/internal/config"
	"github.com/bl4ckarch/assetguard/internal/db"
	"github.com/bl4ckarch/assetguard/internal/executor"
	"github.com/bl4ckarch/assetguard/internal/handlers"
	"github.com/bl4ckarch/assetguard/internal/inputs"
	"github.com/bl4ckarch/assetguard/internal/registry"
	"github.com/bl4ckarch/assetguard/internal/scheduler"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg := config.Load()

	setupLogger(cfg)

	database, err := db.Open(cfg.DBFile)
	if err != nil {
		slog.Error("failed to open database", "path", cfg.DBFile, "error", err)
		os.Exit(1)
	}
	defer database.Close()

	auditLog := audit.New(database)

	seeded, err := db.Seed(database)
	if err != nil {
		slog.Error("failed to seed database", "error", err)
		os.Exit(1)
	}
	if seeded {
		auditLog.Append(context.Background(), "database_created", "database created and seeded with default tools")
		slog.Info("database seeded", "path", cfg.DBFile)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPass), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("failed to hash admin password", "error", err)
		os.Exit(1)
	}
	if cfg.Env == "prod" && cfg.AdminPass == "admin" {
		slog.Warn("admin password is the default; set ADMIN_PASS")
	}

	reg := registry.New(database, auditLog)
	store := command.NewStore(database, auditLog)
	preparer := inputs.NewPreparer(reg, cfg.WorkDir)

	// The pool's completion callback releases the scheduler's overlap claim,
	// and the scheduler submits to the pool. Declare first, assign after.
	var sched *scheduler.Scheduler
	pool := executor.NewPool(cfg.ExecWorkers, cfg.ExecQueueSize, cfg.OutputDir, auditLog,
		func(commandID int64) { sched.MarkDone(commandID) })
	sched = scheduler.New(database, store, reg, pool, preparer, auditLog, scheduler.Config{
		OutputDir:   cfg.OutputDir,
		ExecTimeout: cfg.ExecTimeout,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool.Start(ctx)
	go sched.Run(ctx)

	authHandler := &handlers.AuthHandler{
		AdminUser:     cfg.AdminUser,
		AdminPassHash: passHash,
		Secret:        []byte(cfg.JWTSecret),
		ExpireHours:   cfg.JWTExpireHours,
		Audit:         auditLog,
	}

	useTLS := cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""
	handler := newRouter(routerDeps{
		registry:  reg,
		commands:  store,
		scheduler: sched,
		audit:     auditLog,
		auth:      authHandler,
		hsts:      useTLS,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "port", cfg.Port, "tls", useTLS, "env", cfg.Env)
		if useTLS {
			errCh <- srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			errCh <- srv.ListenAndServe()
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}

	// Workers drain after the signal context cancels; in-flight tool runs
	// are killed by their CommandContext.
	pool.Wait()
	slog.Info("server stopped")
}

func setupLogger(cfg config.Config) {
	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.Env == "dev" {
		opts.Level = slog.LevelDebug
	}
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
