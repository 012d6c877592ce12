package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/lineup-backend/internal/catalog"
	"github.com/DoyleJ11/lineup-backend/internal/clock"
	"github.com/DoyleJ11/lineup-backend/internal/config"
	"github.com/DoyleJ11/lineup-backend/internal/httpapi"
	"github.com/DoyleJ11/lineup-backend/internal/hub"
	"github.com/DoyleJ11/lineup-backend/internal/logging"
	"github.com/DoyleJ11/lineup-backend/internal/persist"
	"github.com/DoyleJ11/lineup-backend/internal/saved"
	"github.com/DoyleJ11/lineup-backend/internal/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	gw, err := openGateway(cfg)
	if err != nil {
		return err
	}
	log.Info("storage ready", zap.String("driver", cfg.Storage.Driver), zap.Int("quotaBytes", cfg.Storage.QuotaBytes))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lib := saved.New(gw, clock.Real{})
	h := hub.NewHub(ctx, session.Deps{Gateway: gw, Catalog: cat, Library: lib, Logger: log})

	// Build the router *with* the hub injected
	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           httpapi.SetupRoutes(h, cat, lib, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		h.Inbox() <- hub.ShutdownHub{}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func loadCatalog(cfg *config.Config) (catalog.Catalog, error) {
	if cfg.App.FormationsFile == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(cfg.App.FormationsFile)
}

func openGateway(cfg *config.Config) (persist.Gateway, error) {
	switch cfg.Storage.Driver {
	case config.DriverFile:
		return persist.NewFile(cfg.Storage.DataDir, int64(cfg.Storage.QuotaBytes))
	case config.DriverPostgres:
		db, err := config.ConnectDB(cfg)
		if err != nil {
			return nil, err
		}
		return persist.NewGorm(db, cfg.Storage.QuotaBytes)
	default:
		return persist.NewMemory(cfg.Storage.QuotaBytes), nil
	}
}
