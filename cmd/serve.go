package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/IronwoodTC/quoteiq-webhook/internal/calendar"
	"github.com/IronwoodTC/quoteiq-webhook/internal/config"
	"github.com/IronwoodTC/quoteiq-webhook/internal/db"
	"github.com/IronwoodTC/quoteiq-webhook/internal/hook"
	httpSrv "github.com/IronwoodTC/quoteiq-webhook/internal/http"
	"github.com/IronwoodTC/quoteiq-webhook/internal/logger"
	"github.com/IronwoodTC/quoteiq-webhook/internal/mapstore"
	"github.com/IronwoodTC/quoteiq-webhook/internal/reconciler"
	"github.com/IronwoodTC/quoteiq-webhook/internal/repository"
	"github.com/IronwoodTC/quoteiq-webhook/internal/sheets"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		zl, err := logger.New(cfg.Log.Level)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer func() { _ = zl.Sync() }()

		rds, mysqlDB, closeFn, err := openBackends(cfg, zl)
		if err != nil {
			return err
		}
		defer closeFn()

		disp, err := buildDispatcher(cmd.Context(), cfg, zl, rds, mysqlDB, true)
		if err != nil {
			return err
		}

		server := httpSrv.NewServer(cfg, disp, rds)

		errCh := make(chan error, 1)
		go func() {
			log.Printf("starting http on %s", cfg.HTTP.Addr)
			errCh <- server.Start(cfg.HTTP.Addr)
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-sigCh:
			log.Printf("signal received: %s, shutting down...", sig)
		case err := <-errCh:
			if err != nil {
				log.Printf("http server exited: %v", err)
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)

		return nil
	},
}

// openBackends connects redis and MySQL when configured. Both are optional:
// an empty addr/DSN soft-disables the feature that needs it.
func openBackends(cfg config.Config, zl *zap.Logger) (*redis.Client, *sqlx.DB, func(), error) {
	var (
		rds     *redis.Client
		mysqlDB *sqlx.DB
	)

	if cfg.Redis.Addr != "" {
		var err error
		rds, err = db.NewRedisClient(cfg.Redis)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("redis connect: %w", err)
		}
	} else {
		zl.Warn("redis not configured; rate limiting off and redis store unavailable")
	}

	if cfg.MySQL.DSN != "" {
		var err error
		mysqlDB, err = db.NewMySQLConnection(cfg.MySQL)
		if err != nil {
			if rds != nil {
				_ = rds.Close()
			}
			return nil, nil, nil, fmt.Errorf("mysql connect: %w", err)
		}
	} else {
		zl.Warn("mysql not configured; delivery log disabled")
	}

	closeFn := func() {
		if rds != nil {
			_ = rds.Close()
		}
		if mysqlDB != nil {
			_ = mysqlDB.Close()
		}
	}
	return rds, mysqlDB, closeFn, nil
}

// buildDispatcher wires the reconciliation engine, sheets forwarder, and
// (when MySQL is up and recordDeliveries is set) the delivery log.
func buildDispatcher(ctx context.Context, cfg config.Config, zl *zap.Logger, rds *redis.Client, mysqlDB *sqlx.DB, recordDeliveries bool) (*hook.Dispatcher, error) {
	var store mapstore.Store
	switch cfg.Store.Backend {
	case "", "memory":
		store = mapstore.NewMemory()
	case "redis":
		if rds == nil {
			return nil, fmt.Errorf("store.backend redis requires redis.addr")
		}
		store = mapstore.NewRedis(rds)
	default:
		return nil, fmt.Errorf("unknown store.backend %q", cfg.Store.Backend)
	}

	var api calendar.EventAPI
	if cfg.Calendar.CredentialsJSON != "" {
		gc, err := calendar.NewGoogleClient(ctx, []byte(cfg.Calendar.CredentialsJSON), cfg.Calendar.ID)
		if err != nil {
			return nil, fmt.Errorf("calendar client: %w", err)
		}
		api = gc
	} else {
		zl.Warn("calendar credentials not configured; calendar sync disabled")
	}

	engine := reconciler.New(api, store, cfg.Calendar.CallTimeout, zl)
	forwarder := sheets.New(cfg.Sheets.URL, cfg.Sheets.Timeout, zl)

	var deliveries repository.DeliveriesRepository
	if recordDeliveries && mysqlDB != nil {
		deliveries = repository.NewDeliveriesRepository(mysqlDB)
	}

	return hook.New(engine, forwarder, deliveries, zl), nil
}
