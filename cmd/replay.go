package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/IronwoodTC/quoteiq-webhook/internal/config"
	"github.com/IronwoodTC/quoteiq-webhook/internal/logger"
	"github.com/IronwoodTC/quoteiq-webhook/internal/model"
	"github.com/IronwoodTC/quoteiq-webhook/internal/repository"
)

var replayLimit int

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Re-dispatch failed deliveries from the delivery log",
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

		if cfg.MySQL.DSN == "" {
			return fmt.Errorf("mysql.dsn is required for replay")
		}

		rds, mysqlDB, closeFn, err := openBackends(cfg, zl)
		if err != nil {
			return err
		}
		defer closeFn()

		// Replay runs with the delivery log detached so retried events do
		// not append duplicate rows on every pass.
		disp, err := buildDispatcher(cmd.Context(), cfg, zl, rds, mysqlDB, false)
		if err != nil {
			return err
		}

		repo := repository.NewDeliveriesRepository(mysqlDB)
		replayed, malformed, err := replayFailed(cmd.Context(), disp, repo, replayLimit, zl)
		if err != nil {
			return err
		}

		fmt.Printf(">> Replayed %d deliveries (%d dispatched, %d malformed)\n", replayed+malformed, replayed, malformed)
		return nil
	},
}

type dispatcher interface {
	Dispatch(ctx context.Context, body []byte) error
}

// replayFailed re-dispatches each failed row and marks it afterward, so the
// next replay run never picks the same row up again. Without the mark a
// replayed schedule.created would be re-created on every pass, leaving
// duplicate calendar events for one doc id.
func replayFailed(ctx context.Context, disp dispatcher, repo repository.DeliveriesRepository, limit int, zl *zap.Logger) (replayed, malformed int, err error) {
	failed, err := repo.ListFailed(ctx, limit)
	if err != nil {
		return 0, 0, fmt.Errorf("list failed deliveries: %w", err)
	}

	for _, d := range failed {
		outcome := model.DeliveryReplayed
		if derr := disp.Dispatch(ctx, d.Body); derr != nil {
			malformed++
			outcome = model.DeliveryMalformed
			zl.Warn("replay dispatch failed",
				zap.String("delivery_id", d.ID),
				zap.String("type", d.EventType),
				zap.Error(derr),
			)
		} else {
			replayed++
		}

		if merr := repo.MarkOutcome(ctx, d.ID, outcome); merr != nil {
			zl.Warn("mark delivery",
				zap.String("delivery_id", d.ID),
				zap.Error(merr),
			)
		}
	}
	return replayed, malformed, nil
}

func init() {
	replayCmd.Flags().IntVar(&replayLimit, "limit", 100, "max failed deliveries to replay")
}
