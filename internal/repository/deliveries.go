package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/IronwoodTC/quoteiq-webhook/internal/model"
)

// DeliveriesRepository defines persistence for the webhook_deliveries audit
// table. The stored raw body is what `replay` feeds back through dispatch.
type DeliveriesRepository interface {
	Insert(ctx context.Context, d model.Delivery) error
	ListFailed(ctx context.Context, limit int) ([]model.Delivery, error)
	MarkOutcome(ctx context.Context, id, outcome string) error
}

type DeliveriesRepositoryImpl struct {
	db *sqlx.DB
}

func NewDeliveriesRepository(db *sqlx.DB) *DeliveriesRepositoryImpl {
	return &DeliveriesRepositoryImpl{db: db}
}

// Insert appends one delivery row.
func (r *DeliveriesRepositoryImpl) Insert(ctx context.Context, d model.Delivery) error {
	const q = `
		INSERT INTO webhook_deliveries
		    (id, event_type, doc_id, outcome, error, body, created_at)
		VALUES
		    (?,  ?,          ?,      ?,       ?,     ?,    ?)
	`
	createdAt := d.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, q,
		d.ID, d.EventType, d.DocID, d.Outcome, d.Error, d.Body, createdAt,
	)
	return err
}

// ListFailed returns the oldest failed deliveries, up to limit.
func (r *DeliveriesRepositoryImpl) ListFailed(ctx context.Context, limit int) ([]model.Delivery, error) {
	const q = `
		SELECT id, event_type, doc_id, outcome, error, body, created_at
		FROM webhook_deliveries
		WHERE outcome = 'failed'
		ORDER BY created_at ASC
		LIMIT ?
	`
	if limit <= 0 {
		limit = 100
	}
	var out []model.Delivery
	if err := r.db.SelectContext(ctx, &out, q, limit); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkOutcome rewrites a delivery's outcome, taking it out of the failed
// replay queue so a row is only ever replayed once.
func (r *DeliveriesRepositoryImpl) MarkOutcome(ctx context.Context, id, outcome string) error {
	const q = `UPDATE webhook_deliveries SET outcome = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, outcome, id)
	return err
}
