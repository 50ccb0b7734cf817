package model

import "time"

// Outcomes written back by replay, distinct from the live reconciliation
// statuses. A failed row moves to one of these after its replay pass so it
// is never picked up again.
const (
	DeliveryReplayed  = "replayed"
	DeliveryMalformed = "malformed"
)

// Delivery is the audit row persisted for each dispatched webhook.
// Body keeps the raw envelope so failed deliveries can be replayed.
type Delivery struct {
	ID        string    `db:"id"`
	EventType string    `db:"event_type"`
	DocID     string    `db:"doc_id"`
	Outcome   string    `db:"outcome"`
	Error     string    `db:"error"`
	Body      []byte    `db:"body"`
	CreatedAt time.Time `db:"created_at"`
}
