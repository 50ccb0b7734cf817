package mapstore

import "context"

// Store correlates a QuoteIQ doc id with the Google Calendar event created
// for it. At most one live mapping exists per doc id; absence is the normal
// signal to create rather than update.
type Store interface {
	// Get returns the mapped calendar event id. ok=false means no mapping.
	Get(ctx context.Context, docID string) (eventID string, ok bool, err error)
	Put(ctx context.Context, docID, eventID string) error
	// Remove is a no-op when no mapping exists.
	Remove(ctx context.Context, docID string) error
}
