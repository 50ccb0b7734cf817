package reconciler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/IronwoodTC/quoteiq-webhook/internal/calendar"
	"github.com/IronwoodTC/quoteiq-webhook/internal/mapstore"
	"github.com/IronwoodTC/quoteiq-webhook/internal/model"
)

const defaultCallTimeout = 10 * time.Second

// Engine reconciles schedule events against the external calendar: one
// calendar event per doc id, tracked through the mapping store.
//
// api may be nil (no credentials configured); every operation then degrades
// to a skip so the webhook is still acknowledged.
type Engine struct {
	api     calendar.EventAPI
	store   mapstore.Store
	locks   *keyLock
	timeout time.Duration
	log     *zap.Logger
}

func New(api calendar.EventAPI, store mapstore.Store, callTimeout time.Duration, log *zap.Logger) *Engine {
	if callTimeout <= 0 {
		callTimeout = defaultCallTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		api:     api,
		store:   store,
		locks:   newKeyLock(),
		timeout: callTimeout,
		log:     log,
	}
}

// Create builds a calendar event for the payload and records the mapping.
// A missing start or end is a skip, never a partial insert. Remote failure
// is returned to the caller; create is the one path that surfaces it.
func (e *Engine) Create(ctx context.Context, p model.Payload) model.Outcome {
	unlock := e.locks.Lock(p.DocID)
	defer unlock()
	return e.create(ctx, p)
}

// create assumes the per-key lock is already held.
func (e *Engine) create(ctx context.Context, p model.Payload) model.Outcome {
	if e.api == nil {
		e.log.Debug("calendar disabled, skipping create", zap.String("doc_id", p.DocID))
		return model.Skipped()
	}

	appt, ok := calendar.BuildAppointment(p)
	if !ok {
		e.log.Warn("schedule event missing time bounds", zap.String("doc_id", p.DocID))
		return model.Skipped()
	}

	cctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	eventID, err := e.api.Insert(cctx, appt)
	if err != nil {
		return model.Failed(fmt.Errorf("create for doc %s: %w", p.DocID, err))
	}

	if err := e.store.Put(ctx, p.DocID, eventID); err != nil {
		// The event exists but we lost track of it; surface the error so the
		// sender can retry rather than silently double-create later.
		return model.Failed(fmt.Errorf("store mapping %s -> %s: %w", p.DocID, eventID, err))
	}

	e.log.Info("calendar event created",
		zap.String("doc_id", p.DocID),
		zap.String("event_id", eventID),
	)
	return model.Applied(eventID)
}

// Update targets the mapped calendar event. With no mapping it behaves
// exactly like Create. A stale mapping (remote not-found) is invalidated
// and falls back to a single create.
func (e *Engine) Update(ctx context.Context, p model.Payload) model.Outcome {
	unlock := e.locks.Lock(p.DocID)
	defer unlock()

	if e.api == nil {
		e.log.Debug("calendar disabled, skipping update", zap.String("doc_id", p.DocID))
		return model.Skipped()
	}

	eventID, ok, err := e.store.Get(ctx, p.DocID)
	if err != nil {
		return model.Failed(fmt.Errorf("lookup mapping for %s: %w", p.DocID, err))
	}
	if !ok {
		return e.create(ctx, p)
	}

	appt, okb := calendar.BuildAppointment(p)
	if !okb {
		e.log.Warn("schedule event missing time bounds", zap.String("doc_id", p.DocID))
		return model.Skipped()
	}

	cctx, cancel := context.WithTimeout(ctx, e.timeout)
	err = e.api.Update(cctx, eventID, appt)
	cancel()
	if err == nil {
		e.log.Info("calendar event updated",
			zap.String("doc_id", p.DocID),
			zap.String("event_id", eventID),
		)
		return model.Applied(eventID)
	}

	if errors.Is(err, calendar.ErrNotFound) {
		// Stale mapping: the event was deleted upstream. Drop it and create
		// fresh, exactly once.
		e.log.Info("stale mapping, falling back to create",
			zap.String("doc_id", p.DocID),
			zap.String("event_id", eventID),
		)
		if rerr := e.store.Remove(ctx, p.DocID); rerr != nil {
			return model.Failed(fmt.Errorf("invalidate mapping for %s: %w", p.DocID, rerr))
		}
		return e.create(ctx, p)
	}

	return model.Failed(fmt.Errorf("update for doc %s: %w", p.DocID, err))
}

// Delete removes the mapped calendar event. An unmapped doc id is a silent
// no-op with zero external calls. The mapping is dropped whether or not the
// remote delete succeeded; it must never point at an event believed gone.
func (e *Engine) Delete(ctx context.Context, docID string) model.Outcome {
	unlock := e.locks.Lock(docID)
	defer unlock()

	if e.api == nil {
		e.log.Debug("calendar disabled, skipping delete", zap.String("doc_id", docID))
		return model.Skipped()
	}

	eventID, ok, err := e.store.Get(ctx, docID)
	if err != nil {
		return model.Failed(fmt.Errorf("lookup mapping for %s: %w", docID, err))
	}
	if !ok {
		return model.Skipped()
	}

	cctx, cancel := context.WithTimeout(ctx, e.timeout)
	err = e.api.Delete(cctx, eventID)
	cancel()

	if rerr := e.store.Remove(ctx, docID); rerr != nil {
		e.log.Error("remove mapping", zap.String("doc_id", docID), zap.Error(rerr))
	}

	if err != nil && !errors.Is(err, calendar.ErrNotFound) {
		return model.Failed(fmt.Errorf("delete for doc %s: %w", docID, err))
	}

	e.log.Info("calendar event deleted",
		zap.String("doc_id", docID),
		zap.String("event_id", eventID),
	)
	return model.Applied(eventID)
}
