package hook

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/IronwoodTC/quoteiq-webhook/internal/metrics"
	"github.com/IronwoodTC/quoteiq-webhook/internal/model"
	"github.com/IronwoodTC/quoteiq-webhook/internal/repository"
)

// Reconciler is the calendar lane (schedule.* events).
type Reconciler interface {
	Create(ctx context.Context, p model.Payload) model.Outcome
	Update(ctx context.Context, p model.Payload) model.Outcome
	Delete(ctx context.Context, docID string) model.Outcome
}

// Forwarder is the spreadsheet lane (estimate.* events).
type Forwarder interface {
	Enabled() bool
	Forward(ctx context.Context, eventType string, payload json.RawMessage) bool
}

// ErrMalformed is the only dispatch failure surfaced to the HTTP layer.
// Everything routable is acknowledged: webhook senders retry on non-2xx,
// and a retry of an already-processed event would duplicate calendar
// entries, so downstream failures are logged and absorbed instead.
var ErrMalformed = errors.New("malformed envelope")

// Dispatcher routes inbound envelopes by type and records each delivery.
type Dispatcher struct {
	rec        Reconciler
	fw         Forwarder
	deliveries repository.DeliveriesRepository // nil disables the audit log
	log        *zap.Logger
}

func New(rec Reconciler, fw Forwarder, deliveries repository.DeliveriesRepository, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{rec: rec, fw: fw, deliveries: deliveries, log: log}
}

// Dispatch parses and routes one raw webhook body. A non-nil error means
// the body was malformed; every other outcome acks.
func (d *Dispatcher) Dispatch(ctx context.Context, body []byte) error {
	var env model.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if env.Type == "" {
		return fmt.Errorf("%w: missing type", ErrMalformed)
	}

	typ, known := model.ParseEventType(env.Type)
	if !known {
		d.log.Info("ignoring unknown event type", zap.String("type", env.Type))
		metrics.EventsTotal.WithLabelValues("unknown", model.StatusSkipped.String()).Inc()
		d.record(ctx, env.Type, "", model.Skipped(), body)
		return nil
	}

	var (
		out   model.Outcome
		docID string
	)
	if typ.IsSchedule() {
		var p model.Payload
		if len(env.Payload) > 0 {
			if err := json.Unmarshal(env.Payload, &p); err != nil {
				return fmt.Errorf("%w: payload: %v", ErrMalformed, err)
			}
		}
		docID = p.DocID

		switch typ {
		case model.EventScheduleCreated:
			out = d.rec.Create(ctx, p)
		case model.EventScheduleUpdated:
			out = d.rec.Update(ctx, p)
		case model.EventScheduleDeleted:
			out = d.rec.Delete(ctx, p.DocID)
		}
	} else {
		out = d.forward(ctx, typ, env.Payload)
	}

	if out.Status == model.StatusFailed {
		d.log.Error("handler failed",
			zap.String("type", typ.String()),
			zap.String("doc_id", docID),
			zap.Error(out.Err),
		)
	}

	metrics.EventsTotal.WithLabelValues(typ.String(), out.Status.String()).Inc()
	d.record(ctx, typ.String(), docID, out, body)
	return nil
}

func (d *Dispatcher) forward(ctx context.Context, typ model.EventType, payload json.RawMessage) model.Outcome {
	if !d.fw.Enabled() {
		d.log.Debug("sheets endpoint not configured, skipping forward", zap.String("type", typ.String()))
		return model.Skipped()
	}
	if d.fw.Forward(ctx, typ.String(), payload) {
		return model.Applied("")
	}
	return model.Failed(fmt.Errorf("forward %s to sheets endpoint", typ))
}

func (d *Dispatcher) record(ctx context.Context, eventType, docID string, out model.Outcome, body []byte) {
	if d.deliveries == nil {
		return
	}
	errText := ""
	if out.Err != nil {
		errText = out.Err.Error()
	}
	dl := model.Delivery{
		ID:        newDeliveryID(),
		EventType: eventType,
		DocID:     docID,
		Outcome:   out.Status.String(),
		Error:     errText,
		Body:      body,
	}
	if err := d.deliveries.Insert(ctx, dl); err != nil {
		d.log.Warn("record delivery", zap.String("type", eventType), zap.Error(err))
	}
}

// newDeliveryID returns a ULID for a delivery-log row; sortable, so the
// replay queue reads in arrival order.
func newDeliveryID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
