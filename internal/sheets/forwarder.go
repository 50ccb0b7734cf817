package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/IronwoodTC/quoteiq-webhook/internal/model"
)

const defaultTimeout = 10 * time.Second

// Forwarder POSTs estimate events to the spreadsheet ingestion endpoint.
// Strictly best-effort: one attempt, no retry, failures logged and absorbed.
// The downstream sheet is append-only and tolerates duplicates.
type Forwarder struct {
	url    string
	client *http.Client
	log    *zap.Logger
}

func New(url string, timeout time.Duration, log *zap.Logger) *Forwarder {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Forwarder{
		url:    url,
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

// Enabled reports whether an endpoint URL is configured.
func (f *Forwarder) Enabled() bool { return f.url != "" }

// Forward delivers {"type": ..., "payload": ...} and reports success.
// It never panics and never returns an error to the caller.
func (f *Forwarder) Forward(ctx context.Context, eventType string, payload json.RawMessage) bool {
	if !f.Enabled() {
		return false
	}

	body, err := json.Marshal(model.Envelope{Type: eventType, Payload: payload})
	if err != nil {
		f.log.Warn("marshal forward body", zap.String("type", eventType), zap.Error(err))
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(body))
	if err != nil {
		f.log.Warn("build forward request", zap.String("type", eventType), zap.Error(err))
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := f.client.Do(req)
	if err != nil {
		f.log.Warn("forward estimate event", zap.String("type", eventType), zap.Error(err))
		return false
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		f.log.Warn("forward estimate event",
			zap.String("type", eventType),
			zap.Int("status", res.StatusCode),
		)
		return false
	}

	return true
}
