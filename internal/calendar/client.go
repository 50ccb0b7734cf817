package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/IronwoodTC/quoteiq-webhook/internal/metrics"
)

// ErrNotFound marks a calendar event id that no longer exists upstream.
// The reconciler turns it into a fallback create (update) or a no-op (delete).
var ErrNotFound = errors.New("calendar event not found")

// EventAPI is the slice of the calendar service the reconciler needs.
// The Google implementation below is the only production one; tests fake it.
type EventAPI interface {
	Insert(ctx context.Context, appt Appointment) (string, error)
	Update(ctx context.Context, eventID string, appt Appointment) error
	Delete(ctx context.Context, eventID string) error
}

// GoogleClient talks to Google Calendar with a service-account key.
type GoogleClient struct {
	svc        *gcal.Service
	calendarID string
}

// NewGoogleClient builds a client from a raw service-account JSON blob.
// calendarID defaults to "primary".
func NewGoogleClient(ctx context.Context, credentialsJSON []byte, calendarID string) (*GoogleClient, error) {
	if len(credentialsJSON) == 0 {
		return nil, fmt.Errorf("empty calendar credentials")
	}
	if calendarID == "" {
		calendarID = "primary"
	}

	svc, err := gcal.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(gcal.CalendarScope),
	)
	if err != nil {
		return nil, fmt.Errorf("calendar service: %w", err)
	}

	return &GoogleClient{svc: svc, calendarID: calendarID}, nil
}

func (c *GoogleClient) Insert(ctx context.Context, appt Appointment) (string, error) {
	created, err := c.svc.Events.Insert(c.calendarID, toEvent(appt)).Context(ctx).Do()
	if err != nil {
		metrics.CalendarCallsTotal.WithLabelValues("insert", "error").Inc()
		return "", fmt.Errorf("insert event: %w", err)
	}
	metrics.CalendarCallsTotal.WithLabelValues("insert", "ok").Inc()
	return created.Id, nil
}

func (c *GoogleClient) Update(ctx context.Context, eventID string, appt Appointment) error {
	_, err := c.svc.Events.Update(c.calendarID, eventID, toEvent(appt)).Context(ctx).Do()
	if err != nil {
		if isNotFound(err) {
			metrics.CalendarCallsTotal.WithLabelValues("update", "not_found").Inc()
			return fmt.Errorf("update event %s: %w", eventID, ErrNotFound)
		}
		metrics.CalendarCallsTotal.WithLabelValues("update", "error").Inc()
		return fmt.Errorf("update event %s: %w", eventID, err)
	}
	metrics.CalendarCallsTotal.WithLabelValues("update", "ok").Inc()
	return nil
}

func (c *GoogleClient) Delete(ctx context.Context, eventID string) error {
	err := c.svc.Events.Delete(c.calendarID, eventID).Context(ctx).Do()
	if err != nil {
		if isNotFound(err) {
			metrics.CalendarCallsTotal.WithLabelValues("delete", "not_found").Inc()
			return fmt.Errorf("delete event %s: %w", eventID, ErrNotFound)
		}
		metrics.CalendarCallsTotal.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("delete event %s: %w", eventID, err)
	}
	metrics.CalendarCallsTotal.WithLabelValues("delete", "ok").Inc()
	return nil
}

func toEvent(appt Appointment) *gcal.Event {
	ev := &gcal.Event{
		Summary:     appt.Summary,
		Description: appt.Description,
		Location:    appt.Location,
		Start:       &gcal.EventDateTime{DateTime: appt.Start.UTC().Format(time.RFC3339), TimeZone: "UTC"},
		End:         &gcal.EventDateTime{DateTime: appt.End.UTC().Format(time.RFC3339), TimeZone: "UTC"},
	}
	for _, email := range appt.Attendees {
		ev.Attendees = append(ev.Attendees, &gcal.EventAttendee{Email: email})
	}
	return ev
}

// Google reports deleted events as 404; events cancelled out-of-band come
// back as 410.
func isNotFound(err error) bool {
	var ge *googleapi.Error
	if errors.As(err, &ge) {
		return ge.Code == http.StatusNotFound || ge.Code == http.StatusGone
	}
	return false
}
