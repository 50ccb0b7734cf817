package calendar

import (
	"strings"
	"time"

	"github.com/IronwoodTC/quoteiq-webhook/internal/model"
)

const fallbackCustomer = "QuoteIQ Customer"

// Appointment is the calendar-facing view of one schedule record. It is
// rebuilt from the payload on every event and never persisted.
type Appointment struct {
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	Attendees   []string
}

// BuildAppointment derives an Appointment from a schedule payload.
// Both time bounds are mandatory; ok=false means the event must not be sent
// to the calendar service at all.
func BuildAppointment(p model.Payload) (Appointment, bool) {
	if p.ScheduleStartsAt == nil || p.ScheduleEndsAt == nil {
		return Appointment{}, false
	}

	name := p.CustomerName
	if name == "" {
		name = fallbackCustomer
	}

	a := Appointment{
		Summary:     "Appointment - " + name,
		Description: buildDescription(p),
		Location:    p.CustomerAddress,
		Start:       p.ScheduleStartsAt.UTC(),
		End:         p.ScheduleEndsAt.UTC(),
	}
	if p.CustomerEmail != "" {
		a.Attendees = []string{p.CustomerEmail}
	}
	return a, true
}

// buildDescription emits the fixed-order block QuoteIQ techs see in the
// event body. Field order must stay stable so updates do not churn the
// description for unchanged records.
func buildDescription(p model.Payload) string {
	lines := []string{
		"Customer: " + orElse(p.CustomerName, "N/A"),
		"Phone: " + orElse(p.CustomerPhone, "N/A"),
		"Email: " + orElse(p.CustomerEmail, "N/A"),
		"Address: " + orElse(p.CustomerAddress, "N/A"),
		"Services: " + orElse(p.Services(), "None"),
		"Notes: " + orElse(p.ScheduleNotes, "None"),
		"QuoteIQ Doc: " + orElse(p.DocID, "N/A"),
	}
	return strings.Join(lines, "\n")
}

func orElse(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
