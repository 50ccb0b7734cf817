package model

import (
	"encoding/json"
	"strings"
	"time"
)

type EventType string

const (
	EventEstimateCreated EventType = "estimate.created"
	EventEstimateUpdated EventType = "estimate.updated"
	EventEstimateDeleted EventType = "estimate.deleted"
	EventScheduleCreated EventType = "schedule.created"
	EventScheduleUpdated EventType = "schedule.updated"
	EventScheduleDeleted EventType = "schedule.deleted"
)

func (t EventType) String() string { return string(t) }

// ParseEventType normalizes input against the closed lifecycle set.
// Returns (value, true) if recognized; otherwise ("", false).
func ParseEventType(s string) (EventType, bool) {
	switch EventType(strings.ToLower(strings.TrimSpace(s))) {
	case EventEstimateCreated:
		return EventEstimateCreated, true
	case EventEstimateUpdated:
		return EventEstimateUpdated, true
	case EventEstimateDeleted:
		return EventEstimateDeleted, true
	case EventScheduleCreated:
		return EventScheduleCreated, true
	case EventScheduleUpdated:
		return EventScheduleUpdated, true
	case EventScheduleDeleted:
		return EventScheduleDeleted, true
	default:
		return "", false
	}
}

// IsSchedule reports whether the event belongs to the calendar lane.
func (t EventType) IsSchedule() bool {
	return strings.HasPrefix(string(t), "schedule.")
}

// Envelope is the inbound webhook body: { "type": ..., "payload": {...} }.
// Payload stays raw so estimate events can be forwarded byte-for-byte.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload carries the QuoteIQ record fields the reconciler cares about.
// Every field is optional; absent fields degrade to placeholders downstream.
type Payload struct {
	DocID            string      `json:"doc_id,omitempty"`
	CustomerName     string      `json:"customer_name,omitempty"`
	CustomerPhone    string      `json:"customer_phone,omitempty"`
	CustomerEmail    string      `json:"customer_email,omitempty"`
	CustomerAddress  string      `json:"customer_address,omitempty"`
	ServicesList     string      `json:"services_list,omitempty"`
	ServiceList      string      `json:"service_list,omitempty"`
	ScheduleNotes    string      `json:"schedule_notes,omitempty"`
	ScheduleStartsAt *Timestamp  `json:"schedule_starts_at,omitempty"`
	ScheduleEndsAt   *Timestamp  `json:"schedule_ends_at,omitempty"`
	EstimateNo       string      `json:"estimate_no,omitempty"`
	Total            json.Number `json:"total,omitempty"`
}

// Services resolves the two spellings QuoteIQ uses for the service list.
func (p Payload) Services() string {
	if p.ServicesList != "" {
		return p.ServicesList
	}
	return p.ServiceList
}

// Timestamp accepts both RFC3339 strings and unix-millisecond numbers,
// which QuoteIQ mixes across event versions. Always normalized to UTC.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var ms int64
	if err := json.Unmarshal(data, &ms); err == nil {
		t.Time = time.Unix(0, ms*int64(time.Millisecond)).UTC()
		return nil
	}
	if err := json.Unmarshal(data, &t.Time); err != nil {
		return err
	}
	t.Time = t.Time.UTC()
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.UTC().Format(time.RFC3339))
}
