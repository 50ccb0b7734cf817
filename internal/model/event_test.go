package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseEventType(t *testing.T) {
	for _, s := range []string{
		"estimate.created", "estimate.updated", "estimate.deleted",
		"schedule.created", "schedule.updated", "schedule.deleted",
	} {
		typ, ok := ParseEventType(s)
		require.True(t, ok, s)
		require.Equal(t, s, typ.String())
	}

	typ, ok := ParseEventType("  Schedule.Created ")
	require.True(t, ok)
	require.Equal(t, EventScheduleCreated, typ)

	_, ok = ParseEventType("unknown.event")
	require.False(t, ok)
	_, ok = ParseEventType("")
	require.False(t, ok)
}

func TestEventTypeLanes(t *testing.T) {
	require.True(t, EventScheduleUpdated.IsSchedule())
	require.False(t, EventEstimateCreated.IsSchedule())
}

func TestTimestampUnmarshalRFC3339(t *testing.T) {
	var p Payload
	err := json.Unmarshal([]byte(`{"schedule_starts_at":"2024-01-01T10:00:00Z"}`), &p)
	require.NoError(t, err)
	require.NotNil(t, p.ScheduleStartsAt)
	require.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), p.ScheduleStartsAt.Time)
}

func TestTimestampUnmarshalOffsetNormalizesToUTC(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2024-01-01T12:00:00+02:00"`), &ts))
	require.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), ts.Time)
	require.Equal(t, time.UTC, ts.Location())
}

func TestTimestampUnmarshalUnixMillis(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`1704103200000`), &ts))
	require.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), ts.Time)
}

func TestTimestampMarshalRFC3339(t *testing.T) {
	ts := Timestamp{Time: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)}
	b, err := json.Marshal(ts)
	require.NoError(t, err)
	require.Equal(t, `"2024-01-01T10:00:00Z"`, string(b))
}

func TestPayloadServicesFallback(t *testing.T) {
	require.Equal(t, "a", Payload{ServicesList: "a", ServiceList: "b"}.Services())
	require.Equal(t, "b", Payload{ServiceList: "b"}.Services())
	require.Equal(t, "", Payload{}.Services())
}

func TestEnvelopeKeepsPayloadRaw(t *testing.T) {
	raw := []byte(`{"type":"estimate.created","payload":{"doc_id":"E1","custom_field":42}}`)
	var env Envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	require.Equal(t, "estimate.created", env.Type)
	// unknown fields must survive for the sheets forward
	require.JSONEq(t, `{"doc_id":"E1","custom_field":42}`, string(env.Payload))
}
