package calendar

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func TestIsNotFound(t *testing.T) {
	require.True(t, isNotFound(&googleapi.Error{Code: 404}))
	require.True(t, isNotFound(&googleapi.Error{Code: 410}))
	require.False(t, isNotFound(&googleapi.Error{Code: 500}))
	require.False(t, isNotFound(errors.New("nope")))

	wrapped := fmt.Errorf("call: %w", &googleapi.Error{Code: 404})
	require.True(t, isNotFound(wrapped))
}

func TestToEvent(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	ev := toEvent(Appointment{
		Summary:     "Appointment - Alice",
		Description: "details",
		Location:    "1 Main St",
		Start:       start,
		End:         start.Add(time.Hour),
		Attendees:   []string{"alice@example.com"},
	})

	require.Equal(t, "Appointment - Alice", ev.Summary)
	require.Equal(t, "1 Main St", ev.Location)
	require.Equal(t, "2024-01-01T10:00:00Z", ev.Start.DateTime)
	require.Equal(t, "2024-01-01T11:00:00Z", ev.End.DateTime)
	require.Equal(t, "UTC", ev.Start.TimeZone)
	require.Len(t, ev.Attendees, 1)
	require.Equal(t, "alice@example.com", ev.Attendees[0].Email)
}
