package events_test

import (
	"encoding/json"
	"testing"
	"time"

	"club-service/internal/events"
	"club-service/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestSeriesCreatedEvent_Marshal(t *testing.T) {
	rec := &model.Recurrence{ID: uuid.New(), Mode: model.RecurrenceWeekly, EndDate: time.Now()}
	ev := events.SeriesCreatedEvent{
		EventType:    "series.created",
		RecurrenceID: rec.ID,
		Mode:         rec.Mode,
		EndDate:      rec.EndDate,
		AnchorID:     uuid.New(),
		Occurrences:  12,
	}

	b, err := json.Marshal(ev)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Equal(t, "series.created", decoded["event_type"])
	require.Equal(t, "weekly", decoded["mode"])
	require.EqualValues(t, 12, decoded["occurrences"])
}

func TestSessionUpdatedEvent_Marshal(t *testing.T) {
	ev := events.SessionUpdatedEvent{
		EventType:  "session.updated",
		SessionID:  uuid.New(),
		StartAt:    time.Now(),
		Propagated: 3,
		UpdatedAt:  time.Now(),
	}

	b, err := json.Marshal(ev)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Equal(t, "session.updated", decoded["event_type"])
	require.EqualValues(t, 3, decoded["propagated"])
}

func TestRosterUpdatedEvent_Marshal(t *testing.T) {
	ev := events.RosterUpdatedEvent{
		EventType: "roster.updated",
		SessionID: uuid.New(),
		Coaches:   2,
	}

	b, err := json.Marshal(ev)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Equal(t, "roster.updated", decoded["event_type"])
	require.EqualValues(t, 2, decoded["coaches"])
}
