package events

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"club-service/internal/model"
)

type EventPublisher interface {
	PublishSeriesCreated(rec *model.Recurrence, anchor *model.Session, occurrences int) error
	PublishSessionUpdated(session *model.Session, propagated int) error
	PublishRosterUpdated(session *model.Session, coaches int) error
}

type NatsPublisher struct {
	conn *nats.Conn
}

func NewNatsPublisher(natsURL string) (EventPublisher, error) {
	nc, err := nats.Connect(natsURL)

	if err != nil {
		return nil, err
	}

	return &NatsPublisher{conn: nc}, nil
}

type SeriesCreatedEvent struct {
	EventType    string               `json:"event_type"`
	RecurrenceID uuid.UUID            `json:"recurrence_id"`
	Mode         model.RecurrenceMode `json:"mode"`
	EndDate      time.Time            `json:"end_date"`
	AnchorID     uuid.UUID            `json:"anchor_id"`
	Occurrences  int                  `json:"occurrences"`
}

type SessionUpdatedEvent struct {
	EventType  string    `json:"event_type"`
	SessionID  uuid.UUID `json:"session_id"`
	StartAt    time.Time `json:"start_at"`
	Propagated int       `json:"propagated"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type RosterUpdatedEvent struct {
	EventType string    `json:"event_type"`
	SessionID uuid.UUID `json:"session_id"`
	Coaches   int       `json:"coaches"`
}

func (p *NatsPublisher) PublishSeriesCreated(rec *model.Recurrence, anchor *model.Session, occurrences int) error {
	event := SeriesCreatedEvent{
		EventType:    "series.created",
		RecurrenceID: rec.ID,
		Mode:         rec.Mode,
		EndDate:      rec.EndDate,
		AnchorID:     anchor.ID,
		Occurrences:  occurrences,
	}

	return p.publish("series.created", event)
}

func (p *NatsPublisher) PublishSessionUpdated(session *model.Session, propagated int) error {
	event := SessionUpdatedEvent{
		EventType:  "session.updated",
		SessionID:  session.ID,
		StartAt:    session.StartAt,
		Propagated: propagated,
		UpdatedAt:  time.Now(),
	}

	return p.publish("session.updated", event)
}

func (p *NatsPublisher) PublishRosterUpdated(session *model.Session, coaches int) error {
	event := RosterUpdatedEvent{
		EventType: "roster.updated",
		SessionID: session.ID,
		Coaches:   coaches,
	}

	return p.publish("roster.updated", event)
}

func (p *NatsPublisher) publish(subject string, event interface{}) error {
	eventJSON, err := json.Marshal(event)

	if err != nil {
		log.Printf("Error marshalling event JSON: %v", err)
		return err
	}

	err = p.conn.Publish(subject, eventJSON)

	if err != nil {
		log.Printf("Error publishing to NATS: %v", err)
		return err
	}

	log.Printf("Published event to NATS on subject '%s'", subject)

	return nil
}
