package kafka

import (
	"encoding/json"
	"time"

	"gasdelivery/internal/core/ports"
)

const envelopeVersion = 1

// Envelope is the wire format of every notification. CorrelationID is the order id.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

func newEnvelope(producer string, e ports.Event) (Envelope, error) {
	payload, err := json.Marshal(e.Data)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:       e.ID,
		EventType:     e.Type,
		EventVersion:  envelopeVersion,
		OccurredAt:    e.OccurredAt.UTC(),
		Producer:      producer,
		CorrelationID: e.Key,
		Payload:       payload,
	}, nil
}
