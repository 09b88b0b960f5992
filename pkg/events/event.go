package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Event struct {
	Event         string          `json:"event"`     // e.g., "comment.created"
	Version       string          `json:"version"`   // e.g., "v1"
	Timestamp     time.Time       `json:"timestamp"` // Event occurrence time
	Payload       json.RawMessage `json:"payload"`
	TraceID       string          `json:"traceId"`
	CorrelationID string          `json:"correlationId"`
}

type Headers struct {
	TraceID       string
	CorrelationID string
	Service       string
}

// NewHeaders starts a fresh trace for an event originating in service.
func NewHeaders(service string) Headers {
	return Headers{
		TraceID:       uuid.New().String(),
		CorrelationID: uuid.New().String(),
		Service:       service,
	}
}

func NewEvent(eventName, version string, payload any, headers Headers) (*Event, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", eventName, err)
	}

	return &Event{
		Event:         eventName,
		Version:       version,
		Timestamp:     time.Now().UTC(),
		Payload:       body,
		TraceID:       headers.TraceID,
		CorrelationID: headers.CorrelationID,
	}, nil
}

func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func (e *Event) GetRoutingKey() string {
	return e.Event + "." + e.Version
}

// DecodePayload unmarshals the payload into dst.
func (e *Event) DecodePayload(dst any) error {
	if len(e.Payload) == 0 {
		return fmt.Errorf("event %s has no payload", e.Event)
	}
	if err := json.Unmarshal(e.Payload, dst); err != nil {
		return fmt.Errorf("malformed %s payload: %w", e.Event, err)
	}
	return nil
}
