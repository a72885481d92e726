// Package events publishes domain events about profile and file writes.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventProfileCreated EventType = "profile.created"
	EventProfileUpdated EventType = "profile.updated"
	EventUserUpdated    EventType = "user.updated"
	EventFileUploaded   EventType = "file.uploaded"
)

// Event is the JSON envelope written to the broker.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Source    string      `json:"source"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

func NewEvent(eventType EventType, source string, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    source,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventPublisher delivers events. Callers treat publish errors as non-fatal.
type EventPublisher interface {
	Publish(ctx context.Context, eventType EventType, data interface{}) error
	Close() error
}

// ===== PAYLOADS =====

type ProfileEventData struct {
	UserID    string `json:"userId"`
	ProfileID uint   `json:"profileId"`
}

type UserEventData struct {
	UserID  string `json:"userId"`
	Created bool   `json:"created"`
}

type FileUploadedData struct {
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}
