package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the kinds of events the service emits
type EventType string

const (
	// Exam events
	EventExamGenerated EventType = "exam.generated"
	EventExamFailed    EventType = "exam.failed"

	// User events
	EventUserRegistered EventType = "user.registered"
)

const (
	eventSource  = "exam-generation-service"
	eventVersion = "1.0"
)

// Event is the envelope shared by all published events
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Event payloads

type ExamGeneratedEvent struct {
	ExamID         uint      `json:"exam_id"`
	UserID         uint      `json:"user_id"`
	Query          string    `json:"query"`
	QuestionType   string    `json:"question_type"`
	Difficulty     string    `json:"difficulty"`
	RequestedCount int       `json:"requested_count"`
	QuestionCount  int       `json:"question_count"`
	FailedCount    int       `json:"failed_count"`
	GeneratedAt    time.Time `json:"generated_at"`
}

type ExamFailedEvent struct {
	UserID       uint      `json:"user_id"`
	Query        string    `json:"query"`
	QuestionType string    `json:"question_type"`
	Reason       string    `json:"reason"`
	FailedAt     time.Time `json:"failed_at"`
}

type UserRegisteredEvent struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Event factory functions

func NewExamGeneratedEvent(data ExamGeneratedEvent) *Event {
	return newEvent(EventExamGenerated, data)
}

func NewExamFailedEvent(data ExamFailedEvent) *Event {
	return newEvent(EventExamFailed, data)
}

func NewUserRegisteredEvent(data UserRegisteredEvent) *Event {
	return newEvent(EventUserRegistered, data)
}

func newEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		ID:        GenerateEventID(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

// GenerateEventID returns a random UUID for event envelopes
func GenerateEventID() string {
	return uuid.NewString()
}
