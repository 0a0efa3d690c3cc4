package campus

import "time"

// Message is a sealed interface representing a conversation message.
// The unexported marker method prevents external implementations.
// Role() returns the message's role without requiring a type switch.
type Message interface {
	isMessage()
	Role() Role
	Text() string
}

// UserMessage represents a question from the student.
type UserMessage struct {
	Content   string
	Timestamp time.Time
}

func (UserMessage) isMessage() {}

// Role returns RoleUser.
func (UserMessage) Role() Role { return RoleUser }

// Text returns the message content.
func (m UserMessage) Text() string { return m.Content }

// AssistantMessage represents an answer from the assistant. Content holds
// the raw markdown exactly as streamed; display blocks are derived from it
// on demand.
type AssistantMessage struct {
	Content       string
	StopReason    StopReason
	RawStopReason string
	Usage         Usage
	Timestamp     time.Time
}

func (AssistantMessage) isMessage() {}

// Role returns RoleAssistant.
func (AssistantMessage) Role() Role { return RoleAssistant }

// Text returns the message content.
func (m AssistantMessage) Text() string { return m.Content }

// Interface compliance checks.
var (
	_ Message = UserMessage{}
	_ Message = AssistantMessage{}
)
