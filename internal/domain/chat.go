// Package domain contains core domain types for the chat widget.
package domain

import (
	"time"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Tab identifies which widget panel is visible.
type Tab string

const (
	TabChat    Tab = "chat"
	TabHistory Tab = "history"
)

// ChatMessage is a single entry in a conversation. Messages are
// append-only within a session; insertion order equals chronological
// order.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	// ChatID references the server-side record once the server has
	// persisted the exchange. Zero means not yet persisted.
	ChatID int64 `json:"chat_id,omitempty"`
}

// HasServerRecord returns true if the message can be rated.
func (m *ChatMessage) HasServerRecord() bool {
	return m.ChatID != 0
}

// SessionSnapshot is the durable subset of widget state. Visibility
// flags and the active tab are transient and never persisted.
type SessionSnapshot struct {
	SessionID string        `json:"session_id"`
	Messages  []ChatMessage `json:"messages"`
}
