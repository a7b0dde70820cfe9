// Package domain defines the core domain models for the document assistant.
package domain

import "time"

// Role identifies who produced a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	// RoleError marks a stored record of a failed turn. Error rows are
	// never fed back into prompts.
	RoleError Role = "error"
)

// Message is one stored conversation turn. Messages are immutable: they
// are written once by the store and never updated or deleted. JSON tags
// match the document store's item fields.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	UserID    string    `json:"userId,omitempty"`
	UserRoles []string  `json:"userRoles,omitempty"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatRequest is the inbound chat turn.
type ChatRequest struct {
	Message   string   `json:"message"`
	SessionID string   `json:"session_id"`
	UserID    string   `json:"user_id,omitempty"`
	UserRoles []string `json:"user_roles,omitempty"`
}

// ChatResponse is the answer for one chat turn.
type ChatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

// HistoryMessage is the read-only projection served by the history
// endpoints.
type HistoryMessage struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
