// Package agent consumes the conversational agent service: it sends the
// running conversation upstream and decodes the newline-delimited JSON event
// stream that comes back, applying tool results in order and keeping the
// preview synchronizer informed.
package agent

import "encoding/json"

// Event discriminator values. One complete JSON object per line, UTF-8.
const (
	EventText       = "text"
	EventToolCall   = "tool_call"
	EventToolResult = "tool_result"
	EventError      = "error"
	EventDone       = "done"
)

// Event is one line of the streamed protocol.
type Event struct {
	Type      string          `json:"type"`
	Content   string          `json:"content,omitempty"`
	ToolName  string          `json:"tool_name,omitempty"`
	SessionID string          `json:"session_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// ImageAttachment is an inline image carried on a conversation message.
type ImageAttachment struct {
	URL       string `json:"url,omitempty"`
	MediaType string `json:"media_type,omitempty"`
	Base64    string `json:"base64,omitempty"`
}

// Message is one role-tagged entry of the running conversation.
type Message struct {
	Role    string            `json:"role"`
	Content string            `json:"content"`
	Images  []ImageAttachment `json:"images,omitempty"`
}

// TurnRequest is what the client posts to the agent service for one turn.
type TurnRequest struct {
	Messages     []Message `json:"messages"`
	BusinessSlug string    `json:"business_slug"`
	SessionID    string    `json:"session_id,omitempty"`
}
