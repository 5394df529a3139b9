package providers

import (
	"net/http"
	"time"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultModel is reported when the upstream response does not name a model.
const DefaultModel = "claude-3-sonnet"

// FallbackContent is returned when no reply text can be found in a response.
const FallbackContent = "No response content"

// Message is a single conversation turn.
type Message struct {
	// Role identifies the message sender (system, user, assistant)
	Role string `json:"role"`

	// Content is the message text
	Content string `json:"content"`
}

// Payload is the JSON body posted to the model endpoint.
type Payload struct {
	// Messages is the system message followed by the conversation history
	Messages []Message `json:"messages"`

	// MaxTokens is the maximum number of tokens to generate
	MaxTokens int `json:"max_tokens"`

	// Temperature controls randomness. Zero is sent explicitly.
	Temperature float64 `json:"temperature"`

	// TopP controls nucleus sampling. Omitted when nil.
	TopP *float64 `json:"top_p,omitempty"`

	// Stream is always false; streaming transport is not supported.
	Stream bool `json:"stream"`
}

// UsageInfo is the token accounting reported by the upstream.
type UsageInfo struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// NormalizedReply is the caller-facing reply shape, independent of the
// upstream response envelope.
type NormalizedReply struct {
	// Content is the generated text. Never empty.
	Content string `json:"content"`

	// Usage is nil when the upstream did not report usage.
	Usage *UsageInfo `json:"usage"`

	// Model is the upstream model name, or DefaultModel.
	Model string `json:"model"`

	// Timestamp is when the reply was normalized, in UTC.
	Timestamp time.Time `json:"timestamp"`
}

// RawResponse is an upstream HTTP response with its body fully read.
type RawResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}
