package providers

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"
)

// Normalizer turns upstream response bodies into NormalizedReply values.
type Normalizer struct {
	// Provider is recorded on EmptyResponseError
	Provider string

	// FallbackModel is used when the response names no model.
	// Default: DefaultModel
	FallbackModel string

	// Now returns the reply timestamp. Default: time.Now
	Now func() time.Time
}

// Normalize normalizes body with the default settings.
func Normalize(body []byte) (*NormalizedReply, error) {
	return Normalizer{}.Normalize(body)
}

// envelope holds the top-level fields of a response object. Fields are
// decoded lazily so an unexpected type in one never hides another.
type envelope map[string]json.RawMessage

type choice struct {
	Message struct {
		Content json.RawMessage `json:"content"`
	} `json:"message"`
	Text json.RawMessage `json:"text"`
}

type contentBlock struct {
	Text *string `json:"text"`
}

type usageFields struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
	InputTokens      int `json:"input_tokens"`
	OutputTokens     int `json:"output_tokens"`
}

// Normalize extracts the reply text, usage and model from body.
//
// Text is taken from the first source that yields a non-empty string:
// the text of the first content element, the top-level message string, the
// first choice's message content or text, and finally FallbackContent.
//
// The only error is *EmptyResponseError, returned when body is absent,
// JSON null, or not a JSON object.
func (n Normalizer) Normalize(body []byte) (*NormalizedReply, error) {
	provider := n.Provider
	if provider == "" {
		provider = DefaultName
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, &EmptyResponseError{Provider: provider}
	}
	if trimmed[0] != '{' {
		return nil, &EmptyResponseError{Provider: provider, Cause: errors.New("response body is not a JSON object")}
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, &EmptyResponseError{Provider: provider, Cause: err}
	}

	model := n.FallbackModel
	if model == "" {
		model = DefaultModel
	}
	if m, ok := stringValue(env["model"]); ok {
		model = m
	}

	now := time.Now
	if n.Now != nil {
		now = n.Now
	}

	return &NormalizedReply{
		Content:   extractText(env),
		Usage:     extractUsage(env["usage"]),
		Model:     model,
		Timestamp: now().UTC(),
	}, nil
}

func extractText(env envelope) string {
	var blocks []contentBlock
	if json.Unmarshal(env["content"], &blocks) == nil && len(blocks) > 0 {
		if t := blocks[0].Text; t != nil && *t != "" {
			return *t
		}
	}

	if s, ok := stringValue(env["message"]); ok {
		return s
	}

	var choices []choice
	if json.Unmarshal(env["choices"], &choices) == nil && len(choices) > 0 {
		if s, ok := stringValue(choices[0].Message.Content); ok {
			return s
		}
		if s, ok := stringValue(choices[0].Text); ok {
			return s
		}
	}

	return FallbackContent
}

func extractUsage(raw json.RawMessage) *UsageInfo {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var u usageFields
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil
	}

	info := &UsageInfo{
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		TotalTokens:      u.TotalTokens,
	}
	if info.PromptTokens == 0 {
		info.PromptTokens = u.InputTokens
	}
	if info.CompletionTokens == 0 {
		info.CompletionTokens = u.OutputTokens
	}
	if info.TotalTokens == 0 {
		info.TotalTokens = info.PromptTokens + info.CompletionTokens
	}
	return info
}

// stringValue reports the value of raw when it is a non-empty JSON string.
func stringValue(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return "", false
	}
	return s, true
}
