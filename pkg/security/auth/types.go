package auth

import "errors"

// Validation errors.
var (
	ErrMissingKey  = errors.New("no API key found")
	ErrInvalidKey  = errors.New("invalid API key")
	ErrKeyDisabled = errors.New("API key disabled")
)

// KeyInfo is an operator API key.
type KeyInfo struct {
	// Name identifies the key holder in logs. The key itself is never logged.
	Name    string
	Key     string
	Enabled bool
}
