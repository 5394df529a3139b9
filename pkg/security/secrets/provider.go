package secrets

import (
	"context"
	"errors"
	"strings"
)

// ErrEmptyToken is returned when a source holds no credential.
var ErrEmptyToken = errors.New("credential is empty")

// TokenSource supplies the bearer credential for the model endpoint.
//
// Implementations must be safe for concurrent use; Token is called once per
// upstream request.
type TokenSource interface {
	// Token returns the current credential.
	Token(ctx context.Context) (string, error)

	// Source names the backend ("static", "file").
	Source() string
}

// StaticToken is a credential fixed at startup, typically read from
// configuration or the environment.
type StaticToken string

// Token returns the trimmed credential.
func (s StaticToken) Token(ctx context.Context) (string, error) {
	v := strings.TrimSpace(string(s))
	if v == "" {
		return "", ErrEmptyToken
	}
	return v, nil
}

// Source returns "static".
func (s StaticToken) Source() string {
	return "static"
}
