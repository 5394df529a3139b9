package secrets

import (
	"context"
	"errors"
	"testing"
)

func TestStaticToken(t *testing.T) {
	tests := []struct {
		name    string
		token   StaticToken
		want    string
		wantErr error
	}{
		{name: "plain", token: "dapi-123", want: "dapi-123"},
		{name: "trimmed", token: "  dapi-123\n", want: "dapi-123"},
		{name: "empty", token: "", wantErr: ErrEmptyToken},
		{name: "blank", token: "   ", wantErr: ErrEmptyToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.token.Token(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Token() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Token() = %q, want %q", got, tt.want)
			}
		})
	}

	if StaticToken("x").Source() != "static" {
		t.Error("Source() should be static")
	}
}
