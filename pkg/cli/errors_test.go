package cli

import (
	"errors"
	"fmt"
	"testing"
)

func TestConfigError(t *testing.T) {
	tests := []struct {
		name string
		err  *ConfigError
		want string
	}{
		{
			name: "with field",
			err:  NewConfigError("model.endpoint", "endpoint URL is required"),
			want: "config error in model.endpoint: endpoint URL is required",
		},
		{
			name: "without field",
			err:  NewConfigError("", "failed to load config"),
			want: "config error: failed to load config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommandError(t *testing.T) {
	underlyingErr := errors.New("underlying error")
	err := NewCommandError("run", underlyingErr)

	expected := "command run failed: underlying error"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, underlyingErr) {
		t.Error("errors.Is() should see through CommandError")
	}
}

func TestUnhealthyError(t *testing.T) {
	err := &UnhealthyError{Component: "databricks", Reason: "HTTP 503"}
	if got, want := err.Error(), "databricks is unhealthy: HTTP 503"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	bare := &UnhealthyError{Component: "databricks"}
	if got, want := bare.Error(), "databricks is unhealthy"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: ExitOK},
		{name: "plain error", err: errors.New("boom"), want: ExitFailure},
		{name: "config error", err: NewConfigError("", "bad"), want: ExitConfig},
		{name: "wrapped config error", err: NewCommandError("run", NewConfigError("x", "bad")), want: ExitConfig},
		{name: "unhealthy", err: fmt.Errorf("probe: %w", &UnhealthyError{Component: "databricks"}), want: ExitUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
