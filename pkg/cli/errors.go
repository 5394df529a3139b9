package cli

import (
	"errors"
	"fmt"
)

// Exit codes returned by the aya command.
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitConfig    = 2
	ExitUnhealthy = 3
)

// ConfigError represents an error in configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("config error: %s", e.Message)
	}
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// UnhealthyError reports that a probed component is not healthy.
type UnhealthyError struct {
	Component string
	Reason    string
}

func (e *UnhealthyError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s is unhealthy", e.Component)
	}
	return fmt.Sprintf("%s is unhealthy: %s", e.Component, e.Reason)
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return ExitConfig
	}
	var unhealthy *UnhealthyError
	if errors.As(err, &unhealthy) {
		return ExitUnhealthy
	}
	return ExitFailure
}
