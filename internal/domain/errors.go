package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for deployment runs
var (
	// ErrArtifactNotFound is returned when an artifact name has no build output
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrDeploymentRejected is returned when the backend refused or failed to confirm a deployment
	ErrDeploymentRejected = errors.New("deployment rejected")

	// ErrInvalidStepDeclaration is returned for malformed steps, before anything is deployed
	ErrInvalidStepDeclaration = errors.New("invalid step declaration")

	// ErrInvalidConfig is returned when project or runtime configuration is unusable
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNoNetwork is returned by operations that need a selected network
	ErrNoNetwork = errors.New("no network selected")

	// ErrDeclined is returned when the user declines a confirmation prompt
	ErrDeclined = errors.New("deployment declined")
)

// StepError reports the step that stopped a run.
type StepError struct {
	// Index is 1-based, in declaration order.
	Index int
	Name  string
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index, e.Name, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// ConfigError names the configuration key that failed validation.
type ConfigError struct {
	Key string
	Msg string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s has an invalid value: %s", e.Key, e.Msg)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NewConfigError creates a ConfigError for key.
func NewConfigError(key, msg string) error {
	return &ConfigError{Key: key, Msg: msg}
}
