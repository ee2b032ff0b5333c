package domain

import (
	"fmt"
	"strings"
)

// Value is a constructor argument as declared. Backends convert it to
// the type the artifact's ABI expects.
type Value = any

// RefPrefix marks a string argument that refers to the address deployed
// by an earlier step, e.g. "@CIDsOwners".
const RefPrefix = "@"

// DeploymentStep is one instruction to publish an artifact.
type DeploymentStep struct {
	Artifact string  `yaml:"artifact" json:"artifact"`
	Label    string  `yaml:"label,omitempty" json:"label,omitempty"`
	Args     []Value `yaml:"args,omitempty" json:"args,omitempty"`
}

// Key is the name later steps use to reference this one.
func (s DeploymentStep) Key() string {
	if label := strings.TrimSpace(s.Label); label != "" {
		return label
	}
	return strings.TrimSpace(s.Artifact)
}

// StepRef returns the referenced step key if v is a reference argument.
func StepRef(v Value) (string, bool) {
	str, ok := v.(string)
	if !ok || !strings.HasPrefix(str, RefPrefix) || len(str) == len(RefPrefix) {
		return "", false
	}
	return strings.TrimPrefix(str, RefPrefix), true
}

// ValidateSteps checks a declaration before anything is resolved or deployed.
// Names must be non-empty and references may only point backwards.
func ValidateSteps(steps []DeploymentStep) error {
	seen := make(map[string]bool, len(steps))
	for i, step := range steps {
		name := strings.TrimSpace(step.Artifact)
		if name == "" {
			return &StepError{
				Index: i + 1,
				Name:  step.Artifact,
				Err:   fmt.Errorf("%w: artifact name is empty", ErrInvalidStepDeclaration),
			}
		}
		if err := validateRefs(step.Args, seen); err != nil {
			return &StepError{Index: i + 1, Name: name, Err: err}
		}
		seen[step.Key()] = true
	}
	return nil
}

func validateRefs(args []Value, seen map[string]bool) error {
	for _, arg := range args {
		if err := validateRef(arg, seen); err != nil {
			return err
		}
	}
	return nil
}

// validateRef checks one argument, descending into lists and tuple maps
func validateRef(arg Value, seen map[string]bool) error {
	switch v := arg.(type) {
	case []Value:
		return validateRefs(v, seen)
	case map[string]Value:
		for _, field := range v {
			if err := validateRef(field, seen); err != nil {
				return err
			}
		}
		return nil
	}
	ref, ok := StepRef(arg)
	if ok && !seen[ref] {
		return fmt.Errorf("%w: %q does not name an earlier step", ErrInvalidStepDeclaration, arg)
	}
	return nil
}
