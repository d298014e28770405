// Package script runs Tengo scripts as event subscribers.
package script

import (
	"time"
)

// Script is a named piece of Tengo source.
type Script struct {
	Name    string
	Content string
}

// SecurityLimits defines resource constraints for script execution
type SecurityLimits struct {
	MaxExecutionTime time.Duration
	AllowedPackages  []string
}

// DefaultSecurityLimits provides safe default constraints for script execution
var DefaultSecurityLimits = SecurityLimits{
	MaxExecutionTime: 5 * time.Second,
	AllowedPackages: []string{
		"fmt",
		"math",
		"text",
	},
}

// GetDefaultSecurityLimits returns a copy of the default security limits
func GetDefaultSecurityLimits() SecurityLimits {
	limits := DefaultSecurityLimits
	limits.AllowedPackages = make([]string, len(DefaultSecurityLimits.AllowedPackages))
	copy(limits.AllowedPackages, DefaultSecurityLimits.AllowedPackages)
	return limits
}

// ErrorType classifies script failures
type ErrorType string

const (
	ErrorTypeCompilation ErrorType = "compilation"
	ErrorTypeInput       ErrorType = "input"
	ErrorTypeExecution   ErrorType = "execution"
	ErrorTypeTimeout     ErrorType = "timeout"
	ErrorTypeNotFound    ErrorType = "not_found"
)

// ScriptError represents script-related errors with context
type ScriptError struct {
	Type       ErrorType
	ScriptName string
	Message    string
	Cause      error
	Timestamp  time.Time
}

func (e *ScriptError) Error() string {
	if e.Cause != nil {
		return e.ScriptName + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.ScriptName + ": " + e.Message
}

func (e *ScriptError) Unwrap() error {
	return e.Cause
}

// NewScriptError creates a new ScriptError with the given parameters
func NewScriptError(errorType ErrorType, scriptName, message string, cause error) *ScriptError {
	return &ScriptError{
		Type:       errorType,
		ScriptName: scriptName,
		Message:    message,
		Cause:      cause,
		Timestamp:  time.Now(),
	}
}
