// prtgcli/pkg/logging/errors.go

package logging

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

type ErrorType string

const (
	// ErrorTypeConfig marks a malformed rule set or invocation. Fatal, never retried.
	ErrorTypeConfig ErrorType = "CONFIG"
	// ErrorTypeLookup marks a missing attribute. Callers recover locally.
	ErrorTypeLookup ErrorType = "LOOKUP"
	ErrorTypeRemote ErrorType = "REMOTE"
	ErrorTypeStore  ErrorType = "STORE"
)

type PrtgError struct {
	Type    ErrorType
	Message string
	Err     error
	Fields  map[string]interface{}
}

func (e *PrtgError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *PrtgError) Unwrap() error {
	return e.Err
}

func NewError(errType ErrorType, message string, err error, fields map[string]interface{}) *PrtgError {
	return &PrtgError{
		Type:    errType,
		Message: message,
		Err:     err,
		Fields:  fields,
	}
}

// ConfigError is shorthand for a CONFIG error without a cause.
func ConfigError(message string, fields map[string]interface{}) *PrtgError {
	return NewError(ErrorTypeConfig, message, nil, fields)
}

// LookupError reports that an object has no value for attribute.
func LookupError(objID int, attribute string) *PrtgError {
	return NewError(ErrorTypeLookup, fmt.Sprintf("attribute %q not found", attribute), nil,
		map[string]interface{}{"objid": objID, "attribute": attribute})
}

// IsType reports whether err wraps a PrtgError of the given type.
func IsType(err error, errType ErrorType) bool {
	var prtgErr *PrtgError
	if errors.As(err, &prtgErr) {
		return prtgErr.Type == errType
	}
	return false
}

func IsConfigurationError(err error) bool {
	return IsType(err, ErrorTypeConfig)
}

func LogError(logger zerolog.Logger, err error) {
	var prtgErr *PrtgError
	if !errors.As(err, &prtgErr) {
		logger.Error().Err(err).Msg(err.Error())
		return
	}

	event := logger.Error().Err(prtgErr.Err).
		Str("error_type", string(prtgErr.Type)).
		Str("message", prtgErr.Message)

	for k, v := range prtgErr.Fields {
		event = event.Interface(k, v)
	}

	event.Msg(prtgErr.Message)
}
