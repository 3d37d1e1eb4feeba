// Package util provides utility functions and types for the route engine.
//
// # Error Conventions
//
// This project follows a standardized error pattern across all packages:
//
//   - Sentinel errors (errors.New) for well-known, stable conditions
//     that callers check with errors.Is(). Example: ErrNotFound.
//   - Structured error types for context-rich errors that carry
//     additional fields (e.g., MalformedRouteError, ConfigError). Each type
//     implements Error(), Unwrap() (if wrapping), and Is().
//   - fmt.Errorf with %w for ad-hoc wrapping that adds context to an
//     existing error without introducing a new type.
//
// Registration-time errors (malformed pattern, unsupported method,
// frozen registry) are fatal configuration defects. Lookup-time errors
// (not found, method not allowed) are ordinary outcomes and are only
// materialized as errors on request of the caller.
package util

import (
	"errors"
	"fmt"
	"strings"
)

// Common sentinel errors.
var (
	ErrNotFound          = errors.New("not found")
	ErrMethodNotAllowed  = errors.New("method not allowed")
	ErrMalformedRoute    = errors.New("malformed route")
	ErrUnsupportedMethod = errors.New("unsupported method")
	ErrRoutingFrozen     = errors.New("routing is frozen")
	ErrInvalidInput      = errors.New("invalid input")
	ErrConfigInvalid     = errors.New("invalid configuration")
)

// ConfigError represents a configuration-related error.
type ConfigError struct {
	Field   string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error at %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *ConfigError) Is(target error) bool {
	if target == ErrConfigInvalid {
		return true
	}
	_, ok := target.(*ConfigError)
	return ok || errors.Is(e.Cause, target)
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// NewConfigErrorWithCause creates a new ConfigError with a cause.
func NewConfigErrorWithCause(field, message string, cause error) *ConfigError {
	return &ConfigError{Field: field, Message: message, Cause: cause}
}

// MalformedRouteError reports a route pattern that cannot be compiled.
type MalformedRouteError struct {
	Pattern string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *MalformedRouteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed route %q: %s: %v", e.Pattern, e.Message, e.Cause)
	}
	return fmt.Sprintf("malformed route %q: %s", e.Pattern, e.Message)
}

// Unwrap returns the underlying error.
func (e *MalformedRouteError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *MalformedRouteError) Is(target error) bool {
	if target == ErrMalformedRoute {
		return true
	}
	_, ok := target.(*MalformedRouteError)
	return ok
}

// NewMalformedRouteError creates a new MalformedRouteError.
func NewMalformedRouteError(pattern, message string) *MalformedRouteError {
	return &MalformedRouteError{Pattern: pattern, Message: message}
}

// NewMalformedRouteErrorWithCause creates a new MalformedRouteError with a cause.
func NewMalformedRouteErrorWithCause(pattern, message string, cause error) *MalformedRouteError {
	return &MalformedRouteError{Pattern: pattern, Message: message, Cause: cause}
}

// UnsupportedMethodError reports an HTTP verb outside the supported set.
type UnsupportedMethodError struct {
	Method    string
	Supported []string
}

// Error implements the error interface.
func (e *UnsupportedMethodError) Error() string {
	if e.Method == "" {
		return "route methods must not be empty"
	}
	return fmt.Sprintf("method %q is not supported, allowed: %s", e.Method, strings.Join(e.Supported, ","))
}

// Is checks if the error matches the target.
func (e *UnsupportedMethodError) Is(target error) bool {
	if target == ErrUnsupportedMethod {
		return true
	}
	_, ok := target.(*UnsupportedMethodError)
	return ok
}

// NewUnsupportedMethodError creates a new UnsupportedMethodError.
func NewUnsupportedMethodError(method string, supported []string) *UnsupportedMethodError {
	return &UnsupportedMethodError{Method: method, Supported: supported}
}

// RoutingFrozenError reports a registration attempted after the registry was frozen.
type RoutingFrozenError struct {
	Operation string
}

// Error implements the error interface.
func (e *RoutingFrozenError) Error() string {
	return fmt.Sprintf("cannot %s: routing is frozen", e.Operation)
}

// Is checks if the error matches the target.
func (e *RoutingFrozenError) Is(target error) bool {
	if target == ErrRoutingFrozen {
		return true
	}
	_, ok := target.(*RoutingFrozenError)
	return ok
}

// NewRoutingFrozenError creates a new RoutingFrozenError.
func NewRoutingFrozenError(operation string) *RoutingFrozenError {
	return &RoutingFrozenError{Operation: operation}
}

// RouteNotFoundError represents a route not found error.
// For RPC lookups Method is empty and Path holds the service key.
type RouteNotFoundError struct {
	Path   string
	Method string
}

// Error implements the error interface.
func (e *RouteNotFoundError) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("no service route found for %s", e.Path)
	}
	return fmt.Sprintf("no route found for %s %s", e.Method, e.Path)
}

// Is checks if the error matches the target.
func (e *RouteNotFoundError) Is(target error) bool {
	if target == ErrNotFound {
		return true
	}
	_, ok := target.(*RouteNotFoundError)
	return ok
}

// NewRouteNotFoundError creates a new RouteNotFoundError.
func NewRouteNotFoundError(method, path string) *RouteNotFoundError {
	return &RouteNotFoundError{Path: path, Method: method}
}

// NewServiceNotFoundError creates a RouteNotFoundError for an RPC service key.
func NewServiceNotFoundError(serviceKey string) *RouteNotFoundError {
	return &RouteNotFoundError{Path: serviceKey}
}

// MethodNotAllowedError represents a path that exists for other methods only.
type MethodNotAllowedError struct {
	Path    string
	Method  string
	Allowed []string
}

// Error implements the error interface.
func (e *MethodNotAllowedError) Error() string {
	return fmt.Sprintf("method %s not allowed for %s, allow: %s",
		e.Method, e.Path, strings.Join(e.Allowed, ","))
}

// Is checks if the error matches the target.
func (e *MethodNotAllowedError) Is(target error) bool {
	if target == ErrMethodNotAllowed {
		return true
	}
	_, ok := target.(*MethodNotAllowedError)
	return ok
}

// NewMethodNotAllowedError creates a new MethodNotAllowedError.
func NewMethodNotAllowedError(method, path string, allowed []string) *MethodNotAllowedError {
	return &MethodNotAllowedError{Path: path, Method: method, Allowed: allowed}
}

// WrapError wraps an error with additional context.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsRegistrationError returns true if the error is a fatal registration defect.
func IsRegistrationError(err error) bool {
	if err == nil {
		return false
	}

	return errors.Is(err, ErrMalformedRoute) ||
		errors.Is(err, ErrUnsupportedMethod) ||
		errors.Is(err, ErrRoutingFrozen)
}

// IsClientError returns true if the error is a client error (4xx).
func IsClientError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrNotFound) {
		return true
	}

	if errors.Is(err, ErrMethodNotAllowed) {
		return true
	}

	return errors.Is(err, ErrInvalidInput)
}
