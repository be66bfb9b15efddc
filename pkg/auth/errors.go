package auth

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUndefinedGuard indicates a guard name missing from the config.
	ErrUndefinedGuard = errors.New("auth: guard is not defined")

	// ErrUndefinedProvider indicates a provider name missing from the
	// config.
	ErrUndefinedProvider = errors.New("auth: user provider is not defined")

	// ErrUnknownGuardDriver indicates a guard driver with no factory.
	ErrUnknownGuardDriver = errors.New("auth: unknown guard driver")

	// ErrUnknownProviderDriver indicates a provider driver with no
	// factory.
	ErrUnknownProviderDriver = errors.New("auth: unknown provider driver")

	// ErrMissingDependency indicates the manager lacks a dependency the
	// requested driver needs.
	ErrMissingDependency = errors.New("auth: missing dependency")
)

// AuthenticationError reports that none of the tried guards produced a user.
// Middleware turns it into a 401 or a redirect to RedirectTo.
type AuthenticationError struct {
	// Guards lists the guard names that were tried.
	Guards []string

	// RedirectTo is where an unauthenticated browser should be sent.
	RedirectTo string
}

func (e *AuthenticationError) Error() string {
	if len(e.Guards) == 0 {
		return "auth: unauthenticated"
	}
	return fmt.Sprintf("auth: unauthenticated (guards: %s)", strings.Join(e.Guards, ", "))
}

// NewAuthenticationError creates the error for the given guard names.
func NewAuthenticationError(guards []string, redirectTo string) *AuthenticationError {
	return &AuthenticationError{Guards: guards, RedirectTo: redirectTo}
}
