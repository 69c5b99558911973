package authz

import (
	"errors"
	"flag"
	"fmt"
	"strings"
)

const (
	// errUnauthorized is the error message that should be returned to
	// clients when an action is forbidden. It is intentionally vague to prevent
	// disclosing information that a client should not have access to.
	errUnauthorized = "authz: forbidden"
)

// UnauthorizedError is the error type for authorization errors.
type UnauthorizedError struct {
	// internal is the internal error that should never be shown to the client.
	// It is only for debugging purposes.
	internal error

	// These fields are for debugging purposes.
	authentication Authentication
	action         string
	request        Request
}

// IsUnauthorizedError is a convenience function to check if err is
// UnauthorizedError. It is equivalent to errors.As(err, &UnauthorizedError{}).
func IsUnauthorizedError(err error) bool {
	return errors.As(err, &UnauthorizedError{})
}

// ForbiddenWithInternal creates a new error that will return a simple
// "forbidden" to the client, logging internally the more detailed message
// provided.
func ForbiddenWithInternal(internal error, authentication Authentication, action string, request Request) *UnauthorizedError {
	return &UnauthorizedError{
		internal:       internal,
		authentication: authentication,
		action:         action,
		request:        request,
	}
}

func (e UnauthorizedError) Unwrap() error {
	return e.internal
}

func (e *UnauthorizedError) longError() string {
	return fmt.Sprintf(
		"%s: (principal: %q), (realm: %q), (action: %q), (request: %v)",
		errUnauthorized, e.authentication.Principal, e.authentication.RealmName, e.action, e.request,
	)
}

// Error implements the error interface.
func (e UnauthorizedError) Error() string {
	if flag.Lookup("test.v") != nil {
		return e.longError()
	}
	return errUnauthorized
}

// Internal allows the internal error message to be logged.
func (e *UnauthorizedError) Internal() error {
	return e.internal
}

func (e *UnauthorizedError) SetInternal(err error) {
	e.internal = err
}

// As implements the errors.As interface.
func (*UnauthorizedError) As(target interface{}) bool {
	if _, ok := target.(*UnauthorizedError); ok {
		return true
	}
	return false
}

// UnknownPrivilegeError is returned by Registry.Resolve when a name is
// neither a catalog entry nor a raw cluster action pattern. It is surfaced at
// role definition time, never during a live permission check.
type UnknownPrivilegeError struct {
	// Name is the privilege name that failed to resolve.
	Name string
	// Valid holds every catalog name, sorted, to aid the caller.
	Valid []string
}

func (e *UnknownPrivilegeError) Error() string {
	return fmt.Sprintf("unknown cluster privilege %q, a privilege must be one of the predefined"+
		" cluster privileges [%s] or a pattern over one of the available cluster actions",
		e.Name, strings.Join(e.Valid, ", "))
}

// As implements the errors.As interface.
func (*UnknownPrivilegeError) As(target interface{}) bool {
	if _, ok := target.(*UnknownPrivilegeError); ok {
		return true
	}
	return false
}
