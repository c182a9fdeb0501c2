package errs

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/withstack"
)

// PublicError carries a user-facing message alongside the underlying error.
// Error handlers that catch one return the message to the client instead of
// the internal error string; how it is rendered depends on the transport.
type PublicError struct {
	err     error
	message string
	code    string // optional machine-readable error code
}

func (p PublicError) Error() string {
	return p.err.Error()
}

// Message returns the user-facing message.
func (p PublicError) Message() string {
	return p.message
}

// Code returns the optional error code, empty if none was set.
func (p PublicError) Code() string {
	return p.code
}

func (p PublicError) Unwrap() error {
	return p.err
}

// NewPublicError creates a new error whose message is safe to show to users.
func NewPublicError(message string) error {
	return withstack.WithStackDepth(&PublicError{err: errors.New(message), message: message}, 1)
}

// NewPublicErrorWithCode is like NewPublicError with a machine-readable code.
func NewPublicErrorWithCode(message string, code string) error {
	return withstack.WithStackDepth(&PublicError{err: errors.New(message), message: message, code: code}, 1)
}

// WithPublicMessage marks err's message as safe to show to users, optionally
// prefixed. It returns nil if err is nil.
func WithPublicMessage(err error, prefix string) error {
	if err == nil {
		return nil
	}
	message := err.Error()
	if prefix != "" {
		message = fmt.Sprintf("%s: %s", prefix, message)
	}
	return withstack.WithStackDepth(&PublicError{err: err, message: message}, 1)
}

// WithPublicMessageCode is like WithPublicMessage with a machine-readable code.
func WithPublicMessageCode(err error, prefix string, code string) error {
	if err == nil {
		return nil
	}
	message := err.Error()
	if prefix != "" {
		message = fmt.Sprintf("%s: %s", prefix, message)
	}
	return withstack.WithStackDepth(&PublicError{err: err, message: message, code: code}, 1)
}
