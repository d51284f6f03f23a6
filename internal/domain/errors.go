package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is the machine-readable classification every failure in the
// checkout pipeline resolves to before it reaches the presentation layer.
type ErrorKind string

const (
	KindValidation        ErrorKind = "VALIDATION"
	KindTransport         ErrorKind = "TRANSPORT"
	KindTimeout           ErrorKind = "TIMEOUT"
	KindServerRejection   ErrorKind = "SERVER_REJECTED"
	KindAlreadySubmitting ErrorKind = "ALREADY_SUBMITTING"
	KindReceipt           ErrorKind = "RECEIPT_FAILED"
	KindInternal          ErrorKind = "INTERNAL"
)

// Error carries a classification kind alongside a human-readable message.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func WrapError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the classification of err, or KindInternal when the error
// never passed through the taxonomy.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
