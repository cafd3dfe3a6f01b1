package item

import (
	"errors"
)

var (
	ErrValidation = errors.New("validation error")
	ErrDuplicate  = errors.New("duplicate error")
	ErrNotFound   = errors.New("not found error")
)

const (
	MsgMissingFields   = "Name or price not specified."
	MsgArrayBody       = "Json array was provided where object is expected."
	MsgDuplicate       = "Duplicate item."
	MsgDuplicateUpdate = "Updated name is a duplicate."
	MsgNotFound        = "Item not found."
)

// Error carries a client-facing message and unwraps to one of the sentinels above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func NewValidationError(message string) error {
	return &Error{Kind: ErrValidation, Message: message}
}

func NewDuplicateError(message string) error {
	return &Error{Kind: ErrDuplicate, Message: message}
}

func NewNotFoundError(message string) error {
	return &Error{Kind: ErrNotFound, Message: message}
}

// Message returns the client-facing text of err.
func Message(err error) string {
	var itemErr *Error
	if errors.As(err, &itemErr) {
		return itemErr.Message
	}
	return err.Error()
}
