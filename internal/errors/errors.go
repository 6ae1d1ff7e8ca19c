package errors

import (
	"errors"
)

// Common error types
var (
	ErrValidation   = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotAMember   = errors.New("not a chat member")
	ErrTicketClosed = errors.New("ticket is closed")
	ErrBlocked      = errors.New("account blocked")
	ErrInternal     = errors.New("internal error")
)
