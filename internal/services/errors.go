// Package services defines the business logic for the door catalog, orders,
// enquiries, and the newsletter. This file centralizes the service-level error
// values so that they can be consistently returned by service methods and
// checked by callers.
//
// Translation into HTTP status codes happens in the handler layer.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrDoorNotFound indicates that the door does not exist or has been
	// soft-deleted.
	ErrDoorNotFound = errors.New("door not found")

	// ErrOrderNotFound indicates that the order does not exist or has been
	// soft-deleted.
	ErrOrderNotFound = errors.New("order not found")

	// ErrEnquiryNotFound indicates that no enquiry of the requested variant
	// has the given id.
	ErrEnquiryNotFound = errors.New("enquiry not found")

	// ErrAlreadySubscribed is returned when the email is already on the
	// newsletter list.
	ErrAlreadySubscribed = errors.New("email already subscribed")

	// ErrDatabaseBusy is returned when a unit of work could not finish within
	// the acquire timeout, typically because the pool is exhausted.
	ErrDatabaseBusy = errors.New("database busy")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// within runs fn under the acquire timeout. When that deadline (and not the
// caller's) cuts the work short, the error becomes ErrDatabaseBusy.
func within(ctx context.Context, timeout time.Duration, fn func(ctx context.Context) error) error {
	if timeout <= 0 {
		return fn(ctx)
	}
	uctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := fn(uctx)
	if err != nil && ctx.Err() == nil && errors.Is(uctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrDatabaseBusy, err)
	}
	return err
}
