package application

import (
	"errors"

	"github.com/example/booking-mediator/internal/booking"
)

// ErrorKind maps failure classes to a stable logging label. Refusals and
// missing targets are decisions, not errors, so they never reach this.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}

	var vErr *booking.ValidationError
	if errors.As(err, &vErr) {
		return "validation"
	}

	return "upstream"
}
