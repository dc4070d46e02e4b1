package pricing

import (
	"errors"
	"fmt"
)

// ErrDomain matches every *DomainError under errors.Is.
var ErrDomain = errors.New("domain error")

// DomainError reports inputs outside a pricer's domain. It is returned
// before any computation takes place.
type DomainError struct {
	Op  string // pricer entry point, e.g. "lattice.Price"
	Msg string
}

func (e *DomainError) Error() string {
	if e.Op == "" {
		return "pricing: " + e.Msg
	}
	return fmt.Sprintf("pricing: %s: %s", e.Op, e.Msg)
}

// Is lets callers test errors.Is(err, ErrDomain).
func (e *DomainError) Is(target error) bool {
	return target == ErrDomain
}

// NewDomainError builds a DomainError for op with a formatted message.
func NewDomainError(op, format string, args ...any) *DomainError {
	return domainErrorf(op, format, args...)
}

func domainErrorf(op, format string, args ...any) *DomainError {
	return &DomainError{Op: op, Msg: fmt.Sprintf(format, args...)}
}
