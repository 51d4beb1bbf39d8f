package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Sentinel errors returned by the repositories so callers can translate
// storage outcomes into API responses without parsing driver errors.
var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateEmail  = errors.New("email already registered")
	ErrDuplicatePhone  = errors.New("phone already registered")
	ErrDuplicateSlug   = errors.New("slug already in use")
	ErrDuplicateNumber = errors.New("order number already in use")
	ErrDuplicateReview = errors.New("review already exists for this product")
)

// InsufficientStockError is returned by OrderRepository.Create when the
// conditional stock decrement matches no row, meaning the product has
// fewer units left than the order asks for.
type InsufficientStockError struct {
	ProductID string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s", e.ProductID)
}

// uniqueViolation reports whether err is a Postgres unique-constraint
// violation on the named constraint.
func uniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" && pqErr.Constraint == constraint
	}
	return false
}
