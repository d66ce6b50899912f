package services

import (
	"errors"

	"github.com/google/uuid"
)

// Commands never apply a partial mutation; a failed precondition is
// reported through one of these values (wrapped with context).
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidState      = errors.New("invalid state")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInsufficientStock = errors.New("insufficient stock")
)

func newID(prefix string) string { return prefix + "-" + uuid.NewString() }
