package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is wrapped by repositories when a lookup matches no row.
	ErrNotFound = errors.New("not found")

	// ErrUserOwnsProjects refuses deletion of a user who still owns projects.
	// Ownership must be transferred first.
	ErrUserOwnsProjects = errors.New("user still owns projects")

	ErrInvalidAmount = errors.New("amount must be greater than zero")
	ErrInvalidPeriod = errors.New("period end must be after start date")
)

// NotFound wraps ErrNotFound with the entity name and id.
func NotFound(entity, id string) error {
	return fmt.Errorf("%s %q: %w", entity, id, ErrNotFound)
}
