package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"restaurant_analytics/internal/repository"
)

// ValidationError is returned before any query runs.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// DataSourceError wraps a failed store query.
type DataSourceError struct {
	Op  string
	Err error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}

func sourceError(op string, err error) error {
	return &DataSourceError{Op: op, Err: err}
}

// lookupError maps a missing entity to NotFoundError and anything else to
// DataSourceError.
func lookupError(entity string, id uuid.UUID, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Entity: entity, ID: id.String()}
	}
	return sourceError("load "+entity, err)
}

// validateFilter converts a rejected repository filter into a ValidationError.
func validateFilter(f interface{ Validate() error }) error {
	err := f.Validate()
	if err == nil {
		return nil
	}
	var fe *repository.FilterError
	if errors.As(err, &fe) {
		return &ValidationError{Field: fe.Field, Message: fe.Message}
	}
	return err
}

func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &ValidationError{Field: field, Message: fmt.Sprintf("%q is not a valid id", raw)}
	}
	return id, nil
}
