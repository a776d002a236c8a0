package scheduler

import "fmt"

// NotFoundError reports that a referenced question or session does not
// exist.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// ForbiddenError reports that the resource exists but belongs to a
// different user. Kept distinct from NotFoundError so the web layer can
// answer 403 instead of 404 once existence is established.
type ForbiddenError struct{}

func (e *ForbiddenError) Error() string { return "forbidden" }

// ConflictError reports an attempt to repeat a one-way transition, such
// as completing an already-completed session.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// ValidationError reports malformed input, such as an option index
// outside the question's option range.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// StorageError wraps a failed persistence operation. The engine never
// retries; retry policy belongs to the storage collaborator.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string { return "storage: " + e.Err.Error() }

func (e *StorageError) Unwrap() error { return e.Err }
