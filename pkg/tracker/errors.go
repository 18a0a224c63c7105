package tracker

import "errors"

var (
	// ErrExecutionNotFound indicates no execution exists for the given id.
	ErrExecutionNotFound = errors.New("execution not found")

	// ErrExecutionExists indicates an execution with the same id was already
	// created.
	ErrExecutionExists = errors.New("execution already exists")

	// ErrExecutionTerminal indicates a transition was attempted on an
	// execution that already reached a terminal status.
	ErrExecutionTerminal = errors.New("execution already terminal")
)

// IsExecutionNotFound checks if an error indicates an unknown execution id.
func IsExecutionNotFound(err error) bool {
	return errors.Is(err, ErrExecutionNotFound)
}
