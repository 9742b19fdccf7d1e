package session

import "fmt"

// InvalidStateError reports an operation attempted in a state that
// forbids it. This is a caller error and is not retryable.
type InvalidStateError struct {
	Op    string
	State State
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("session: %s not allowed in state %s", e.Op, e.State)
}

// UnavailableError reports a failed call to the question source or the
// answer evaluator. The session remains in its last well-defined state;
// the caller may retry the operation.
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("session: %s unavailable: %v", e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}
