package errnorm

import "fmt"

// PanicError is a recovered panic. It is always unclassified, even when the
// panic value is itself a domain error.
type PanicError struct {
	Value any
	Stack []byte
}

// NewPanicError wraps a recovered value and the stack captured at recovery.
func NewPanicError(value any, stack []byte) *PanicError {
	return &PanicError{Value: value, Stack: stack}
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Trace returns the panic message followed by the goroutine stack.
func (e *PanicError) Trace() string {
	if len(e.Stack) == 0 {
		return e.Error()
	}

	return e.Error() + "\n" + string(e.Stack)
}
